// config/config.go
package config

import (
	"log"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Connection ConnectionConfiguration
	Supplier   SupplierConfiguration
	Contact    ContactConfiguration
	Backup     BackupConfiguration
}

// ConnectionConfiguration stores the connection mode and server settings.
// Mode is "online" or "offline"; offline redirects every read to the
// backup archive and turns uploads into audit log entries.
type ConnectionConfiguration struct {
	Mode        string
	ServerURL   string
	ProxyURL    string
	Environment string
}

// SupplierConfiguration identifies this installation's data supplier
type SupplierConfiguration struct {
	Short string
	Name  string
}

// ContactConfiguration is the operator contact emitted into every
// delete/import document. Historically hard-coded; kept configurable here.
type ContactConfiguration struct {
	Name  string
	Phone string
	Email string
}

// BackupConfiguration stores where request/response copies are archived
type BackupConfiguration struct {
	Dir string
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	viper.SetEnvPrefix("fundwire")
	viper.AutomaticEnv() // read in environment variables that match

	// Set default configurations
	viper.SetDefault("connection.mode", "online")
	viper.SetDefault("connection.serverURL", "https://localhost:8443/exchange")
	viper.SetDefault("connection.proxyURL", "")
	viper.SetDefault("connection.environment", "P")
	viper.SetDefault("supplier.short", "")
	viper.SetDefault("supplier.name", "")
	viper.SetDefault("contact.name", "Operations Desk")
	viper.SetDefault("contact.phone", "")
	viper.SetDefault("contact.email", "")
	viper.SetDefault("backup.dir", "backup")
	viper.SetDefault("log.dir", "logging")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	err := viper.Unmarshal(&config)
	if err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// Offline reports whether the client runs against the backup archive
// instead of the network. Read once per operation, never cached.
func (c *Configuration) Offline() bool {
	return c.Connection.Mode == "offline"
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}
