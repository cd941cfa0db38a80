// transport/backup.go
package transport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	fw_errors "github.com/dev-mohitbeniwal/fundwire/errors"
)

// Archive is the local backup store: every request and response body is
// written under a timestamp-prefixed name so that offline mode and audits
// can replay the most recent snapshot of each message family.
//
// Naming convention: <timestamp>__<env>_<supplier>_<TAG>.xml with a
// timestamp layout that sorts lexicographically as chronologically, so
// "latest" is simply the greatest filename.
type Archive struct {
	dir      string
	env      string
	supplier string
}

const backupTimeLayout = "2006_01_02_15_04_05"

func NewArchive(dir, env, supplier string) *Archive {
	return &Archive{dir: dir, env: env, supplier: supplier}
}

// BackupTag derives the archive tag for a download mode. Writers and
// readers must agree on this mapping or offline mode can never find the
// snapshots the client itself wrote, so it lives in exactly one place.
func BackupTag(mode string) string {
	return strings.ToUpper(strings.ReplaceAll(mode, "-", ""))
}

// Write stores one payload under the naming convention and returns the
// full path.
func (a *Archive) Write(tag string, payload []byte) (string, error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	name := fmt.Sprintf("%s__%s_%s_%s.xml",
		time.Now().Format(backupTimeLayout), a.env, a.supplier, tag)
	path := filepath.Join(a.dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write backup %s: %w", name, err)
	}
	return path, nil
}

// LatestBackup returns the content of the newest backup whose name
// contains the report tag. Listing and reading race benignly with new
// writes: at worst an older snapshot is chosen, which never corrupts a
// single read. No matching file yields ErrNoBackup.
func (a *Archive) LatestBackup(tag string) (string, error) {
	dirEntries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fw_errors.ErrNoBackup
		}
		return "", fmt.Errorf("list backup dir: %w", err)
	}

	latest := ""
	for _, e := range dirEntries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".xml") || !strings.Contains(name, tag) {
			continue
		}
		if name > latest {
			latest = name
		}
	}
	if latest == "" {
		return "", fw_errors.ErrNoBackup
	}

	content, err := os.ReadFile(filepath.Join(a.dir, latest))
	if err != nil {
		return "", fmt.Errorf("read backup %s: %w", latest, err)
	}
	return string(content), nil
}

// LatestBackupName returns only the selected filename, used by tests and
// the CLI's troubleshooting output.
func (a *Archive) LatestBackupName(tag string) (string, error) {
	dirEntries, err := os.ReadDir(a.dir)
	if err != nil {
		return "", fw_errors.ErrNoBackup
	}
	latest := ""
	for _, e := range dirEntries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".xml") || !strings.Contains(name, tag) {
			continue
		}
		if name > latest {
			latest = name
		}
	}
	if latest == "" {
		return "", fw_errors.ErrNoBackup
	}
	return latest, nil
}
