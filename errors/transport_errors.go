// errors/transport_errors.go
package errors

import "errors"

var (
	ErrRemoteError   = errors.New("remote service reported an error")
	ErrTransport     = errors.New("transport operation failed")
	ErrNoBackup      = errors.New("no backup file for this report type")
	ErrEmptyResponse = errors.New("empty or non-XML response")
)
