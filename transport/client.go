// transport/client.go

// Package transport is the raw exchange boundary: one HTTP client with the
// upload/download contract of the remote service, and the backup archive
// that keeps a local copy of every request and response.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	fw_errors "github.com/dev-mohitbeniwal/fundwire/errors"
	logger "github.com/dev-mohitbeniwal/fundwire/logging"
)

// Client is the transport contract. Responses beginning with "ERROR" are
// the remote service's sentinel for caller-visible failure; everything
// else non-empty is XML for the caller to parse. The client imposes no
// timeout of its own beyond what the injected http.Client enforces.
type Client interface {
	Download(ctx context.Context, mode string, params url.Values) (string, error)
	Upload(ctx context.Context, content []byte, fileName string) (string, error)
}

// IsErrorResponse reports whether a response body carries the remote
// failure sentinel.
func IsErrorResponse(body string) bool {
	return strings.HasPrefix(strings.TrimSpace(body), "ERROR")
}

// RemoteError turns a sentinel response body into an error carrying
// ErrRemoteError, so callers can distinguish remote rejections from
// transport failures with errors.Is.
func RemoteError(body string) error {
	return fmt.Errorf("%w: %s", fw_errors.ErrRemoteError, strings.TrimSpace(body))
}

// HTTPClient talks to the data-provider service over XML-over-HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	archive    *Archive
}

// NewHTTPClient builds the transport client. proxyURL may be empty; when
// set, all requests are routed through it.
func NewHTTPClient(baseURL, proxyURL string, archive *Archive) (*HTTPClient, error) {
	httpTransport := &http.Transport{}
	if proxyURL != "" {
		proxy, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		httpTransport.Proxy = http.ProxyURL(proxy)
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Transport: httpTransport},
		archive:    archive,
	}, nil
}

// Download fetches one report or listing. The response body is archived
// under the mode's tag before it is returned.
func (c *HTTPClient) Download(ctx context.Context, mode string, params url.Values) (string, error) {
	query := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	query.Set("mode", mode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: build download request: %v", fw_errors.ErrTransport, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: download %s: %v", fw_errors.ErrTransport, mode, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read download response: %v", fw_errors.ErrTransport, err)
	}

	if c.archive != nil {
		if _, err := c.archive.Write(BackupTag(mode), body); err != nil {
			logger.Warn("Failed to archive download response",
				zap.String("mode", mode), zap.Error(err))
		}
	}

	return string(body), nil
}

// Upload posts one command document as a file part. The request payload is
// archived before sending; the raw response text is returned for the
// caller to inspect against the ERROR sentinel.
func (c *HTTPClient) Upload(ctx context.Context, content []byte, fileName string) (string, error) {
	if c.archive != nil {
		if _, err := c.archive.Write("ACCESSRULES", content); err != nil {
			logger.Warn("Failed to archive upload payload",
				zap.String("fileName", fileName), zap.Error(err))
		}
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("%w: build upload form: %v", fw_errors.ErrTransport, err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("%w: write upload payload: %v", fw_errors.ErrTransport, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: finish upload form: %v", fw_errors.ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, &buf)
	if err != nil {
		return "", fmt.Errorf("%w: build upload request: %v", fw_errors.ErrTransport, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: upload %s: %v", fw_errors.ErrTransport, fileName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read upload response: %v", fw_errors.ErrTransport, err)
	}

	return string(body), nil
}
