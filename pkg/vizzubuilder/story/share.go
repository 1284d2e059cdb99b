package story

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultShareEndpoint receives shared stories.
	DefaultShareEndpoint = "http://127.0.0.1:5000/fileupload"
	// DefaultShareTimeout bounds a single upload.
	DefaultShareTimeout = 10 * time.Second
	// ShareField is the multipart form field carrying the document.
	ShareField = "file"
)

// ShareError reports a failed story upload.
type ShareError struct {
	Endpoint string
	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int
	Err        error
}

func (e *ShareError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("share to %s failed with status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("share to %s failed: %v", e.Endpoint, e.Err)
}

func (e *ShareError) Unwrap() error {
	return e.Err
}

// Uploader posts exported stories to a file upload endpoint.
type Uploader struct {
	// Endpoint is the upload URL; empty means DefaultShareEndpoint.
	Endpoint string
	// Timeout bounds one upload; zero means DefaultShareTimeout.
	Timeout time.Duration
	// Client is the HTTP client; nil means http.DefaultClient.
	Client *http.Client
	Logger *zap.Logger
}

// Upload sends doc as the multipart field "file" named name.
func (u *Uploader) Upload(ctx context.Context, name string, doc []byte) error {
	endpoint := u.Endpoint
	if endpoint == "" {
		endpoint = DefaultShareEndpoint
	}
	timeout := u.Timeout
	if timeout <= 0 {
		timeout = DefaultShareTimeout
	}
	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}
	logger := u.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(ShareField, name)
	if err != nil {
		return &ShareError{Endpoint: endpoint, Err: err}
	}
	if _, err := part.Write(doc); err != nil {
		return &ShareError{Endpoint: endpoint, Err: err}
	}
	if err := mw.Close(); err != nil {
		return &ShareError{Endpoint: endpoint, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return &ShareError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	logger.Debug("Uploading story", zap.String("endpoint", endpoint), zap.Int("bytes", len(doc)))
	resp, err := client.Do(req)
	if err != nil {
		return &ShareError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ShareError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	logger.Info("Story shared", zap.String("endpoint", endpoint), zap.Int("status", resp.StatusCode))
	return nil
}
