// Package storage uploads applicant documents to the configured
// object store over its REST surface.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"
)

type Uploader struct {
	baseURL string
	hc      *http.Client
}

func NewUploader(baseURL string) *Uploader {
	return &Uploader{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload PUTs one document and returns its public URL. A failure only
// affects this document; the caller collects errors per file.
func (u *Uploader) Upload(ctx context.Context, userID, kind, fileURI string) (string, error) {
	f, err := os.Open(fileURI)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", kind, err)
	}
	defer f.Close()

	key := path.Join("kyc", userID, kind+path.Ext(fileURI))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u.baseURL+"/"+url.PathEscape(key), f)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	res, err := u.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", kind, err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("upload %s: status %d", kind, res.StatusCode)
	}
	return u.baseURL + "/" + key, nil
}
