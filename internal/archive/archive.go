// Package archive uploads finished episodes to the Internet Archive's
// S3-compatible API.
package archive

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abelbrown/newsreel/internal/logging"
)

// Credentials for the archive's S3-like endpoint.
type Credentials struct {
	AccessKey string
	Secret    string
}

// Present reports whether both halves of the credential pair are set.
func (c Credentials) Present() bool {
	return c.AccessKey != "" && c.Secret != ""
}

// Metadata describes one uploaded item.
type Metadata struct {
	Identifier  string
	Title       string
	Description string
	Mediatype   string
	Collection  string
}

// Uploader pushes files to the archive. It never retries and never raises
// for missing credentials.
type Uploader struct {
	creds      Credentials
	httpClient *http.Client
	endpoint   string
}

// NewUploader creates an uploader with the given credentials, which may be
// empty.
func NewUploader(creds Credentials) *Uploader {
	return &Uploader{
		creds:      creds,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		endpoint:   "https://s3.us.archive.org",
	}
}

// Identifier builds the stable per-topic per-day archive identifier.
func Identifier(topicSlug string, day time.Time) string {
	return strings.ToLower(fmt.Sprintf("newsreel-%s-%s", topicSlug, day.UTC().Format("2006-01-02")))
}

// AudioURL returns the public download URL for an uploaded file.
func (u *Uploader) AudioURL(identifier, filename string) string {
	return fmt.Sprintf("https://archive.org/download/%s/%s", identifier, filename)
}

// Upload sends the file at path to the archive under meta.Identifier.
// Without credentials it succeeds immediately in dry-run mode (logging the
// intent) and fails quietly otherwise. With credentials it attempts one
// PUT and reports the outcome.
func (u *Uploader) Upload(ctx context.Context, path string, meta Metadata, dryRun bool) bool {
	if !u.creds.Present() {
		if dryRun {
			logging.Info("archive upload skipped (dry run, no credentials)",
				"identifier", meta.Identifier, "file", path)
			return true
		}
		logging.Warn("archive upload failed: no credentials", "identifier", meta.Identifier)
		return false
	}

	if err := u.put(ctx, path, meta); err != nil {
		logging.Warn("archive upload failed", "identifier", meta.Identifier, "error", err)
		return false
	}

	logging.Info("archive upload complete", "identifier", meta.Identifier, "file", path)
	return true
}

func (u *Uploader) put(ctx context.Context, path string, meta Metadata) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	target := fmt.Sprintf("%s/%s/%s", u.endpoint, meta.Identifier, filepath.Base(path))
	req, err := http.NewRequestWithContext(ctx, "PUT", target, f)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = info.Size()

	req.Header.Set("Authorization", fmt.Sprintf("LOW %s:%s", u.creds.AccessKey, u.creds.Secret))
	req.Header.Set("Content-Type", "audio/mpeg")
	req.Header.Set("x-archive-auto-make-bucket", "1")
	setMetaHeader(req, "title", meta.Title)
	setMetaHeader(req, "description", meta.Description)
	setMetaHeader(req, "mediatype", meta.Mediatype)
	setMetaHeader(req, "collection", meta.Collection)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("archive error (status %d)", resp.StatusCode)
	}
	return nil
}

func setMetaHeader(req *http.Request, key, value string) {
	if value != "" {
		req.Header.Set("x-archive-meta-"+key, value)
	}
}
