package discovery

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/reviewmycoach/coach-scout/internal/normalize"
)

const downloadChunkSize = 8192

// Downloader streams candidate documents to local storage.
type Downloader struct {
	client *http.Client
}

// NewDownloader creates a Downloader. Downloads get a longer timeout than
// probes since they read whole documents.
func NewDownloader(timeout time.Duration) *Downloader {
	if timeout < 30*time.Second {
		timeout = 30 * time.Second
	}
	return &Downloader{client: &http.Client{Timeout: timeout}}
}

// Download streams url to destDir/filename in fixed-size chunks. Any
// transport or filesystem failure yields an empty path and no partial file.
func (d *Downloader) Download(ctx context.Context, url, destDir, filename string) string {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		zap.L().Warn("download: create dir failed", zap.String("dir", destDir), zap.Error(err))
		return ""
	}
	path := filepath.Join(destDir, filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return ""
	}

	f, err := os.Create(path)
	if err != nil {
		return ""
	}

	buf := make([]byte, downloadChunkSize)
	if _, err := io.CopyBuffer(f, resp.Body, buf); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return ""
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return ""
	}
	return path
}

// DocFilename builds a collision-resistant, filesystem-safe filename for a
// discovered document: a slug of institution/domain/title plus the first 10
// hex characters of the URL's SHA-256, so identical titles from different
// URLs never collide.
func DocFilename(institution, domain, title, url string) string {
	namePart := normalize.Slug(fmt.Sprintf("%s_%s_%s", institution, domain, title))
	sum := sha256.Sum256([]byte(url))
	hash := hex.EncodeToString(sum[:])[:10]
	name := fmt.Sprintf("%s_%s", namePart, hash)
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
