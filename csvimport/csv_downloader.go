// csvimport/csv_downloader.go
package csvimport

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
)

// Downloader fetches an export published at a URL into a local directory.
type Downloader struct {
	Client *http.Client
	Dir    string
	log    *zap.Logger
}

func NewDownloader(dir string, log *zap.Logger) *Downloader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Downloader{
		Client: &http.Client{Timeout: 30 * time.Second},
		Dir:    dir,
		log:    log.Named("download"),
	}
}

// IsURL reports whether source names an http(s) export rather than a local file.
func IsURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Resolve returns a local path for source. URLs are downloaded once into the
// download directory and cleanup removes the copy; local paths are returned
// unchanged with a no-op cleanup.
func (d *Downloader) Resolve(ctx context.Context, source string) (string, func(), error) {
	if !IsURL(source) {
		return source, func() {}, nil
	}

	if err := os.MkdirAll(d.dir(), 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create download directory %s: %w", d.dir(), err)
	}
	out, err := os.CreateTemp(d.dir(), "export-*.csv")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create local file for %s: %w", source, err)
	}
	localPath := out.Name()
	out.Close()

	cleanup := func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			d.log.Warn("failed to remove downloaded export", zap.String("path", localPath), zap.Error(err))
		}
	}

	if err := d.DownloadFile(ctx, source, localPath); err != nil {
		cleanup()
		return "", nil, err
	}
	return localPath, cleanup, nil
}

func (d *Downloader) dir() string {
	if d.Dir == "" {
		return os.TempDir()
	}
	return d.Dir
}

// DownloadFile saves the body of url to localSavePath.
func (d *Downloader) DownloadFile(ctx context.Context, url string, localSavePath string) error {
	d.log.Info("downloading export", zap.String("url", url), zap.String("path", localSavePath))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build GET request for %s: %w", url, err)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make GET request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download file from %s: received status code %d", url, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(localSavePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", localSavePath, err)
	}

	outFile, err := os.Create(localSavePath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localSavePath, err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		return fmt.Errorf("failed to copy downloaded content to %s: %w", localSavePath, err)
	}
	return nil
}

// FileHash returns the hex sha256 of the file at path.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
