// Package archive downloads and unpacks zipped NHC shapefile archives.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Fetcher downloads archives into a cache directory and extracts each one
// next to its zip. Archives already on disk are reused, except those whose
// name contains the refresh marker (best-track archives are republished under
// the same name as the storm progresses).
type Fetcher struct {
	httpClient    *http.Client
	dir           string
	refreshMarker string
	logger        *slog.Logger
}

// NewFetcher creates a Fetcher that stores archives under dir.
func NewFetcher(dir string, timeout time.Duration, refreshMarker string, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		httpClient:    &http.Client{Timeout: timeout},
		dir:           dir,
		refreshMarker: refreshMarker,
		logger:        logger,
	}
}

// Fetch makes sure the archive at rawURL is downloaded and extracted, and
// returns the extraction directory.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	name, err := archiveName(rawURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	zipPath := filepath.Join(f.dir, name)
	if f.needsDownload(zipPath) {
		f.logger.Info("downloading archive", "url", rawURL)
		if err := f.download(ctx, rawURL, zipPath); err != nil {
			return "", err
		}
	} else {
		f.logger.Debug("archive cached on disk", "path", zipPath)
	}

	dest := strings.TrimSuffix(zipPath, filepath.Ext(zipPath))
	if err := unzip(zipPath, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// AlwaysRefreshed reports whether rawURL names an archive that is fetched
// again on every run.
func (f *Fetcher) AlwaysRefreshed(rawURL string) bool {
	return f.refreshMarker != "" && strings.Contains(rawURL, f.refreshMarker)
}

func (f *Fetcher) needsDownload(zipPath string) bool {
	if f.AlwaysRefreshed(filepath.Base(zipPath)) {
		return true
	}
	_, err := os.Stat(zipPath)
	return err != nil
}

func (f *Fetcher) download(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("download %s: %w", rawURL, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), dest)
}

// archiveName returns the file name component of an archive URL.
func archiveName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse archive url: %w", err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("archive url %q has no file name", rawURL)
	}
	return name, nil
}

// unzip replaces dest with the contents of the zip at src.
func unzip(src, dest string) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", src, err)
	}
	defer zr.Close()

	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("clear %s: %w", dest, err)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	root := filepath.Clean(dest) + string(os.PathSeparator)
	for _, zf := range zr.File {
		target := filepath.Join(dest, zf.Name)
		if !strings.HasPrefix(target, root) {
			return fmt.Errorf("archive entry %q escapes extraction dir", zf.Name)
		}
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := extractFile(zf, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(zf *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := zf.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", zf.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extract %s: %w", zf.Name, err)
	}
	return out.Close()
}
