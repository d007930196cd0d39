package fetch

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Downloader fetches the EIA bulk archive and extracts it into a local
// directory for the loader to consume. The rest of the system depends
// only on the extracted directory, never on how it got there.
type Downloader struct {
	client *http.Client
	logger *slog.Logger
}

// NewDownloader creates a downloader with the given HTTP timeout.
func NewDownloader(timeout time.Duration, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		client: &http.Client{Timeout: timeout},
		logger: logger.With(slog.String("component", "downloader")),
	}
}

// Fetch downloads the archive at url and extracts it into destDir.
// If destDir already exists the fetch is skipped entirely unless force
// is set; a populated directory means the data was already downloaded.
func (d *Downloader) Fetch(ctx context.Context, url, destDir string, force bool) error {
	if _, err := os.Stat(destDir); err == nil {
		if !force {
			d.logger.InfoContext(ctx, "destination already exists, skipping fetch",
				slog.String("dest", destDir))
			return nil
		}
		d.logger.InfoContext(ctx, "destination exists, refetching",
			slog.String("dest", destDir))
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat destination %s: %w", destDir, err)
	}

	archive, err := d.download(ctx, url)
	if err != nil {
		return err
	}
	defer os.Remove(archive)

	if err := extractZip(archive, destDir); err != nil {
		return fmt.Errorf("extract %s: %w", archive, err)
	}

	d.logger.InfoContext(ctx, "archive extracted",
		slog.String("url", url),
		slog.String("dest", destDir))
	return nil
}

// download streams the archive to a temp file and returns its path.
func (d *Downloader) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}

	d.logger.InfoContext(ctx, "downloading archive", slog.String("url", url))
	start := time.Now()

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp("", "eba-*.zip")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	written, err := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write archive: %w", err)
	}
	if closeErr != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close archive: %w", closeErr)
	}

	d.logger.InfoContext(ctx, "download complete",
		slog.Int64("bytes", written),
		slog.String("duration", time.Since(start).String()))
	return tmp.Name(), nil
}

// extractZip unpacks the archive into destDir, refusing entries that
// would escape it.
func extractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	for _, f := range r.File {
		target := filepath.Join(destDir, f.Name)
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes destination", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("create parent of %s: %w", target, err)
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %s: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode())
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return nil
}
