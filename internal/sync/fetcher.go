package sync

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Linuxfabrik/github-project-createrepo/internal/github"
)

// Downloader streams release asset bodies.
type Downloader interface {
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Fetcher stores release assets on disk.
type Fetcher struct {
	Downloader Downloader
}

// Fetch downloads asset into dir unless dir/assetName already exists; an
// existing file is trusted as-is, so re-runs never download twice. The body
// goes to a temporary file first and is renamed into place, so a crash
// mid-download cannot leave partial content under the final name.
func (f Fetcher) Fetch(ctx context.Context, asset github.ReleaseAsset, dir string) (bool, error) {
	dest := filepath.Join(dir, asset.Name)
	if _, err := os.Stat(dest); err == nil {
		return false, nil
	}

	body, err := f.Downloader.Download(ctx, asset.BrowserDownloadURL)
	if err != nil {
		return false, &DownloadError{URL: asset.BrowserDownloadURL, Err: err}
	}
	defer body.Close()

	tmp, err := os.CreateTemp(dir, asset.Name+".partial-*")
	if err != nil {
		return false, &WriteError{Path: dest, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err = io.Copy(tmp, body); err != nil {
		tmp.Close()
		// a failed write surfaces as a PathError, a broken transfer does not
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return false, &WriteError{Path: dest, Err: err}
		}
		return false, &DownloadError{URL: asset.BrowserDownloadURL, Err: err}
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return false, &WriteError{Path: dest, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return false, &WriteError{Path: dest, Err: err}
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return false, &WriteError{Path: dest, Err: err}
	}
	return true, nil
}
