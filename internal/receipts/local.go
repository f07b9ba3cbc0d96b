package receipts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// LocalPrefix is the URL path local receipts are served under.
const LocalPrefix = "/receipts/"

// Local stores receipts in a directory on disk.
type Local struct {
	dir     string
	baseURL string
}

var _ Storage = (*Local)(nil)

// NewLocal creates the directory if needed. baseURL is prepended to
// LocalPrefix when building receipt URLs; it may be empty for same-origin
// links.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create receipts directory: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Put writes the receipt below the storage directory.
func (l *Local) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("failed to create receipt directory: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("failed to create receipt file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	return f.Close()
}

// Delete removes the receipt file.
func (l *Local) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	return nil
}

// URL returns the same-origin path the receipt is served from.
func (l *Local) URL(_ context.Context, key string) (string, error) {
	if _, err := l.path(key); err != nil {
		return "", err
	}
	return l.baseURL + LocalPrefix + strings.TrimPrefix(key, "receipts/"), nil
}

// Handler serves stored receipts. Mount it at LocalPrefix.
func (l *Local) Handler() http.Handler {
	return http.StripPrefix(LocalPrefix, http.FileServer(http.Dir(filepath.Join(l.dir, "receipts"))))
}

func (l *Local) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if !strings.HasPrefix(clean, "/receipts/") {
		return "", fmt.Errorf("invalid receipt key %q", key)
	}
	return filepath.Join(l.dir, clean), nil
}
