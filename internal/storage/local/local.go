// Package local stores uploads on the server's disk.
package local

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aaravmahajanofficial/plant-storefront/internal/config"
)

type Store struct {
	dir        string
	publicPath string
}

// New creates the upload directory if needed.
func New(cfg *config.Upload) (*Store, error) {

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir %s: %w", cfg.Dir, err)
	}

	publicPath := cfg.PublicPath
	if !strings.HasSuffix(publicPath, "/") {
		publicPath += "/"
	}

	return &Store{dir: cfg.Dir, publicPath: publicPath}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Save(ctx context.Context, name string, r io.Reader) (string, error) {

	if name != filepath.Base(name) || name == "." || name == "" {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing %s: %w", path, err)
	}

	return s.publicPath + url.PathEscape(name), nil
}
