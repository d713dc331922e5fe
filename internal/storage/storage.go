// Package storage persists uploaded product images.
package storage

import (
	"context"
	"io"
)

// ImageStore saves an image under name and returns the URL it is served at.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}
