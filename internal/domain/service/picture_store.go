package service

import (
	"context"
	"io"
)

// PictureStore keeps uploaded product pictures.
type PictureStore interface {
	// Save writes the picture and returns its storage path, e.g. "picture/1700000000-<uuid>.png".
	// ext is the lowercase file extension without the dot.
	Save(ctx context.Context, r io.Reader, ext string) (string, error)

	// Open returns a reader for a stored picture and its content type.
	Open(ctx context.Context, path string) (io.ReadCloser, string, error)

	// Delete removes a stored picture. Removing a missing picture is not an error.
	Delete(ctx context.Context, path string) error
}
