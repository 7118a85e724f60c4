// Package storage keeps uploaded files in a gocloud.dev blob bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"strings"
	"time"

	"catalog/config"
	deliverycontext "catalog/internal/delivery/context"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/service"
	"catalog/internal/errors"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Bucket URL schemes accepted in storage.bucketURL
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// blobPictureStore implements service.PictureStore on top of a blob bucket.
type blobPictureStore struct {
	bucket *blob.Bucket
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// New opens the configured bucket and closes it when the application stops.
func New(params Params) (service.PictureStore, error) {
	bucket, err := blob.OpenBucket(context.Background(), params.Config.Storage.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %q", params.Config.Storage.BucketURL)
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return NewBlobPictureStore(bucket, params.Config.Storage.Prefix, params.Logger), nil
}

// NewBlobPictureStore wraps an already opened bucket. Keys are written under prefix.
func NewBlobPictureStore(bucket *blob.Bucket, prefix string, logger *slog.Logger) service.PictureStore {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &blobPictureStore{
		bucket: bucket,
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}
}

func (s *blobPictureStore) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// Save streams r into a new object named "<unix>-<uuid>.<ext>".
func (s *blobPictureStore) Save(ctx context.Context, r io.Reader, ext string) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	key := fmt.Sprintf("%s%d-%s.%s", s.prefix, s.now().Unix(), uuid.NewString(), ext)

	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: mime.TypeByExtension("." + ext),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to open picture writer")
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()

		return "", errors.Wrap(err, "failed to write picture")
	}
	// Close commits the object; a failed Close means nothing was stored.
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "failed to store picture")
	}

	s.log(ctx).Debug("Picture stored", slog.String("key", key))

	return key, nil
}

// Open returns the stored object. Paths outside the picture namespace are reported as not found.
func (s *blobPictureStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if !s.owns(key) {
		return nil, "", domainerrors.ErrPictureNotFound
	}

	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, "", domainerrors.ErrPictureNotFound
		}

		return nil, "", errors.Wrap(err, "failed to open picture")
	}

	contentType := r.ContentType()
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(key))
	}

	return r, contentType, nil
}

// Delete removes the object; a missing object is ignored.
func (s *blobPictureStore) Delete(ctx context.Context, key string) error {
	if !s.owns(key) {
		return nil
	}

	if err := s.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.Wrap(err, "failed to delete picture")
	}

	return nil
}

func (s *blobPictureStore) owns(key string) bool {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return false
	}

	return strings.HasPrefix(key, s.prefix) && len(key) > len(s.prefix)
}
