package impl

import (
	"io"
	"log/slog"

	"catalog/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(maxPictureSize int64) *config.Config {
	return &config.Config{
		Storage: &config.StorageConfig{
			BucketURL:      "mem://",
			Prefix:         "picture/",
			MaxPictureSize: maxPictureSize,
		},
	}
}
