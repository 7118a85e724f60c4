package handler

import (
	"log/slog"
	"net/http"

	"catalog/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// StorageHandlerParams holds dependencies for StorageHandler, injected by Fx.
type StorageHandlerParams struct {
	fx.In

	ProductUC usecase.ProductUsecase
	Logger    *slog.Logger
}

// StorageHandler streams stored product pictures.
type StorageHandler struct {
	productUC usecase.ProductUsecase
	logger    *slog.Logger
}

// NewStorageHandler is the constructor for StorageHandler
func NewStorageHandler(params StorageHandlerParams) *StorageHandler {
	return &StorageHandler{
		productUC: params.ProductUC,
		logger:    params.Logger,
	}
}

// GetPicture streams the file whose storage path follows /storage/, e.g. /storage/picture/1700000000-<uuid>.png.
func (h *StorageHandler) GetPicture(c echo.Context) error {
	rc, contentType, err := h.productUC.OpenPicture(c.Request().Context(), c.Param("*"))
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			h.logger.Warn("Failed to close picture reader", slog.Any("error", err))
		}
	}()

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	c.Response().Header().Set("X-Content-Type-Options", "nosniff")
	// Uploaded svg files must not run scripts in the API origin.
	c.Response().Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")

	return c.Stream(http.StatusOK, contentType, rc)
}
