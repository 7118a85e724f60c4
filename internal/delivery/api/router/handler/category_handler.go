package handler

import (
	"log/slog"

	"catalog/internal/delivery/api/middleware"
	"catalog/internal/delivery/api/response"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// CategoryHandlerParams holds dependencies for CategoryHandler, injected by Fx.
type CategoryHandlerParams struct {
	fx.In

	CategoryUC usecase.CategoryUsecase
	Logger     *slog.Logger
}

// CategoryHandler holds dependencies for category resource handlers
type CategoryHandler struct {
	categoryUC usecase.CategoryUsecase
	logger     *slog.Logger
}

// NewCategoryHandler is the constructor for CategoryHandler
func NewCategoryHandler(params CategoryHandlerParams) *CategoryHandler {
	return &CategoryHandler{
		categoryUC: params.CategoryUC,
		logger:     params.Logger,
	}
}

// CategoryRequest represents the request body for category create and update
type CategoryRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=255"`
	Description string `json:"description" form:"description" validate:"required"`
}

func (r *CategoryRequest) toInput() *usecase.CategoryInput {
	return &usecase.CategoryInput{Title: r.Title, Description: r.Description}
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	categories, err := h.categoryUC.ListCategories(c.Request().Context(), principal.User)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, toCategoryResponses(categories))
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return renderBindError(c, err)
	}

	category, err := h.categoryUC.CreateCategory(c.Request().Context(), principal.User, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, toCategoryResponse(category))
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, domainerrors.ErrCategoryNotFound)
	if err != nil {
		return err
	}

	category, err := h.categoryUC.GetCategory(c.Request().Context(), principal.User, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, toCategoryResponse(category))
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, domainerrors.ErrCategoryNotFound)
	if err != nil {
		return err
	}

	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return renderBindError(c, err)
	}

	category, err := h.categoryUC.UpdateCategory(c.Request().Context(), principal.User, id, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, toCategoryResponse(category))
}

// DeleteCategory detaches the category from its products and removes it.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, domainerrors.ErrCategoryNotFound)
	if err != nil {
		return err
	}

	if err := h.categoryUC.DeleteCategory(c.Request().Context(), principal.User, id); err != nil {
		return errors.WithStack(err)
	}

	return response.NoContent(c)
}
