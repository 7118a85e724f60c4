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

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUC usecase.UserUsecase
	Logger *slog.Logger
}

// UserHandler holds dependencies for user resource handlers
type UserHandler struct {
	userUC usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		userUC: params.UserUC,
		logger: params.Logger,
	}
}

// UserRequest represents the request body for user create and update
type UserRequest struct {
	Name     string `json:"name" form:"name" validate:"required,max=255"`
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (r *UserRequest) toInput() *usecase.UserInput {
	return &usecase.UserInput{Name: r.Name, Email: r.Email, Password: r.Password}
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	users, err := h.userUC.ListUsers(c.Request().Context(), principal.User)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, toUserResponses(users))
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	var req UserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return renderBindError(c, err)
	}

	user, err := h.userUC.CreateUser(c.Request().Context(), principal.User, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, toUserResponse(user))
}

func (h *UserHandler) GetUser(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, domainerrors.ErrUserNotFound)
	if err != nil {
		return err
	}

	user, err := h.userUC.GetUser(c.Request().Context(), principal.User, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, toUserResponse(user))
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, domainerrors.ErrUserNotFound)
	if err != nil {
		return err
	}

	var req UserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return renderBindError(c, err)
	}

	user, err := h.userUC.UpdateUser(c.Request().Context(), principal.User, id, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, toUserResponse(user))
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, domainerrors.ErrUserNotFound)
	if err != nil {
		return err
	}

	if err := h.userUC.DeleteUser(c.Request().Context(), principal.User, id); err != nil {
		return errors.WithStack(err)
	}

	return response.NoContent(c)
}
