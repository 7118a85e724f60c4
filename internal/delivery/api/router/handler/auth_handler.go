// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"

	"catalog/internal/delivery/api/middleware"
	"catalog/internal/delivery/api/response"
	"catalog/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Name     string `json:"name" form:"name" validate:"required,max=255"`
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Register creates the user and answers with its first token.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return renderBindError(c, err)
	}

	output, err := h.authUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, TokenResponse{Token: output.Token})
}

// Login revokes the caller's previous tokens and answers with a new one.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return renderBindError(c, err)
	}

	output, err := h.authUC.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, TokenResponse{Token: output.Token})
}

// Logout revokes the token the request was authenticated with.
func (h *AuthHandler) Logout(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.authUC.Logout(c.Request().Context(), principal); err != nil {
		return errors.WithStack(err)
	}

	return response.NoContent(c)
}

// CurrentUser returns the authenticated user.
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	return response.OK(c, toUserResponse(principal.User))
}
