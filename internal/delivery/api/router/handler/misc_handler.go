package handler

import (
	"net/http"

	"catalog/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
)

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.OK(c, map[string]string{"status": "ok"})
}

// Hello answers with a plain text greeting.
func Hello(c echo.Context) error {
	return c.String(http.StatusOK, "Hello World!")
}
