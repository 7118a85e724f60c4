package handler

import (
	"strconv"

	"catalog/internal/delivery/api/response"
	domainerrors "catalog/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// errBindingFailed marks a body that could not be decoded.
var errBindingFailed = errors.New("request body could not be decoded")

// bindAndValidate decodes the body into req and applies its validate tags.
// Only the fields declared on req are ever read from the request.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errors.Wrap(errBindingFailed, err.Error())
	}

	return c.Validate(req)
}

// renderBindError writes the binding error response, or returns err for the error handler.
func renderBindError(c echo.Context, err error) error {
	if errors.Is(err, errBindingFailed) {
		return response.BindingError(c, "INVALID_INPUT", "Request body could not be decoded")
	}

	return err
}

// parseID reads the :id path parameter. Ids that cannot name a row yield notFound.
func parseID(c echo.Context, notFound *domainerrors.BaseError) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, errors.Wrapf(notFound, "invalid id %q", c.Param("id"))
	}

	return uint(id), nil
}
