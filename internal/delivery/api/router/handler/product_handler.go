package handler

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"catalog/internal/delivery/api/middleware"
	"catalog/internal/delivery/api/response"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	pictureField    = "picture"
	categoriesField = "categories"
)

// ProductHandlerParams holds dependencies for ProductHandler, injected by Fx.
type ProductHandlerParams struct {
	fx.In

	ProductUC usecase.ProductUsecase
	Logger    *slog.Logger
}

// ProductHandler holds dependencies for product resource handlers
type ProductHandler struct {
	productUC usecase.ProductUsecase
	logger    *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler
func NewProductHandler(params ProductHandlerParams) *ProductHandler {
	return &ProductHandler{
		productUC: params.ProductUC,
		logger:    params.Logger,
	}
}

// ProductRequest represents the product fields accepted by create and update.
// Categories is nil when the client did not send the field.
type ProductRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0,lte=99999999.99"`
	Stock       *int     `json:"stock" validate:"required,gte=0,lte=2147483647"`
	Categories  *[]uint  `json:"categories" validate:"omitempty,dive,gt=0"`
}

// ListProducts returns every product with its category titles, plus all category titles.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	output, err := h.productUC.ListProducts(c.Request().Context(), principal.User)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, toProductListResponse(output))
}

// CreateProduct accepts JSON, or a multipart form when a picture is uploaded.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	input, closeFn, err := h.bindProduct(c)
	if err != nil {
		return renderBindError(c, err)
	}
	defer closeFn()

	product, err := h.productUC.CreateProduct(c.Request().Context(), principal.User, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, toProductResponse(product))
}

// GetProduct returns a single product by id.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, domainerrors.ErrProductNotFound)
	if err != nil {
		return err
	}

	product, err := h.productUC.GetProduct(c.Request().Context(), principal.User, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, toProductResponse(product))
}

// UpdateProduct replaces the product fields. A categories field replaces the whole association set.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, domainerrors.ErrProductNotFound)
	if err != nil {
		return err
	}

	input, closeFn, err := h.bindProduct(c)
	if err != nil {
		return renderBindError(c, err)
	}
	defer closeFn()

	product, err := h.productUC.UpdateProduct(c.Request().Context(), principal.User, id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, toProductResponse(product))
}

// DeleteProduct removes the product and its stored picture.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, domainerrors.ErrProductNotFound)
	if err != nil {
		return err
	}

	if err := h.productUC.DeleteProduct(c.Request().Context(), principal.User, id); err != nil {
		return errors.WithStack(err)
	}

	return response.NoContent(c)
}

// bindProduct builds the usecase input. The returned close func releases an uploaded picture.
func (h *ProductHandler) bindProduct(c echo.Context) (*usecase.ProductInput, func(), error) {
	noop := func() {}

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, echo.MIMEMultipartForm) && !strings.HasPrefix(contentType, echo.MIMEApplicationForm) {
		var req ProductRequest
		if err := bindAndValidate(c, &req); err != nil {
			return nil, noop, err
		}

		return req.toInput(), noop, nil
	}

	req, err := bindProductForm(c)
	if err != nil {
		return nil, noop, err
	}

	input := req.toInput()

	fileHeader, err := c.FormFile(pictureField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return input, noop, nil
	}
	if err != nil {
		return nil, noop, errors.Wrap(errBindingFailed, err.Error())
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, noop, errors.Wrap(errBindingFailed, err.Error())
	}

	input.Picture = &usecase.PictureUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  file,
	}

	return input, func() { closeUpload(h.logger, file) }, nil
}

// bindProductForm reads the product fields from a form body. Numbers that do not parse are
// reported as field errors next to the rule violations.
func bindProductForm(c echo.Context) (*ProductRequest, error) {
	var (
		req    ProductRequest
		fields []domainerrors.FieldError
	)

	req.Name = c.FormValue("name")
	req.Description = c.FormValue("description")

	if raw := strings.TrimSpace(c.FormValue("price")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fields = append(fields, domainerrors.FieldError{Field: "price", Message: "The price field must be a number."})
		} else {
			req.Price = &price
		}
	}

	if raw := strings.TrimSpace(c.FormValue("stock")); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			fields = append(fields, domainerrors.FieldError{Field: "stock", Message: "The stock field must be an integer."})
		} else {
			req.Stock = &stock
		}
	}

	params, err := c.FormParams()
	if err != nil {
		return nil, errors.Wrap(errBindingFailed, err.Error())
	}
	if raw, ok := formList(params, categoriesField); ok {
		ids := make([]uint, 0, len(raw))
		for _, value := range raw {
			id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 0)
			if err != nil {
				fields = append(fields, domainerrors.FieldError{Field: categoriesField, Message: "The categories field must contain category ids."})

				break
			}
			ids = append(ids, uint(id))
		}
		req.Categories = &ids
	}

	if err := c.Validate(&req); err != nil {
		var validationErr *domainerrors.ValidationError
		if !errors.As(err, &validationErr) {
			return nil, err
		}
		fields = mergeFieldErrors(fields, validationErr.Fields)
	}

	if len(fields) > 0 {
		return nil, domainerrors.NewValidationError(fields...)
	}

	return &req, nil
}

// formList collects a list field sent as name, name[] or name[i]. An empty single value means an empty list.
func formList(params map[string][]string, name string) ([]string, bool) {
	var (
		values []string
		found  bool
	)
	for key, vals := range params {
		if key != name && key != name+"[]" && !(strings.HasPrefix(key, name+"[") && strings.HasSuffix(key, "]")) {
			continue
		}
		found = true
		for _, v := range vals {
			if strings.TrimSpace(v) != "" {
				values = append(values, v)
			}
		}
	}

	return values, found
}

// mergeFieldErrors appends rule errors for fields that have no parse error yet.
func mergeFieldErrors(parsed, rules []domainerrors.FieldError) []domainerrors.FieldError {
	seen := make(map[string]struct{}, len(parsed))
	for _, f := range parsed {
		seen[f.Field] = struct{}{}
	}

	for _, f := range rules {
		if _, ok := seen[f.Field]; ok {
			continue
		}
		parsed = append(parsed, f)
	}

	return parsed
}

func (r *ProductRequest) toInput() *usecase.ProductInput {
	input := &usecase.ProductInput{
		Name:        r.Name,
		Description: r.Description,
	}
	if r.Price != nil {
		input.Price = *r.Price
	}
	if r.Stock != nil {
		input.Stock = *r.Stock
	}
	if r.Categories != nil {
		input.HasCategories = true
		input.CategoryIDs = *r.Categories
	}

	return input
}

func closeUpload(logger *slog.Logger, file multipart.File) {
	if err := file.Close(); err != nil {
		logger.Warn("Failed to close uploaded picture", slog.Any("error", err))
	}
}
