package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog/internal/delivery/api/response"
	deliverycontext "catalog/internal/delivery/context"
	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	mockUC "catalog/internal/mocks/usecase"
	"catalog/internal/usecase"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()

	var body struct {
		Error struct {
			Code    string          `json:"code"`
			Message string          `json:"message"`
			Details json.RawMessage `json:"details"`
		} `json:"error"`
		Meta response.MetaInfo `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	var details any
	if len(body.Error.Details) > 0 {
		require.NoError(t, json.Unmarshal(body.Error.Details, &details))
	}

	return response.ErrorResponse{
		Error: &response.ErrorInfo{Code: body.Error.Code, Message: body.Error.Message, Details: details},
		Meta:  &body.Meta,
	}
}

func TestHandleHTTPError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
		wantDetails any
	}{
		{
			name: "validation error lists fields",
			err: domainerrors.NewValidationError(
				domainerrors.FieldError{Field: "name", Message: "The name field is required."},
			),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALIDATION_FAILED",
			wantMessage: "The given data was invalid",
			wantDetails: []any{map[string]any{"field": "name", "message": "The name field is required."}},
		},
		{
			name:        "wrapped app error",
			err:         errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch"),
			wantStatus:  http.StatusUnauthorized,
			wantCode:    "INVALID_CREDENTIALS",
			wantMessage: "Invalid credentials",
		},
		{
			name:        "not found",
			err:         errors.Wrap(domainerrors.ErrProductNotFound, "record not found"),
			wantStatus:  http.StatusNotFound,
			wantCode:    "PRODUCT_NOT_FOUND",
			wantMessage: "Product not found",
		},
		{
			name:        "details kept for client errors",
			err:         domainerrors.ErrUnknownCategory.WithDetails("unknown category ids: 9"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "UNKNOWN_CATEGORY",
			wantMessage: "One or more categories do not exist",
			wantDetails: "unknown category ids: 9",
		},
		{
			name:        "details dropped for server errors",
			err:         domainerrors.NewDatabaseExecuteError(errors.New("syntax error"), "INSERT INTO ..."),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "DATABASE_EXECUTE_FAILED",
			wantMessage: "Database operation failed",
		},
		{
			name:        "echo http error",
			err:         echo.ErrMethodNotAllowed,
			wantStatus:  http.StatusMethodNotAllowed,
			wantCode:    "HTTP_ERROR",
			wantMessage: "Method Not Allowed",
		},
		{
			name:        "unknown error",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_ERROR",
			wantMessage: "Internal server error, please try again later",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			deliverycontext.SetRequestID(c, "req-1")

			NewErrorMiddleware(newDiscardLogger()).HandleHTTPError(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantMessage, body.Error.Message)
			assert.Equal(t, tt.wantDetails, body.Error.Details)
			assert.Equal(t, "req-1", body.Meta.RequestID)
		})
	}
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	principal := &usecase.Principal{User: &entity.User{ID: 7}, Session: &entity.Session{UserID: 7}}

	tests := []struct {
		name       string
		header     string
		setup      func(authUC *mockUC.MockAuthUsecase)
		wantCalled bool
		wantErr    error
	}{
		{
			name:   "valid bearer token",
			header: "Bearer good-token",
			setup: func(authUC *mockUC.MockAuthUsecase) {
				authUC.On("Authenticate", mock.Anything, "good-token").Return(principal, nil)
			},
			wantCalled: true,
		},
		{
			name:   "scheme is case insensitive",
			header: "bearer good-token",
			setup: func(authUC *mockUC.MockAuthUsecase) {
				authUC.On("Authenticate", mock.Anything, "good-token").Return(principal, nil)
			},
			wantCalled: true,
		},
		{
			name:    "missing header",
			wantErr: domainerrors.ErrUnauthenticated,
		},
		{
			name:    "basic auth",
			header:  "Basic dXNlcjpwYXNz",
			wantErr: domainerrors.ErrUnauthenticated,
		},
		{
			name:    "empty token",
			header:  "Bearer   ",
			wantErr: domainerrors.ErrUnauthenticated,
		},
		{
			name:   "revoked token",
			header: "Bearer old-token",
			setup: func(authUC *mockUC.MockAuthUsecase) {
				authUC.On("Authenticate", mock.Anything, "old-token").
					Return(nil, errors.Wrap(domainerrors.ErrUnauthenticated, "session revoked"))
			},
			wantErr: domainerrors.ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authUC := mockUC.NewMockAuthUsecase(t)
			if tt.setup != nil {
				tt.setup(authUC)
			}
			m := NewAuthMiddleware(AuthMiddlewareParams{AuthUC: authUC, Logger: newDiscardLogger()})

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			called := false
			err := m.Authenticate(func(c echo.Context) error {
				called = true
				got, err := GetPrincipal(c)
				require.NoError(t, err)
				assert.Same(t, principal, got)

				return nil
			})(c)

			assert.Equal(t, tt.wantCalled, called)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetPrincipal_Missing(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := GetPrincipal(c)

	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

type countingStore struct {
	limit int
	seen  map[string]int
}

func (s *countingStore) Allow(identifier string) (bool, error) {
	s.seen[identifier]++

	return s.seen[identifier] <= s.limit, nil
}

func TestNewRateLimit(t *testing.T) {
	store := &countingStore{limit: 2, seen: map[string]int{}}
	e := echo.New()
	e.HTTPErrorHandler = NewErrorMiddleware(newDiscardLogger()).HandleHTTPError
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewRateLimit(store))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set(echo.HeaderXRealIP, "203.0.113.9")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 3, store.seen["203.0.113.9:/login"])
}

func TestNewRateLimit_NilStore(t *testing.T) {
	var store echomiddleware.RateLimiterStore

	called := false
	err := NewRateLimit(store)(func(echo.Context) error {
		called = true

		return nil
	})(echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder()))

	require.NoError(t, err)
	assert.True(t, called)
}
