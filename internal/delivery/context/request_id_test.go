package context

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog/internal/domain/entity"
	"catalog/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newEchoContext() echo.Context {
	return echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
}

func TestGetRequestID(t *testing.T) {
	c := newEchoContext()
	assert.NotEmpty(t, GetRequestID(c))

	SetRequestID(c, "req-1")
	assert.Equal(t, "req-1", GetRequestID(c))
}

func TestValidRequestID(t *testing.T) {
	assert.True(t, ValidRequestID("3f1c-abc_DEF.42"))
	assert.False(t, ValidRequestID(""))
	assert.False(t, ValidRequestID("has space"))
	assert.False(t, ValidRequestID("line\nbreak"))
	assert.False(t, ValidRequestID(strings.Repeat("a", maxRequestIDLength+1)))
}

func TestLoggerOrDefault(t *testing.T) {
	fallback := slog.Default()
	scoped := slog.New(slog.DiscardHandler)

	assert.Same(t, fallback, GetLoggerOrDefault(context.Background(), fallback))
	assert.Same(t, scoped, GetLoggerOrDefault(WithLogger(context.Background(), scoped), fallback))
}

func TestPrincipal(t *testing.T) {
	c := newEchoContext()

	_, ok := GetPrincipal(c)
	assert.False(t, ok)

	SetPrincipal(c, &usecase.Principal{})
	_, ok = GetPrincipal(c)
	assert.False(t, ok)

	principal := &usecase.Principal{User: &entity.User{ID: 1}}
	SetPrincipal(c, principal)
	got, ok := GetPrincipal(c)
	assert.True(t, ok)
	assert.Same(t, principal, got)
}
