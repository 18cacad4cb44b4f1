package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invokeGuard(t *testing.T, guard echo.MiddlewareFunc, userType string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userType != "" {
		c.Set("userType", userType)
	}

	handler := guard(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec
}

func TestRequireUserType(t *testing.T) {
	tests := []struct {
		name     string
		allowed  []string
		userType string
		wantCode int
	}{
		{
			name:     "matching type passes",
			allowed:  []string{"admin"},
			userType: "admin",
			wantCode: http.StatusOK,
		},
		{
			name:     "second allowed type passes",
			allowed:  []string{"partner", "admin"},
			userType: "admin",
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong type is forbidden",
			allowed:  []string{"admin"},
			userType: "buyer",
			wantCode: http.StatusForbidden,
		},
		{
			name:     "missing type is unauthorized",
			allowed:  []string{"admin"},
			userType: "",
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := invokeGuard(t, RequireUserType(tt.allowed...), tt.userType)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRequirePartnerOrAdmin(t *testing.T) {
	assert.Equal(t, http.StatusOK, invokeGuard(t, RequirePartnerOrAdmin(), "partner").Code)
	assert.Equal(t, http.StatusOK, invokeGuard(t, RequirePartnerOrAdmin(), "admin").Code)
	assert.Equal(t, http.StatusForbidden, invokeGuard(t, RequirePartnerOrAdmin(), "buyer").Code)
}
