package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolveTenant(t *testing.T) {
	svc := newTestJWTService()
	router := gin.New()
	router.Use(JWTAuth(JWTMiddlewareConfig{JWTService: svc, SkipPaths: []string{"/public"}}), ResolveTenant())
	echo := func(c *gin.Context) { c.String(http.StatusOK, GetTenantID(c).String()) }
	router.GET("/public", echo)
	router.GET("/private", echo)

	t.Run("token tenant wins over header", func(t *testing.T) {
		pair, input := newTestTokenPair(t, svc)
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
		req.Header.Set(TenantIDHeader, uuid.NewString())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, input.TenantID.String(), w.Body.String())
	})

	t.Run("header used without token", func(t *testing.T) {
		tenant := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/public", nil)
		req.Header.Set(TenantIDHeader, tenant.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, tenant.String(), w.Body.String())
	})

	t.Run("default tenant", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
		assert.Equal(t, shared.DefaultTenantID.String(), w.Body.String())
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/public", nil)
		req.Header.Set(TenantIDHeader, "not-a-uuid")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
