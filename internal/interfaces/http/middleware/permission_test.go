package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequirePermission(t *testing.T) {
	svc := newTestJWTService()
	router := gin.New()
	router.Use(JWTAuth(JWTMiddlewareConfig{JWTService: svc}))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.GET("/workflows", RequirePermission("workflow:manage"), ok)
	router.GET("/deals", RequireAnyPermission("deal:read", "deal:write"), ok)
	router.GET("/admin", RequireRole("ROLE_ADMIN"), ok)

	call := func(path, token string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	sales, _ := newTestTokenPair(t, svc, "deal:read")
	admin, _ := newTestTokenPair(t, svc, "workflow:manage", "deal:read")

	t.Run("missing permission is forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, call("/workflows", sales.AccessToken))
	})
	t.Run("granted permission passes", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, call("/workflows", admin.AccessToken))
		assert.Equal(t, http.StatusOK, call("/deals", sales.AccessToken))
	})
	t.Run("role guard", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, call("/admin", sales.AccessToken))
	})
}

func TestRequirePermission_NoClaims(t *testing.T) {
	router := gin.New()
	router.GET("/x", RequirePermission("customer:read"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, decodeError(t, w).Code)
}

func TestHasPermission(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, HasPermission(c, "lead:read"))
}
