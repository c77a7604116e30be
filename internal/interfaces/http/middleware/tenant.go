package middleware

import (
	"net/http"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantIDKey holds the resolved tenant as uuid.UUID
const TenantIDKey = "tenant_id"

// ResolveTenant picks the tenant for the request: token claim first, then the
// X-Tenant-ID header, then the default tenant. Must run after JWTAuth.
func ResolveTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := GetJWTTenantID(c)
		if raw == "" {
			raw = c.GetHeader(TenantIDHeader)
		}

		tenantID := shared.DefaultTenantID
		if raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeInvalidInput, "Invalid tenant id", GetRequestID(c)))
				return
			}
			tenantID = parsed
		}

		c.Set(TenantIDKey, tenantID)
		if GetJWTTenantID(c) == "" {
			c.Request = c.Request.WithContext(logger.WithTenantID(c.Request.Context(), tenantID.String()))
		}
		c.Next()
	}
}

// GetTenantID returns the tenant set by ResolveTenant, or the default tenant
func GetTenantID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(TenantIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return shared.DefaultTenantID
}
