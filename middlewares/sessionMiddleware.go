package middlewares

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mmdatafocus/erp_backend/utils"
)

const (
	HeaderBusinessId    = "X-Business-Id"
	HeaderUserId        = "X-User-Id"
	HeaderUserName      = "X-User-Name"
	HeaderCorrelationId = "X-Correlation-Id"
)

// CorrelationMiddleware attaches the caller's correlation id, or a new
// one, to the request context and echoes it back.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := strings.TrimSpace(c.GetHeader(HeaderCorrelationId))
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Header(HeaderCorrelationId, cid)
		c.Next()
	}
}

// SessionMiddleware binds the tenant and acting user from request headers.
// Requests without a business id are rejected.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		businessId := strings.TrimSpace(c.GetHeader(HeaderBusinessId))
		if businessId == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + HeaderBusinessId})
			return
		}
		ctx := utils.SetBusinessIdInContext(c.Request.Context(), businessId)
		if v := strings.TrimSpace(c.GetHeader(HeaderUserId)); v != "" {
			userId, err := strconv.Atoi(v)
			if err != nil || userId <= 0 {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + HeaderUserId})
				return
			}
			ctx = utils.SetUserIdInContext(ctx, userId)
		}
		if v := strings.TrimSpace(c.GetHeader(HeaderUserName)); v != "" {
			ctx = utils.SetUserNameInContext(ctx, v)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
