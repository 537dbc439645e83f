package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/sirupsen/logrus"
)

// RespondError writes err with its HTTP status and records it on c for
// ErrorLogger. Internal details never reach the caller.
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var validationErr *utils.ValidationError
	switch {
	case errors.As(err, &validationErr):
		body := gin.H{"error": validationErr.Message}
		if len(validationErr.Fields) > 0 {
			body["fields"] = validationErr.Fields
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, body)
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": utils.ErrorRecordNotFound.Error()})
	case errors.Is(err, utils.ErrLockNotObtained):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": utils.ErrLockNotObtained.Error()})
	case errors.Is(err, utils.ErrOperationFailed):
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": utils.ErrOperationFailed.Error()})
	}
}

// ErrorLogger logs only requests that recorded errors.
func ErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			fields := logrus.Fields{
				"field":  "http",
				"method": c.Request.Method,
				"path":   c.FullPath(),
				"status": c.Writer.Status(),
			}
			ctx := c.Request.Context()
			if businessId, ok := utils.GetBusinessIdFromContext(ctx); ok {
				fields["business_id"] = businessId
			}
			if userId, ok := utils.GetUserIdFromContext(ctx); ok {
				fields["user_id"] = userId
			}
			logger.WithFields(fields).Error(c.Errors.String())
		}
	}
}
