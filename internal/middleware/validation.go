package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bazaar/internal/app/models/dto"
)

// RespondBindingError writes a 400 for a failed ShouldBind call
func RespondBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}

// MaxBodySize caps the request body at maxMB megabytes. Zero disables the cap.
func MaxBodySize(maxMB int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxMB > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(maxMB)<<20)
		}
		c.Next()
	}
}
