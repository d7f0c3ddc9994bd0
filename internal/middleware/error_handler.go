package middleware

import (
	"github.com/gin-gonic/gin"

	"batepapo/pkg/errors"
)

// ErrorHandler renders the last error attached to the context as a JSON body
// with the status code from the error taxonomy.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		c.JSON(errors.HTTPStatusFromError(err), gin.H{
			"error": err.Error(),
		})
	}
}
