package exception

import (
	"github.com/gin-gonic/gin"
)

// HandlerFunc is a gin handler that reports failure by returning an error
type HandlerFunc func(c *gin.Context) error

// Handle adapts fn to a gin.HandlerFunc. A returned error is recorded with
// c.Error for the Normalizer to pick up.
func Handle(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c); err != nil {
			_ = c.Error(err)
		}
	}
}
