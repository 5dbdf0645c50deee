package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/valuepulse/internal/domain/dto"
	"github.com/guttosm/valuepulse/internal/logger"
)

// ErrorHandler converts errors attached with c.Error into a JSON 500 when the
// handler has not written a response itself.
//
// Usage:
//
//	router.Use(middleware.ErrorHandler)
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	err := c.Errors.Last().Err
	rid, _ := c.Get(RequestIDKey)
	log := logger.Component("http")
	log.Error().
		Err(err).
		Str("request_id", toString(rid)).
		Str("path", c.Request.URL.Path).
		Msg("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", err))
}

// AbortWithError stops the chain and writes a standardized error body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
