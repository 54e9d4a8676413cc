package middleware

import (
	"net/http"

	"github.com/cortecaja/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const tooLargeMessage = "Request body exceeds maximum allowed size"

// BodyLimit caps request bodies at maxBytes; zero or less disables the cap.
// A declared Content-Length over the cap is refused before the handler runs.
// Chunked bodies are cut off while streaming, and the handler's bind error
// then turns into the same 413 through HandleValidationError.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			abortTooLarge(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func abortTooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeRequestTooLarge, tooLargeMessage, c.GetString(requestIDKey),
	))
}
