package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/outvoice/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects bodies larger than maxBytes. Bodies without a declared
// length are cut off by a MaxBytesReader.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeTooLarge, "Request body exceeds maximum allowed size", GetRequestID(c)))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// UploadAwareBodyLimit applies uploadMax to multipart requests and bodyMax to
// everything else.
func UploadAwareBodyLimit(bodyMax, uploadMax int64) gin.HandlerFunc {
	body := BodyLimit(bodyMax)
	upload := BodyLimit(uploadMax)
	return func(c *gin.Context) {
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			upload(c)
			return
		}
		body(c)
	}
}
