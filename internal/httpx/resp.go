package httpx

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// All lifecycle API responses share one envelope: an "error" key that is
// null on success, plus operation-specific fields merged at the top level.
// The dashboard renders the error string directly.

// OK sends a success response. extra fields are merged beside "error":null.
func OK(c *gin.Context, extra gin.H) {
	body := gin.H{"error": nil}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail sends an error response with the given HTTP status.
func Fail(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"error": message})
}

// FailErr sends an error response from an AppError. The internal cause, if
// any, is logged but never returned to the client.
func FailErr(c *gin.Context, err *AppError) {
	if err.Err != nil {
		log.Printf("[ERROR] %s (code=%d, internal_err=%v)", err.Message, err.Code, err.Err)
	}
	c.JSON(err.HTTPStatus, gin.H{"error": err.Message})
}
