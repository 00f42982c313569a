package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
)

// ErrorBody is the error contract shared by every endpoint.
type ErrorBody struct {
	Error string `json:"error"`
}

// OKBody acknowledges a write.
type OKBody struct {
	OK bool   `json:"ok"`
	ID *int64 `json:"id,omitempty"`
}

// JSON sends a payload as-is with caching disabled.
func JSON(c *gin.Context, status int, payload interface{}) {
	noStore(c)
	c.JSON(status, payload)
}

// OK responds with {"ok": true}.
func OK(c *gin.Context) {
	JSON(c, http.StatusOK, OKBody{OK: true})
}

// OKWithID responds with {"ok": true, "id": id}.
func OKWithID(c *gin.Context, id int64) {
	JSON(c, http.StatusOK, OKBody{OK: true, ID: &id})
}

// Error converts err to its status and writes {"error": message}. Wrapped causes are never exposed.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	noStore(c)
	c.JSON(appErr.Status, ErrorBody{Error: appErr.Message})
}

// Abort writes the error and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// File streams a generated document as an attachment.
func File(c *gin.Context, filename, contentType string, data []byte) {
	noStore(c)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
