package respond

import (
	"github.com/gin-gonic/gin"

	"pcos-backend/internal/pipeline"
	"pcos-backend/internal/shared/telemetry"
)

// ErrorResponse is the standardized failure body. Every failed route answers
// with at least the error message; the machine-readable code rides along.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Error sends a standardized error response and logs it with request context.
func Error(c *gin.Context, status int, code, message string) {
	telemetry.Error("http.error", map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	})

	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Code: code})
}

// PipelineError translates a pipeline failure into the transport response.
// This is the single place internal error kinds become HTTP statuses.
func PipelineError(c *gin.Context, err error) {
	status := pipeline.StatusCode(err)
	kind := pipeline.KindOf(err)

	message := err.Error()
	if kind == pipeline.KindMalformedResponse {
		// The raw provider payload stays in the logs only.
		message = "AI provider returned an unreadable response"
	}

	telemetry.Error("pipeline.error", map[string]any{
		"status":     status,
		"kind":       string(kind),
		"error":      err.Error(),
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	})

	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Code: string(kind)})
}
