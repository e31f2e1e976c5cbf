// Package response builds the uniform JSON envelope every endpoint returns.
// success=true never carries errors, success=false never carries data, and the
// timestamp is taken at construction time.
package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

type Envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Errors    []string    `json:"errors,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// OK writes a success envelope. The HTTP status is the caller's choice and is
// not encoded in the envelope.
func OK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Fail writes a failure envelope.
func Fail(c *gin.Context, status int, message string, errs []string) {
	c.JSON(status, Envelope{
		Success:   false,
		Message:   message,
		Errors:    errs,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
