// Package handler holds the HTTP controllers. Every controller follows the
// same discipline: bind, validate, call the service, wrap the outcome in the
// response envelope. Classified errors keep their status; anything else is
// logged in full and surfaced as a generic 500.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neuraslide/internal/apperr"
	"neuraslide/internal/response"
)

// Context keys set by the auth middleware.
const (
	CtxUserID = "userID"
	CtxEmail  = "email"
	CtxRole   = "role"
	CtxTeamID = "teamID"
)

func currentUserID(c *gin.Context) int64 {
	return c.MustGet(CtxUserID).(int64)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, "Invalid "+name, nil)
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// respondError maps a service failure to the envelope. The wrapped cause of a
// 500 stays in the server log only.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	ae := apperr.From(err)
	if ae.Status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	response.Fail(c, ae.Status, ae.Message, ae.Errors)
}

// bindJSON decodes the body; a malformed payload is a 400 in envelope shape.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	return true
}

// pagination is the shared list metadata block.
type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}
