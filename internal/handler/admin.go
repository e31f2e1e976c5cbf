package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neuraslide/internal/apperr"
	"neuraslide/internal/response"
	"neuraslide/internal/service"
	"neuraslide/internal/validation"
)

type AdminHandler interface {
	ListUsers(c *gin.Context)
	UpdateUser(c *gin.Context)
	Metrics(c *gin.Context)
	Health(c *gin.Context)
	ListActions(c *gin.Context)
	BulkUserOperation(c *gin.Context)
	ListSettings(c *gin.Context)
	UpdateSetting(c *gin.Context)
}

type adminHandler struct {
	admin  service.AdminService
	logger *zap.Logger
}

func NewAdminHandler(admin service.AdminService, logger *zap.Logger) AdminHandler {
	return &adminHandler{admin: admin, logger: logger}
}

func (h *adminHandler) ListUsers(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	users, total, err := h.admin.ListUsers(currentUserID(c), c.Query("search"), page, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{
		"users":      users,
		"pagination": pagination{Page: page, Limit: limit, Total: total},
	})
}

func (h *adminHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req validation.AdminUserUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateAdminUserUpdate(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	user, err := h.admin.UpdateUser(currentUserID(c), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "User updated", gin.H{"user": user})
}

func (h *adminHandler) Metrics(c *gin.Context) {
	metrics, err := h.admin.Metrics()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", metrics)
}

func (h *adminHandler) Health(c *gin.Context) {
	health := h.admin.Health()
	if health.Status != "ok" {
		response.Fail(c, http.StatusServiceUnavailable, "Service degraded",
			[]string{"database " + health.Database})
		return
	}
	response.OK(c, http.StatusOK, "OK", health)
}

func (h *adminHandler) ListActions(c *gin.Context) {
	actions, err := h.admin.ListActions(queryInt(c, "page", 1), queryInt(c, "limit", 50))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{"actions": actions})
}

func (h *adminHandler) BulkUserOperation(c *gin.Context) {
	var req validation.BulkUserOperationRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateBulkUserOperation(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	outcome, err := h.admin.BulkUserOperation(currentUserID(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Bulk operation applied", outcome)
}

func (h *adminHandler) ListSettings(c *gin.Context) {
	settings, err := h.admin.ListSettings()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{"settings": settings})
}

func (h *adminHandler) UpdateSetting(c *gin.Context) {
	var req validation.PlatformSettingRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidatePlatformSetting(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	setting, err := h.admin.UpdateSetting(currentUserID(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Setting updated", gin.H{"setting": setting})
}
