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

type AutomationHandler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Toggle(c *gin.Context)
	Test(c *gin.Context)
}

type automationHandler struct {
	automations service.AutomationService
	logger      *zap.Logger
}

func NewAutomationHandler(automations service.AutomationService, logger *zap.Logger) AutomationHandler {
	return &automationHandler{automations: automations, logger: logger}
}

func (h *automationHandler) Create(c *gin.Context) {
	var req validation.AutomationRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateAutomation(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	a, err := h.automations.Create(currentUserID(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusCreated, "Automation created", gin.H{"automation": a})
}

// List handles GET /crystal/automations?page&limit&search
func (h *automationHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	search := c.Query("search")

	automations, total, err := h.automations.List(currentUserID(c), search, page, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{
		"automations": automations,
		"pagination":  pagination{Page: page, Limit: limit, Total: total},
	})
}

func (h *automationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	a, err := h.automations.Get(id, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{"automation": a})
}

func (h *automationHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req validation.AutomationRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateAutomation(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	a, err := h.automations.Update(id, currentUserID(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Automation updated", gin.H{"automation": a})
}

func (h *automationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.automations.Delete(id, currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Automation deleted", nil)
}

func (h *automationHandler) Toggle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	a, err := h.automations.Toggle(id, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Automation toggled", gin.H{"automation": a})
}

// Test handles POST /crystal/automations/:id/test — a dry run that never
// sends anything.
func (h *automationHandler) Test(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req validation.AutomationTestRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateAutomationTest(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	outcome, err := h.automations.Test(id, currentUserID(c), req.Message)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", outcome)
}
