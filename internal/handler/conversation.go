package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neuraslide/internal/apperr"
	"neuraslide/internal/repository"
	"neuraslide/internal/response"
	"neuraslide/internal/service"
	"neuraslide/internal/validation"
)

type ConversationHandler interface {
	List(c *gin.Context)
	Stats(c *gin.Context)
	Get(c *gin.Context)
	Messages(c *gin.Context)
	Send(c *gin.Context)
	Reply(c *gin.Context)
	UpdateStatus(c *gin.Context)
	UpdateTags(c *gin.Context)
}

type conversationHandler struct {
	conversations service.ConversationService
	logger        *zap.Logger
}

func NewConversationHandler(conversations service.ConversationService, logger *zap.Logger) ConversationHandler {
	return &conversationHandler{conversations: conversations, logger: logger}
}

// List handles GET /crystal/conversations?status&automated&search&page&limit
func (h *conversationHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	if page < 1 {
		page = 1
	}

	filter := repository.ConversationFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if v := c.Query("automated"); v != "" {
		automated, err := strconv.ParseBool(v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid automated filter", nil)
			return
		}
		filter.Automated = &automated
	}

	conversations, total, err := h.conversations.List(currentUserID(c), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{
		"conversations": conversations,
		"pagination":    pagination{Page: page, Limit: limit, Total: total},
	})
}

func (h *conversationHandler) Stats(c *gin.Context) {
	stats, err := h.conversations.Stats(currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", stats)
}

func (h *conversationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	conversation, err := h.conversations.Get(id, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{"conversation": conversation})
}

func (h *conversationHandler) Messages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 50)

	messages, err := h.conversations.Messages(id, currentUserID(c), page, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{"messages": messages})
}

func (h *conversationHandler) Send(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req validation.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateSendMessage(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	msg, err := h.conversations.Send(c.Request.Context(), id, currentUserID(c), req.Text)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Message sent", gin.H{"message": msg})
}

func (h *conversationHandler) Reply(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	msg, err := h.conversations.Reply(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Reply sent", gin.H{"message": msg})
}

func (h *conversationHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req validation.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateUpdateStatus(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	if err := h.conversations.UpdateStatus(id, currentUserID(c), req.Status); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Status updated", nil)
}

func (h *conversationHandler) UpdateTags(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req validation.UpdateTagsRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateUpdateTags(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	if err := h.conversations.UpdateTags(id, currentUserID(c), req.Tags); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Tags updated", nil)
}
