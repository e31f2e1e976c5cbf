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

type AIHandler interface {
	Generate(c *gin.Context)
	CreateConversation(c *gin.Context)
	ListConversations(c *gin.Context)
	GetConversation(c *gin.Context)
	DeleteConversation(c *gin.Context)
	ListMessages(c *gin.Context)
	CreateTrainingData(c *gin.Context)
	ListTrainingData(c *gin.Context)
	DeleteTrainingData(c *gin.Context)
	Performance(c *gin.Context)
}

type aiHandler struct {
	ai     service.AIService
	logger *zap.Logger
}

func NewAIHandler(ai service.AIService, logger *zap.Logger) AIHandler {
	return &aiHandler{ai: ai, logger: logger}
}

func (h *aiHandler) Generate(c *gin.Context) {
	var req validation.AIGenerateRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateAIGenerate(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	result, err := h.ai.Generate(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", result)
}

func (h *aiHandler) CreateConversation(c *gin.Context) {
	var req validation.AIConversationRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateAIConversation(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	conversation, err := h.ai.CreateConversation(currentUserID(c), req.Title)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusCreated, "Conversation created", gin.H{"conversation": conversation})
}

func (h *aiHandler) ListConversations(c *gin.Context) {
	conversations, err := h.ai.ListConversations(currentUserID(c), queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{"conversations": conversations})
}

func (h *aiHandler) GetConversation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	conversation, err := h.ai.GetConversation(id, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{"conversation": conversation})
}

func (h *aiHandler) DeleteConversation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ai.DeleteConversation(id, currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Conversation deleted", nil)
}

func (h *aiHandler) ListMessages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	messages, err := h.ai.ListMessages(id, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{"messages": messages})
}

func (h *aiHandler) CreateTrainingData(c *gin.Context) {
	var req validation.TrainingDataRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateTrainingData(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	data, err := h.ai.CreateTrainingData(currentUserID(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusCreated, "Training data created", gin.H{"training_data": data})
}

func (h *aiHandler) ListTrainingData(c *gin.Context) {
	data, err := h.ai.ListTrainingData(currentUserID(c), queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{"training_data": data})
}

func (h *aiHandler) DeleteTrainingData(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ai.DeleteTrainingData(id, currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Training data deleted", nil)
}

func (h *aiHandler) Performance(c *gin.Context) {
	performance, err := h.ai.Performance(currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", performance)
}
