package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"neuraslide/internal/aiclient"
	"neuraslide/internal/apperr"
	"neuraslide/internal/models"
	"neuraslide/internal/repository"
	"neuraslide/internal/validation"
)

// GenerateResult is the payload of POST /crystal/ai/generate.
type GenerateResult struct {
	Response       string `json:"response"`
	Model          string `json:"model"`
	LatencyMs      int64  `json:"latency_ms"`
	Fallback       bool   `json:"fallback"`
	ConversationID *int64 `json:"conversation_id,omitempty"`
}

type AIService interface {
	// Generate produces a reply, grounded on the user's training data and, if
	// a conversation id is given, that conversation's history. The exchange is
	// appended to the conversation and a metrics row is always logged.
	Generate(ctx context.Context, userID int64, req validation.AIGenerateRequest) (*GenerateResult, error)
	CreateConversation(userID int64, title string) (*models.AIConversation, error)
	ListConversations(userID int64, page, limit int) ([]*models.AIConversation, error)
	GetConversation(id, userID int64) (*models.AIConversation, error)
	DeleteConversation(id, userID int64) error
	ListMessages(conversationID, userID int64) ([]*models.AIMessage, error)
	CreateTrainingData(userID int64, req validation.TrainingDataRequest) (*models.AITrainingData, error)
	ListTrainingData(userID int64, page, limit int) ([]*models.AITrainingData, error)
	DeleteTrainingData(id, userID int64) error
	Performance(userID int64) (*models.AIPerformance, error)
}

type aiService struct {
	repo      repository.AIRepository
	generator aiclient.Generator
	logger    *zap.Logger
}

func NewAIService(repo repository.AIRepository, generator aiclient.Generator, logger *zap.Logger) AIService {
	return &aiService{repo: repo, generator: generator, logger: logger}
}

func (s *aiService) Generate(ctx context.Context, userID int64, req validation.AIGenerateRequest) (*GenerateResult, error) {
	var conversation *models.AIConversation
	if req.ConversationID != nil {
		var err error
		conversation, err = s.GetConversation(*req.ConversationID, userID)
		if err != nil {
			return nil, err
		}
	}

	systemContext, err := s.buildContext(userID, conversation)
	if err != nil {
		return nil, err
	}

	result, err := s.generator.Generate(ctx, systemContext, req.Message)
	if err != nil {
		s.logger.Error("Failed to generate response", zap.Error(err))
		return nil, apperr.Internal(err)
	}

	if err := s.repo.LogResponse(&models.AIResponse{
		UserID:           userID,
		Prompt:           req.Message,
		Response:         result.Text,
		Model:            result.Model,
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
		LatencyMs:        result.LatencyMs,
		Fallback:         result.Fallback,
	}); err != nil {
		s.logger.Warn("Failed to log AI response", zap.Error(err))
	}

	out := &GenerateResult{
		Response:  result.Text,
		Model:     result.Model,
		LatencyMs: result.LatencyMs,
		Fallback:  result.Fallback,
	}

	if conversation != nil {
		out.ConversationID = &conversation.ID
		userMsg := &models.AIMessage{ConversationID: conversation.ID, Role: "user", Content: req.Message}
		if err := s.repo.CreateMessage(userMsg); err != nil {
			s.logger.Error("Failed to store user message", zap.Error(err))
			return nil, apperr.Internal(err)
		}
		botMsg := &models.AIMessage{ConversationID: conversation.ID, Role: "assistant", Content: result.Text}
		if err := s.repo.CreateMessage(botMsg); err != nil {
			s.logger.Error("Failed to store assistant message", zap.Error(err))
			return nil, apperr.Internal(err)
		}
	}

	return out, nil
}

// buildContext assembles the system-prompt grounding: up to 20 training pairs
// and the tail of the conversation history.
func (s *aiService) buildContext(userID int64, conversation *models.AIConversation) (string, error) {
	var b strings.Builder

	training, err := s.repo.ListTrainingData(userID, 20, 0)
	if err != nil {
		return "", apperr.Internal(err)
	}
	if len(training) > 0 {
		b.WriteString("Known questions and answers:\n")
		for _, t := range training {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", t.Question, t.Answer)
		}
	}

	if conversation != nil {
		history, err := s.repo.ListMessages(conversation.ID)
		if err != nil {
			return "", apperr.Internal(err)
		}
		if len(history) > 10 {
			history = history[len(history)-10:]
		}
		if len(history) > 0 {
			b.WriteString("\nConversation so far:\n")
			for _, m := range history {
				fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
			}
		}
	}

	return b.String(), nil
}

func (s *aiService) CreateConversation(userID int64, title string) (*models.AIConversation, error) {
	c := &models.AIConversation{UserID: userID, Title: title}
	if err := s.repo.CreateConversation(c); err != nil {
		s.logger.Error("Failed to create AI conversation", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return c, nil
}

func (s *aiService) ListConversations(userID int64, page, limit int) ([]*models.AIConversation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	conversations, err := s.repo.ListConversations(userID, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error("Failed to list AI conversations", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return conversations, nil
}

func (s *aiService) GetConversation(id, userID int64) (*models.AIConversation, error) {
	c, err := s.repo.GetConversationForUser(id, userID)
	if err != nil {
		s.logger.Error("Failed to get AI conversation", zap.Int64("id", id), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if c == nil {
		return nil, apperr.NotFound("Conversation")
	}
	return c, nil
}

func (s *aiService) DeleteConversation(id, userID int64) error {
	ok, err := s.repo.DeleteConversation(id, userID)
	if err != nil {
		s.logger.Error("Failed to delete AI conversation", zap.Int64("id", id), zap.Error(err))
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.NotFound("Conversation")
	}
	return nil
}

func (s *aiService) ListMessages(conversationID, userID int64) ([]*models.AIMessage, error) {
	if _, err := s.GetConversation(conversationID, userID); err != nil {
		return nil, err
	}
	messages, err := s.repo.ListMessages(conversationID)
	if err != nil {
		s.logger.Error("Failed to list AI messages", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return messages, nil
}

func (s *aiService) CreateTrainingData(userID int64, req validation.TrainingDataRequest) (*models.AITrainingData, error) {
	t := &models.AITrainingData{
		UserID:   userID,
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
	}
	if err := s.repo.CreateTrainingData(t); err != nil {
		s.logger.Error("Failed to create training data", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return t, nil
}

func (s *aiService) ListTrainingData(userID int64, page, limit int) ([]*models.AITrainingData, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	data, err := s.repo.ListTrainingData(userID, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error("Failed to list training data", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return data, nil
}

func (s *aiService) DeleteTrainingData(id, userID int64) error {
	ok, err := s.repo.DeleteTrainingData(id, userID)
	if err != nil {
		s.logger.Error("Failed to delete training data", zap.Int64("id", id), zap.Error(err))
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.NotFound("Training data")
	}
	return nil
}

func (s *aiService) Performance(userID int64) (*models.AIPerformance, error) {
	p, err := s.repo.Performance(userID)
	if err != nil {
		s.logger.Error("Failed to compute AI performance", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return p, nil
}
