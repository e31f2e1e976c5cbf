package service

import (
	"context"

	"go.uber.org/zap"

	"neuraslide/internal/aiclient"
	"neuraslide/internal/apperr"
	"neuraslide/internal/instagram"
	"neuraslide/internal/models"
	"neuraslide/internal/repository"
)

type ConversationService interface {
	List(userID int64, f repository.ConversationFilter) ([]*models.Conversation, int64, error)
	Stats(userID int64) (*models.ConversationStats, error)
	Get(id, userID int64) (*models.Conversation, error)
	Messages(id, userID int64, page, limit int) ([]*models.Message, error)
	// Send delivers an outbound text through the Instagram client and appends
	// the BOT message; a delivery failure is stored with status FAILED.
	Send(ctx context.Context, id, userID int64, text string) (*models.Message, error)
	// Reply drafts an AI response to the participant's last message and sends it.
	Reply(ctx context.Context, id, userID int64) (*models.Message, error)
	UpdateStatus(id, userID int64, status string) error
	UpdateTags(id, userID int64, tags []string) error
}

type conversationService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	ai            repository.AIRepository
	ig            *instagram.Client
	generator     aiclient.Generator
	logger        *zap.Logger
}

func NewConversationService(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	ai repository.AIRepository,
	ig *instagram.Client,
	generator aiclient.Generator,
	logger *zap.Logger,
) ConversationService {
	return &conversationService{
		conversations: conversations,
		messages:      messages,
		ai:            ai,
		ig:            ig,
		generator:     generator,
		logger:        logger,
	}
}

func (s *conversationService) List(userID int64, f repository.ConversationFilter) ([]*models.Conversation, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	conversations, err := s.conversations.List(userID, f)
	if err != nil {
		s.logger.Error("Failed to list conversations", zap.Error(err))
		return nil, 0, apperr.Internal(err)
	}
	total, err := s.conversations.Count(userID, f)
	if err != nil {
		s.logger.Error("Failed to count conversations", zap.Error(err))
		return nil, 0, apperr.Internal(err)
	}
	return conversations, total, nil
}

func (s *conversationService) Stats(userID int64) (*models.ConversationStats, error) {
	stats, err := s.conversations.Stats(userID)
	if err != nil {
		s.logger.Error("Failed to compute conversation stats", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return stats, nil
}

func (s *conversationService) Get(id, userID int64) (*models.Conversation, error) {
	c, err := s.conversations.GetByIDForUser(id, userID)
	if err != nil {
		s.logger.Error("Failed to get conversation", zap.Int64("id", id), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if c == nil {
		return nil, apperr.NotFound("Conversation")
	}
	return c, nil
}

func (s *conversationService) Messages(id, userID int64, page, limit int) ([]*models.Message, error) {
	if _, err := s.Get(id, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	messages, err := s.messages.ListByConversation(id, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error("Failed to list messages", zap.Int64("conversation_id", id), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return messages, nil
}

func (s *conversationService) Send(ctx context.Context, id, userID int64, text string) (*models.Message, error) {
	c, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: c.ID,
		SenderType:     models.SenderBot,
		Text:           text,
		Type:           "text",
		Status:         models.MessageSent,
	}

	externalID, sendErr := s.ig.SendMessage(ctx, c.InstagramAccountID, c.ParticipantID, text)
	if sendErr != nil {
		s.logger.Error("Failed to deliver message",
			zap.Int64("conversation_id", c.ID), zap.Error(sendErr))
		msg.Status = models.MessageFailed
	} else {
		msg.ExternalMessageID = &externalID
	}

	if err := s.messages.Append(msg); err != nil {
		s.logger.Error("Failed to store message", zap.Int64("conversation_id", c.ID), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return msg, nil
}

func (s *conversationService) Reply(ctx context.Context, id, userID int64) (*models.Message, error) {
	c, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}
	if c.LastMessageText == nil || *c.LastMessageText == "" {
		return nil, apperr.BadRequest("Conversation has no message to reply to")
	}

	result, err := s.generator.Generate(ctx, "", *c.LastMessageText)
	if err != nil {
		s.logger.Error("Failed to generate reply", zap.Int64("conversation_id", c.ID), zap.Error(err))
		return nil, apperr.Internal(err)
	}

	if err := s.ai.LogResponse(&models.AIResponse{
		UserID:           userID,
		Prompt:           *c.LastMessageText,
		Response:         result.Text,
		Model:            result.Model,
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
		LatencyMs:        result.LatencyMs,
		Fallback:         result.Fallback,
	}); err != nil {
		s.logger.Warn("Failed to log AI response", zap.Error(err))
	}

	return s.Send(ctx, id, userID, result.Text)
}

func (s *conversationService) UpdateStatus(id, userID int64, status string) error {
	ok, err := s.conversations.UpdateStatus(id, userID, status)
	if err != nil {
		s.logger.Error("Failed to update conversation status", zap.Int64("id", id), zap.Error(err))
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.NotFound("Conversation")
	}
	return nil
}

func (s *conversationService) UpdateTags(id, userID int64, tags []string) error {
	ok, err := s.conversations.UpdateTags(id, userID, tags)
	if err != nil {
		s.logger.Error("Failed to update conversation tags", zap.Int64("id", id), zap.Error(err))
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.NotFound("Conversation")
	}
	return nil
}
