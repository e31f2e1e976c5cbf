package dmworker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"neuraslide/internal/aiclient"
	"neuraslide/internal/instagram"
	"neuraslide/internal/models"
	"neuraslide/internal/notifier"
	"neuraslide/internal/repository"
	"neuraslide/internal/service"
)

// Poller periodically pulls new Instagram DMs for every connected account,
// records them and fires the owner's automations against each incoming
// message.
type Poller struct {
	users         repository.UserRepository
	automations   repository.AutomationRepository
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	ig            *instagram.Client
	generator     aiclient.Generator
	notifier      *notifier.Notifier
	logger        *zap.Logger
	pollInterval  int64

	// cursor per Instagram account, kept in memory. A restart replays the
	// window since the last cursor; handleDM skips messages it has
	// already recorded.
	cursors map[string]string
}

func NewPoller(
	users repository.UserRepository,
	automations repository.AutomationRepository,
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	ig *instagram.Client,
	generator aiclient.Generator,
	n *notifier.Notifier,
	logger *zap.Logger,
	pollInterval int64,
) *Poller {
	return &Poller{
		users:         users,
		automations:   automations,
		conversations: conversations,
		messages:      messages,
		ig:            ig,
		generator:     generator,
		notifier:      n,
		logger:        logger,
		pollInterval:  pollInterval,
		cursors:       make(map[string]string),
	}
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("DM poller started", zap.Int64("interval_seconds", p.pollInterval))

	ticker := time.NewTicker(time.Duration(p.pollInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("DM poller stopped")
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	users, err := p.users.ListWithInstagram()
	if err != nil {
		p.logger.Error("Failed to list connected accounts", zap.Error(err))
		return
	}

	for _, user := range users {
		if ctx.Err() != nil {
			return
		}
		p.pollAccount(ctx, user)
	}
}

func (p *Poller) pollAccount(ctx context.Context, user *models.User) {
	accountID := *user.InstagramAccountID

	dms, next, err := p.ig.ListNewDMs(ctx, accountID, p.cursors[accountID])
	if err != nil {
		p.logger.Error("Failed to poll account",
			zap.String("account_id", accountID), zap.Error(err))
		return
	}

	for _, dm := range dms {
		if err := p.handleDM(ctx, user, accountID, dm); err != nil {
			p.logger.Error("Failed to handle DM",
				zap.String("account_id", accountID),
				zap.String("message_id", dm.MessageID),
				zap.Error(err))
		}
	}

	if next != "" {
		p.cursors[accountID] = next
	}
}

func (p *Poller) handleDM(ctx context.Context, user *models.User, accountID string, dm instagram.DM) error {
	conv, err := p.conversations.GetByExternalID(user.ID, dm.ConversationID)
	if err != nil {
		return err
	}
	if conv == nil {
		conv = &models.Conversation{
			UserID:                 user.ID,
			InstagramAccountID:     accountID,
			ExternalConversationID: dm.ConversationID,
			ParticipantID:          dm.SenderID,
			ParticipantUsername:    dm.SenderUsername,
			Status:                 models.ConversationActive,
		}
		if err := p.conversations.Create(conv); err != nil {
			return err
		}
	} else {
		seen, err := p.messages.HasExternal(conv.ID, dm.MessageID)
		if err != nil {
			return err
		}
		if seen {
			return nil
		}
	}

	incoming := &models.Message{
		ConversationID:    conv.ID,
		ExternalMessageID: &dm.MessageID,
		SenderType:        models.SenderExternal,
		Text:              dm.Text,
		Type:              "text",
		Status:            models.MessageDelivered,
	}
	if err := p.messages.Append(incoming); err != nil {
		return err
	}

	automation := p.matchAutomation(user.ID, dm.Text)
	if automation == nil {
		return nil
	}

	reply, err := p.buildReply(ctx, automation, dm.Text)
	if err != nil {
		p.automations.IncrementCounters(automation.ID, false)
		return err
	}

	sent := true
	externalID, err := p.ig.SendMessage(ctx, accountID, dm.SenderID, reply)
	if err != nil {
		sent = false
		p.logger.Error("Failed to send automated reply",
			zap.Int64("automation_id", automation.ID), zap.Error(err))
		p.notifier.NotifyReplyFailure(automation.Name, conv.ID, err)
	}

	outgoing := &models.Message{
		ConversationID: conv.ID,
		SenderType:     models.SenderBot,
		Text:           reply,
		Type:           "text",
		Status:         models.MessageSent,
	}
	if sent {
		outgoing.ExternalMessageID = &externalID
	} else {
		outgoing.Status = models.MessageFailed
	}
	if err := p.messages.Append(outgoing); err != nil {
		p.logger.Error("Failed to record automated reply", zap.Error(err))
	}

	// A delivered reply means the bot has read and answered the DM.
	if sent {
		if err := p.messages.UpdateStatus(incoming.ID, models.MessageRead); err != nil {
			p.logger.Error("Failed to mark message as read",
				zap.Int64("message_id", incoming.ID), zap.Error(err))
		}
	}

	if err := p.automations.IncrementCounters(automation.ID, sent); err != nil {
		p.logger.Error("Failed to update automation counters",
			zap.Int64("automation_id", automation.ID), zap.Error(err))
	}

	return nil
}

// matchAutomation returns the highest priority active automation whose
// trigger occurs in the message, or nil when none match.
func (p *Poller) matchAutomation(userID int64, text string) *models.Automation {
	automations, err := p.automations.ListActive(userID)
	if err != nil {
		p.logger.Error("Failed to load active automations", zap.Error(err))
		return nil
	}
	for _, a := range automations {
		if service.Matches(a.Trigger, text) {
			return a
		}
	}
	return nil
}

func (p *Poller) buildReply(ctx context.Context, a *models.Automation, message string) (string, error) {
	if !a.UseAI {
		return a.Response, nil
	}
	result, err := p.generator.Generate(ctx, "", message)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}
