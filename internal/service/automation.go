package service

import (
	"strings"

	"go.uber.org/zap"

	"neuraslide/internal/apperr"
	"neuraslide/internal/models"
	"neuraslide/internal/repository"
	"neuraslide/internal/validation"
)

// TestOutcome is the result of a dry-run against one automation.
type TestOutcome struct {
	Triggered bool   `json:"triggered"`
	Response  string `json:"response,omitempty"`
}

type AutomationService interface {
	Create(userID int64, req validation.AutomationRequest) (*models.Automation, error)
	// Get returns 403 when the automation belongs to another user; this is
	// the one resource type where cross-user access is not conflated with 404.
	Get(id, userID int64) (*models.Automation, error)
	List(userID int64, search string, page, limit int) ([]*models.Automation, int64, error)
	Update(id, userID int64, req validation.AutomationRequest) (*models.Automation, error)
	Delete(id, userID int64) error
	Toggle(id, userID int64) (*models.Automation, error)
	Test(id, userID int64, message string) (*TestOutcome, error)
}

type automationService struct {
	automations repository.AutomationRepository
	logger      *zap.Logger
}

func NewAutomationService(automations repository.AutomationRepository, logger *zap.Logger) AutomationService {
	return &automationService{automations: automations, logger: logger}
}

func (s *automationService) Create(userID int64, req validation.AutomationRequest) (*models.Automation, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	a := &models.Automation{
		UserID:   userID,
		Name:     req.Name,
		Trigger:  req.Trigger,
		Response: req.Response,
		UseAI:    req.UseAI,
		Priority: req.Priority,
		Tags:     req.Tags,
		Active:   active,
	}
	if err := s.automations.Create(a); err != nil {
		s.logger.Error("Failed to create automation", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return a, nil
}

func (s *automationService) Get(id, userID int64) (*models.Automation, error) {
	a, err := s.automations.GetByID(id)
	if err != nil {
		s.logger.Error("Failed to get automation", zap.Int64("id", id), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if a == nil {
		return nil, apperr.NotFound("Automation")
	}
	if a.UserID != userID {
		return nil, apperr.Forbidden("You do not have access to this automation")
	}
	return a, nil
}

func (s *automationService) List(userID int64, search string, page, limit int) ([]*models.Automation, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	automations, err := s.automations.List(userID, search, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list automations", zap.Error(err))
		return nil, 0, apperr.Internal(err)
	}
	total, err := s.automations.Count(userID, search)
	if err != nil {
		s.logger.Error("Failed to count automations", zap.Error(err))
		return nil, 0, apperr.Internal(err)
	}
	return automations, total, nil
}

func (s *automationService) Update(id, userID int64, req validation.AutomationRequest) (*models.Automation, error) {
	// Scoped pre-check gives 403/404 before any write.
	current, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}

	current.Name = req.Name
	current.Trigger = req.Trigger
	current.Response = req.Response
	current.UseAI = req.UseAI
	current.Priority = req.Priority
	current.Tags = req.Tags
	if req.Active != nil {
		current.Active = *req.Active
	}

	ok, err := s.automations.Update(current)
	if err != nil {
		s.logger.Error("Failed to update automation", zap.Int64("id", id), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, apperr.NotFound("Automation")
	}
	return current, nil
}

func (s *automationService) Delete(id, userID int64) error {
	if _, err := s.Get(id, userID); err != nil {
		return err
	}
	ok, err := s.automations.Delete(id, userID)
	if err != nil {
		s.logger.Error("Failed to delete automation", zap.Int64("id", id), zap.Error(err))
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.NotFound("Automation")
	}
	return nil
}

func (s *automationService) Toggle(id, userID int64) (*models.Automation, error) {
	if _, err := s.Get(id, userID); err != nil {
		return nil, err
	}
	a, err := s.automations.Toggle(id, userID)
	if err != nil {
		s.logger.Error("Failed to toggle automation", zap.Int64("id", id), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if a == nil {
		return nil, apperr.NotFound("Automation")
	}
	return a, nil
}

func (s *automationService) Test(id, userID int64, message string) (*TestOutcome, error) {
	a, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}
	if !Matches(a.Trigger, message) {
		return &TestOutcome{Triggered: false}, nil
	}
	return &TestOutcome{Triggered: true, Response: a.Response}, nil
}

// Matches reports whether the trigger keyword appears in the message,
// case-insensitively. Shared with the DM worker so test and production
// matching can never drift apart.
func Matches(trigger, message string) bool {
	return strings.Contains(strings.ToLower(message), strings.ToLower(trigger))
}
