package service

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"neuraslide/internal/apperr"
	"neuraslide/internal/billing"
	"neuraslide/internal/models"
	"neuraslide/internal/repository"
	"neuraslide/internal/validation"
)

// HealthStatus is the payload of GET /nexus/admin/health.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// BulkOutcome reports how many rows a bulk operation touched.
type BulkOutcome struct {
	Operation string `json:"operation"`
	Affected  int64  `json:"affected"`
}

type AdminService interface {
	ListUsers(adminID int64, search string, page, limit int) ([]*models.User, int64, error)
	// UpdateUser mutates role/active/plan and writes one audit record.
	UpdateUser(adminID, userID int64, req validation.AdminUserUpdateRequest) (*models.User, error)
	Metrics() (*models.SystemMetrics, error)
	Health() *HealthStatus
	ListActions(page, limit int) ([]*models.AdminAction, error)
	BulkUserOperation(adminID int64, req validation.BulkUserOperationRequest) (*BulkOutcome, error)
	ListSettings() ([]*models.PlatformSetting, error)
	UpdateSetting(adminID int64, req validation.PlatformSettingRequest) (*models.PlatformSetting, error)
}

type adminService struct {
	users   repository.UserRepository
	teams   repository.TeamRepository
	admin   repository.AdminRepository
	billing *billing.Client
	db      *sqlx.DB
	logger  *zap.Logger
}

func NewAdminService(
	users repository.UserRepository,
	teams repository.TeamRepository,
	admin repository.AdminRepository,
	billingClient *billing.Client,
	db *sqlx.DB,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		users:   users,
		teams:   teams,
		admin:   admin,
		billing: billingClient,
		db:      db,
		logger:  logger,
	}
}

func (s *adminService) audit(adminID int64, action string, targetID *int64, details string) {
	record := &models.AdminAction{AdminID: adminID, Action: action, TargetID: targetID, Details: details}
	if err := s.admin.LogAction(record); err != nil {
		s.logger.Error("Failed to write audit record", zap.String("action", action), zap.Error(err))
	}
}

func (s *adminService) ListUsers(adminID int64, search string, page, limit int) ([]*models.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	users, err := s.users.ListUsers(search, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, 0, apperr.Internal(err)
	}
	total, err := s.users.CountUsers(search)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return nil, 0, apperr.Internal(err)
	}
	return users, total, nil
}

func (s *adminService) UpdateUser(adminID, userID int64, req validation.AdminUserUpdateRequest) (*models.User, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		s.logger.Error("Failed to get user", zap.Int64("id", userID), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.NotFound("User")
	}

	if req.Role != nil || req.IsActive != nil {
		if err := s.users.UpdateUserAdmin(userID, req.Role, req.IsActive); err != nil {
			s.logger.Error("Failed to update user", zap.Int64("id", userID), zap.Error(err))
			return nil, apperr.Internal(err)
		}
	}

	if req.Plan != nil {
		if user.TeamID == nil {
			return nil, apperr.BadRequest("User has no team to set a plan on")
		}
		team, err := s.teams.GetTeamByID(*user.TeamID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if team == nil {
			return nil, apperr.NotFound("Team")
		}
		if err := s.teams.UpdatePlan(team.ID, *req.Plan); err != nil {
			s.logger.Error("Failed to update team plan", zap.Int64("team_id", team.ID), zap.Error(err))
			return nil, apperr.Internal(err)
		}
		customerID := ""
		if team.StripeCustomerID != nil {
			customerID = *team.StripeCustomerID
		}
		if err := s.billing.SyncPlan(customerID, *req.Plan); err != nil {
			s.logger.Error("Failed to sync plan with Stripe", zap.Int64("team_id", team.ID), zap.Error(err))
		}
	}

	s.audit(adminID, "user.update", &userID, fmt.Sprintf("role=%v active=%v plan=%v",
		deref(req.Role), derefBool(req.IsActive), deref(req.Plan)))

	updated, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return updated, nil
}

func (s *adminService) Metrics() (*models.SystemMetrics, error) {
	m, err := s.admin.Metrics()
	if err != nil {
		s.logger.Error("Failed to compute metrics", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return m, nil
}

func (s *adminService) Health() *HealthStatus {
	h := &HealthStatus{Status: "ok", Database: "ok"}
	if err := s.db.Ping(); err != nil {
		s.logger.Error("Database ping failed", zap.Error(err))
		h.Status = "degraded"
		h.Database = "unreachable"
	}
	return h
}

func (s *adminService) ListActions(page, limit int) ([]*models.AdminAction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	actions, err := s.admin.ListActions(limit, (page-1)*limit)
	if err != nil {
		s.logger.Error("Failed to list admin actions", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return actions, nil
}

func (s *adminService) BulkUserOperation(adminID int64, req validation.BulkUserOperationRequest) (*BulkOutcome, error) {
	var affected int64
	var err error
	switch req.Operation {
	case "activate":
		affected, err = s.users.BulkSetActive(req.UserIDs, true)
	case "deactivate":
		affected, err = s.users.BulkSetActive(req.UserIDs, false)
	case "verify_email":
		affected, err = s.users.BulkVerifyEmail(req.UserIDs)
	default:
		return nil, apperr.BadRequest("Unknown operation")
	}
	if err != nil {
		s.logger.Error("Bulk operation failed", zap.String("operation", req.Operation), zap.Error(err))
		return nil, apperr.Internal(err)
	}

	s.audit(adminID, "user.bulk."+req.Operation, nil,
		fmt.Sprintf("user_ids=%v affected=%d", req.UserIDs, affected))
	return &BulkOutcome{Operation: req.Operation, Affected: affected}, nil
}

func (s *adminService) ListSettings() ([]*models.PlatformSetting, error) {
	settings, err := s.admin.ListSettings()
	if err != nil {
		s.logger.Error("Failed to list settings", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return settings, nil
}

func (s *adminService) UpdateSetting(adminID int64, req validation.PlatformSettingRequest) (*models.PlatformSetting, error) {
	// The audit record carries the value being replaced.
	previous := "-"
	if existing, err := s.admin.GetSetting(req.Key); err != nil {
		s.logger.Warn("Failed to read previous setting value", zap.String("key", req.Key), zap.Error(err))
	} else if existing != nil {
		previous = existing.Value
	}

	setting := &models.PlatformSetting{Key: req.Key, Value: req.Value, UpdatedBy: &adminID}
	if err := s.admin.UpsertSetting(setting); err != nil {
		s.logger.Error("Failed to upsert setting", zap.String("key", req.Key), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	s.audit(adminID, "settings.update", nil, fmt.Sprintf("key=%s previous=%s", req.Key, previous))
	return setting, nil
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func derefBool(b *bool) string {
	if b == nil {
		return "-"
	}
	return fmt.Sprintf("%t", *b)
}
