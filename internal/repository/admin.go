package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"neuraslide/internal/models"
)

type AdminRepository interface {
	// LogAction appends one audit record. Audit rows are never updated.
	LogAction(action *models.AdminAction) error
	ListActions(limit, offset int) ([]*models.AdminAction, error)
	Metrics() (*models.SystemMetrics, error)
	GetSetting(key string) (*models.PlatformSetting, error)
	ListSettings() ([]*models.PlatformSetting, error)
	UpsertSetting(s *models.PlatformSetting) error
}

type adminRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAdminRepository(db *sqlx.DB, logger *zap.Logger) AdminRepository {
	return &adminRepository{db: db, logger: logger}
}

func (r *adminRepository) LogAction(action *models.AdminAction) error {
	query := `INSERT INTO admin_actions (admin_id, action, target_id, details)
	          VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	return r.db.QueryRowx(query, action.AdminID, action.Action, action.TargetID, action.Details).
		Scan(&action.ID, &action.CreatedAt)
}

func (r *adminRepository) ListActions(limit, offset int) ([]*models.AdminAction, error) {
	actions := []*models.AdminAction{}
	query := `SELECT id, admin_id, action, target_id, details, created_at
	          FROM admin_actions ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	err := r.db.Select(&actions, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return actions, nil
}

func (r *adminRepository) Metrics() (*models.SystemMetrics, error) {
	var m models.SystemMetrics
	query := `SELECT
	            (SELECT COUNT(*) FROM users) AS users,
	            (SELECT COUNT(*) FROM teams) AS teams,
	            (SELECT COUNT(*) FROM automations) AS automations,
	            (SELECT COUNT(*) FROM conversations) AS conversations,
	            (SELECT COUNT(*) FROM messages) AS messages,
	            (SELECT COUNT(*) FROM products) AS products,
	            (SELECT COALESCE(SUM(total_triggers), 0) FROM automations) AS triggers_total`
	err := r.db.Get(&m, query)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *adminRepository) GetSetting(key string) (*models.PlatformSetting, error) {
	var s models.PlatformSetting
	query := `SELECT key, value, updated_by, updated_at FROM platform_settings WHERE key = $1`
	err := r.db.Get(&s, query, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *adminRepository) ListSettings() ([]*models.PlatformSetting, error) {
	settings := []*models.PlatformSetting{}
	query := `SELECT key, value, updated_by, updated_at FROM platform_settings ORDER BY key`
	err := r.db.Select(&settings, query)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *adminRepository) UpsertSetting(s *models.PlatformSetting) error {
	query := `INSERT INTO platform_settings (key, value, updated_by, updated_at)
	          VALUES ($1, $2, $3, now())
	          ON CONFLICT (key) DO UPDATE SET value = $2, updated_by = $3, updated_at = now()
	          RETURNING updated_at`
	return r.db.QueryRowx(query, s.Key, s.Value, s.UpdatedBy).Scan(&s.UpdatedAt)
}
