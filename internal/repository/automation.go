package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"neuraslide/internal/models"
)

type AutomationRepository interface {
	Create(a *models.Automation) error
	// GetByID is deliberately unscoped: the automation service distinguishes
	// "someone else's automation" (403) from "no such automation" (404).
	GetByID(id int64) (*models.Automation, error)
	List(userID int64, search string, limit, offset int) ([]*models.Automation, error)
	Count(userID int64, search string) (int64, error)
	Update(a *models.Automation) (bool, error)
	Delete(id, userID int64) (bool, error)
	Toggle(id, userID int64) (*models.Automation, error)
	ListActive(userID int64) ([]*models.Automation, error)
	IncrementCounters(id int64, success bool) error
}

type automationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAutomationRepository(db *sqlx.DB, logger *zap.Logger) AutomationRepository {
	return &automationRepository{db: db, logger: logger}
}

const automationColumns = `id, user_id, name, "trigger", response, use_ai, priority, tags, active, total_triggers, success_count, created_at, updated_at`

func (r *automationRepository) Create(a *models.Automation) error {
	query := `INSERT INTO automations (user_id, name, "trigger", response, use_ai, priority, tags, active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id, total_triggers, success_count, created_at, updated_at`
	return r.db.QueryRowx(query, a.UserID, a.Name, a.Trigger, a.Response, a.UseAI,
		a.Priority, pq.Array(a.Tags), a.Active).
		Scan(&a.ID, &a.TotalTriggers, &a.SuccessCount, &a.CreatedAt, &a.UpdatedAt)
}

func (r *automationRepository) GetByID(id int64) (*models.Automation, error) {
	var a models.Automation
	query := `SELECT ` + automationColumns + ` FROM automations WHERE id = $1`
	err := r.db.Get(&a, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *automationRepository) List(userID int64, search string, limit, offset int) ([]*models.Automation, error) {
	automations := []*models.Automation{}
	query := `SELECT ` + automationColumns + ` FROM automations
	          WHERE user_id = $1
	            AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR "trigger" ILIKE '%' || $2 || '%')
	          ORDER BY priority DESC, created_at DESC
	          LIMIT $3 OFFSET $4`
	err := r.db.Select(&automations, query, userID, search, limit, offset)
	if err != nil {
		return nil, err
	}
	return automations, nil
}

func (r *automationRepository) Count(userID int64, search string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM automations
	          WHERE user_id = $1
	            AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR "trigger" ILIKE '%' || $2 || '%')`
	err := r.db.Get(&count, query, userID, search)
	return count, err
}

// Update mutates only rows matching both id and owner. Returns false when no
// row matched.
func (r *automationRepository) Update(a *models.Automation) (bool, error) {
	query := `UPDATE automations SET
	            name = $1, "trigger" = $2, response = $3, use_ai = $4,
	            priority = $5, tags = $6, active = $7, updated_at = now()
	          WHERE id = $8 AND user_id = $9`
	res, err := r.db.Exec(query, a.Name, a.Trigger, a.Response, a.UseAI,
		a.Priority, pq.Array(a.Tags), a.Active, a.ID, a.UserID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *automationRepository) Delete(id, userID int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM automations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *automationRepository) Toggle(id, userID int64) (*models.Automation, error) {
	var a models.Automation
	query := `UPDATE automations SET active = NOT active, updated_at = now()
	          WHERE id = $1 AND user_id = $2
	          RETURNING ` + automationColumns
	err := r.db.QueryRowx(query, id, userID).StructScan(&a)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *automationRepository) ListActive(userID int64) ([]*models.Automation, error) {
	automations := []*models.Automation{}
	query := `SELECT ` + automationColumns + ` FROM automations
	          WHERE user_id = $1 AND active = true
	          ORDER BY priority DESC, created_at ASC`
	err := r.db.Select(&automations, query, userID)
	if err != nil {
		return nil, err
	}
	return automations, nil
}

// IncrementCounters relies on the database's atomic update, not on
// read-modify-write in the application.
func (r *automationRepository) IncrementCounters(id int64, success bool) error {
	query := `UPDATE automations SET
	            total_triggers = total_triggers + 1,
	            success_count = success_count + CASE WHEN $1 THEN 1 ELSE 0 END,
	            updated_at = now()
	          WHERE id = $2`
	_, err := r.db.Exec(query, success, id)
	return err
}
