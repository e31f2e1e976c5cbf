package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"neuraslide/internal/models"
)

type TeamRepository interface {
	CreateTeam(team *models.Team) error
	GetTeamByID(id int64) (*models.Team, error)
	UpdatePlan(teamID int64, plan string) error
	SetStripeCustomerID(teamID int64, customerID string) error
	AssignUser(userID, teamID int64) error
}

type teamRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewTeamRepository(db *sqlx.DB, logger *zap.Logger) TeamRepository {
	return &teamRepository{db: db, logger: logger}
}

func (r *teamRepository) CreateTeam(team *models.Team) error {
	query := `INSERT INTO teams (name, owner_id, plan) VALUES ($1, $2, $3) RETURNING id, created_at`
	return r.db.QueryRowx(query, team.Name, team.OwnerID, team.Plan).
		Scan(&team.ID, &team.CreatedAt)
}

func (r *teamRepository) GetTeamByID(id int64) (*models.Team, error) {
	var team models.Team
	query := `SELECT id, name, owner_id, plan, stripe_customer_id, created_at FROM teams WHERE id = $1`
	err := r.db.Get(&team, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) UpdatePlan(teamID int64, plan string) error {
	query := `UPDATE teams SET plan = $1 WHERE id = $2`
	_, err := r.db.Exec(query, plan, teamID)
	return err
}

func (r *teamRepository) SetStripeCustomerID(teamID int64, customerID string) error {
	query := `UPDATE teams SET stripe_customer_id = $1 WHERE id = $2`
	_, err := r.db.Exec(query, customerID, teamID)
	return err
}

func (r *teamRepository) AssignUser(userID, teamID int64) error {
	query := `UPDATE users SET team_id = $1, updated_at = now() WHERE id = $2`
	_, err := r.db.Exec(query, teamID, userID)
	return err
}
