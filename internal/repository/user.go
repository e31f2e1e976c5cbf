package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"neuraslide/internal/models"
)

type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
	UpdatePassword(userID int64, passwordHash string) error
	SetEmailVerified(userID int64) error
	UpdateLastLogin(userID int64) error
	ListUsers(search string, limit, offset int) ([]*models.User, error)
	CountUsers(search string) (int64, error)
	UpdateUserAdmin(userID int64, role *string, isActive *bool) error
	BulkSetActive(userIDs []int64, active bool) (int64, error)
	BulkVerifyEmail(userIDs []int64) (int64, error)
	ListWithInstagram() ([]*models.User, error)

	CreateToken(token *models.UserToken) error
	GetValidToken(token, kind string) (*models.UserToken, error)
	MarkTokenUsed(tokenID int64) error
}

type userRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewUserRepository(db *sqlx.DB, logger *zap.Logger) UserRepository {
	return &userRepository{db: db, logger: logger}
}

const userColumns = `id, email, password_hash, name, role, email_verified, is_active, team_id, instagram_account_id, last_login_at, created_at, updated_at`

func (r *userRepository) CreateUser(user *models.User) error {
	query := `INSERT INTO users (email, password_hash, name, role, email_verified, is_active, team_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(query, user.Email, user.PasswordHash, user.Name, user.Role,
		user.EmailVerified, user.IsActive, user.TeamID).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	err := r.db.Get(&user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(id int64) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.Get(&user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(userID int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`
	_, err := r.db.Exec(query, passwordHash, userID)
	return err
}

func (r *userRepository) SetEmailVerified(userID int64) error {
	query := `UPDATE users SET email_verified = true, updated_at = now() WHERE id = $1`
	_, err := r.db.Exec(query, userID)
	return err
}

func (r *userRepository) UpdateLastLogin(userID int64) error {
	query := `UPDATE users SET last_login_at = $1 WHERE id = $2`
	_, err := r.db.Exec(query, time.Now().UTC(), userID)
	return err
}

func (r *userRepository) ListUsers(search string, limit, offset int) ([]*models.User, error) {
	users := []*models.User{}
	query := `SELECT ` + userColumns + ` FROM users
	          WHERE ($1 = '' OR email ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%')
	          ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	err := r.db.Select(&users, query, search, limit, offset)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CountUsers(search string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM users
	          WHERE ($1 = '' OR email ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%')`
	err := r.db.Get(&count, query, search)
	return count, err
}

func (r *userRepository) UpdateUserAdmin(userID int64, role *string, isActive *bool) error {
	query := `UPDATE users SET
	            role = COALESCE($1, role),
	            is_active = COALESCE($2, is_active),
	            updated_at = now()
	          WHERE id = $3`
	_, err := r.db.Exec(query, role, isActive, userID)
	return err
}

func (r *userRepository) BulkSetActive(userIDs []int64, active bool) (int64, error) {
	query := `UPDATE users SET is_active = $1, updated_at = now() WHERE id = ANY($2)`
	res, err := r.db.Exec(query, active, pq.Array(userIDs))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *userRepository) BulkVerifyEmail(userIDs []int64) (int64, error) {
	query := `UPDATE users SET email_verified = true, updated_at = now() WHERE id = ANY($1)`
	res, err := r.db.Exec(query, pq.Array(userIDs))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListWithInstagram returns active users that have connected an Instagram
// account. The DM poller walks this set on every tick.
func (r *userRepository) ListWithInstagram() ([]*models.User, error) {
	users := []*models.User{}
	query := `SELECT ` + userColumns + ` FROM users
	          WHERE is_active = true AND instagram_account_id IS NOT NULL`
	if err := r.db.Select(&users, query); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CreateToken(token *models.UserToken) error {
	query := `INSERT INTO user_tokens (user_id, token, kind, expires_at)
	          VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	return r.db.QueryRowx(query, token.UserID, token.Token, token.Kind, token.ExpiresAt).
		Scan(&token.ID, &token.CreatedAt)
}

func (r *userRepository) GetValidToken(token, kind string) (*models.UserToken, error) {
	var t models.UserToken
	query := `SELECT id, user_id, token, kind, expires_at, used_at, created_at
	          FROM user_tokens
	          WHERE token = $1 AND kind = $2 AND used_at IS NULL AND expires_at > now()`
	err := r.db.Get(&t, query, token, kind)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *userRepository) MarkTokenUsed(tokenID int64) error {
	query := `UPDATE user_tokens SET used_at = now() WHERE id = $1`
	_, err := r.db.Exec(query, tokenID)
	return err
}
