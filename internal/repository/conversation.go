package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"neuraslide/internal/models"
)

// ConversationFilter narrows the conversation list. Zero values mean "no
// filter" for that dimension.
type ConversationFilter struct {
	Status    string
	Automated *bool
	Search    string
	Limit     int
	Offset    int
}

type ConversationRepository interface {
	Create(c *models.Conversation) error
	// GetByIDForUser is ownership-scoped: a conversation owned by another user
	// is indistinguishable from a missing one.
	GetByIDForUser(id, userID int64) (*models.Conversation, error)
	GetByExternalID(userID int64, externalID string) (*models.Conversation, error)
	List(userID int64, f ConversationFilter) ([]*models.Conversation, error)
	Count(userID int64, f ConversationFilter) (int64, error)
	Stats(userID int64) (*models.ConversationStats, error)
	UpdateStatus(id, userID int64, status string) (bool, error)
	UpdateTags(id, userID int64, tags []string) (bool, error)
}

type conversationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewConversationRepository(db *sqlx.DB, logger *zap.Logger) ConversationRepository {
	return &conversationRepository{db: db, logger: logger}
}

const conversationColumns = `id, user_id, instagram_account_id, external_conversation_id, participant_id, participant_username, participant_name, status, last_message_text, last_message_at, message_count, is_automated, tags, priority, created_at, updated_at`

func (r *conversationRepository) Create(c *models.Conversation) error {
	query := `INSERT INTO conversations
	            (user_id, instagram_account_id, external_conversation_id, participant_id,
	             participant_username, participant_name, status, is_automated, tags, priority)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id, message_count, created_at, updated_at`
	return r.db.QueryRowx(query, c.UserID, c.InstagramAccountID, c.ExternalConversationID,
		c.ParticipantID, c.ParticipantUsername, c.ParticipantName, c.Status,
		c.IsAutomated, pq.Array(c.Tags), c.Priority).
		Scan(&c.ID, &c.MessageCount, &c.CreatedAt, &c.UpdatedAt)
}

func (r *conversationRepository) GetByIDForUser(id, userID int64) (*models.Conversation, error) {
	var c models.Conversation
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1 AND user_id = $2`
	err := r.db.Get(&c, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepository) GetByExternalID(userID int64, externalID string) (*models.Conversation, error) {
	var c models.Conversation
	query := `SELECT ` + conversationColumns + ` FROM conversations
	          WHERE user_id = $1 AND external_conversation_id = $2`
	err := r.db.Get(&c, query, userID, externalID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepository) List(userID int64, f ConversationFilter) ([]*models.Conversation, error) {
	conversations := []*models.Conversation{}
	query := `SELECT ` + conversationColumns + ` FROM conversations
	          WHERE user_id = $1
	            AND ($2 = '' OR status = $2)
	            AND ($3::boolean IS NULL OR is_automated = $3)
	            AND ($4 = '' OR participant_username ILIKE '%' || $4 || '%' OR last_message_text ILIKE '%' || $4 || '%')
	          ORDER BY last_message_at DESC NULLS LAST, created_at DESC
	          LIMIT $5 OFFSET $6`
	err := r.db.Select(&conversations, query, userID, f.Status, f.Automated, f.Search, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *conversationRepository) Count(userID int64, f ConversationFilter) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM conversations
	          WHERE user_id = $1
	            AND ($2 = '' OR status = $2)
	            AND ($3::boolean IS NULL OR is_automated = $3)
	            AND ($4 = '' OR participant_username ILIKE '%' || $4 || '%' OR last_message_text ILIKE '%' || $4 || '%')`
	err := r.db.Get(&count, query, userID, f.Status, f.Automated, f.Search)
	return count, err
}

func (r *conversationRepository) Stats(userID int64) (*models.ConversationStats, error) {
	stats := &models.ConversationStats{ByStatus: map[string]int64{}}

	totals := struct {
		Total     int64 `db:"total"`
		Automated int64 `db:"automated"`
		Messages  int64 `db:"messages"`
	}{}
	query := `SELECT COUNT(*) AS total,
	                 COALESCE(SUM(CASE WHEN is_automated THEN 1 ELSE 0 END), 0) AS automated,
	                 COALESCE(SUM(message_count), 0) AS messages
	          FROM conversations WHERE user_id = $1`
	if err := r.db.Get(&totals, query, userID); err != nil {
		return nil, err
	}
	stats.Total = totals.Total
	stats.Automated = totals.Automated
	stats.Messages = totals.Messages

	rows := []struct {
		Status string `db:"status"`
		Count  int64  `db:"count"`
	}{}
	byStatus := `SELECT status, COUNT(*) AS count FROM conversations WHERE user_id = $1 GROUP BY status`
	if err := r.db.Select(&rows, byStatus, userID); err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
	}
	return stats, nil
}

func (r *conversationRepository) UpdateStatus(id, userID int64, status string) (bool, error) {
	query := `UPDATE conversations SET status = $1, updated_at = now() WHERE id = $2 AND user_id = $3`
	res, err := r.db.Exec(query, status, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *conversationRepository) UpdateTags(id, userID int64, tags []string) (bool, error) {
	query := `UPDATE conversations SET tags = $1, updated_at = now() WHERE id = $2 AND user_id = $3`
	res, err := r.db.Exec(query, pq.Array(tags), id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
