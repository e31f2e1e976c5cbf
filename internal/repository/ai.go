package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"neuraslide/internal/models"
)

type AIRepository interface {
	CreateConversation(c *models.AIConversation) error
	GetConversationForUser(id, userID int64) (*models.AIConversation, error)
	ListConversations(userID int64, limit, offset int) ([]*models.AIConversation, error)
	DeleteConversation(id, userID int64) (bool, error)
	CreateMessage(m *models.AIMessage) error
	ListMessages(conversationID int64) ([]*models.AIMessage, error)

	CreateTrainingData(t *models.AITrainingData) error
	ListTrainingData(userID int64, limit, offset int) ([]*models.AITrainingData, error)
	DeleteTrainingData(id, userID int64) (bool, error)

	LogResponse(r *models.AIResponse) error
	Performance(userID int64) (*models.AIPerformance, error)
}

type aiRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAIRepository(db *sqlx.DB, logger *zap.Logger) AIRepository {
	return &aiRepository{db: db, logger: logger}
}

func (r *aiRepository) CreateConversation(c *models.AIConversation) error {
	query := `INSERT INTO ai_conversations (user_id, title) VALUES ($1, $2)
	          RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(query, c.UserID, c.Title).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *aiRepository) GetConversationForUser(id, userID int64) (*models.AIConversation, error) {
	var c models.AIConversation
	query := `SELECT id, user_id, title, created_at, updated_at
	          FROM ai_conversations WHERE id = $1 AND user_id = $2`
	err := r.db.Get(&c, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *aiRepository) ListConversations(userID int64, limit, offset int) ([]*models.AIConversation, error) {
	conversations := []*models.AIConversation{}
	query := `SELECT id, user_id, title, created_at, updated_at FROM ai_conversations
	          WHERE user_id = $1 ORDER BY updated_at DESC LIMIT $2 OFFSET $3`
	err := r.db.Select(&conversations, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *aiRepository) DeleteConversation(id, userID int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM ai_conversations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *aiRepository) CreateMessage(m *models.AIMessage) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insert := `INSERT INTO ai_messages (conversation_id, role, content)
	           VALUES ($1, $2, $3) RETURNING id, created_at`
	if err := tx.QueryRowx(insert, m.ConversationID, m.Role, m.Content).
		Scan(&m.ID, &m.CreatedAt); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE ai_conversations SET updated_at = now() WHERE id = $1`, m.ConversationID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *aiRepository) ListMessages(conversationID int64) ([]*models.AIMessage, error) {
	messages := []*models.AIMessage{}
	query := `SELECT id, conversation_id, role, content, created_at
	          FROM ai_messages WHERE conversation_id = $1 ORDER BY created_at ASC, id ASC`
	err := r.db.Select(&messages, query, conversationID)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *aiRepository) CreateTrainingData(t *models.AITrainingData) error {
	// The category column is NOT NULL; an absent category is stored as ''.
	category := ""
	if t.Category != nil {
		category = *t.Category
	}
	query := `INSERT INTO ai_training_data (user_id, question, answer, category)
	          VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	return r.db.QueryRowx(query, t.UserID, t.Question, t.Answer, category).
		Scan(&t.ID, &t.CreatedAt)
}

func (r *aiRepository) ListTrainingData(userID int64, limit, offset int) ([]*models.AITrainingData, error) {
	data := []*models.AITrainingData{}
	query := `SELECT id, user_id, question, answer, category, created_at
	          FROM ai_training_data WHERE user_id = $1
	          ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	err := r.db.Select(&data, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *aiRepository) DeleteTrainingData(id, userID int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM ai_training_data WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *aiRepository) LogResponse(resp *models.AIResponse) error {
	query := `INSERT INTO ai_responses (user_id, prompt, response, model, prompt_tokens, completion_tokens, latency_ms, fallback)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`
	return r.db.QueryRowx(query, resp.UserID, resp.Prompt, resp.Response, resp.Model,
		resp.PromptTokens, resp.CompletionTokens, resp.LatencyMs, resp.Fallback).
		Scan(&resp.ID, &resp.CreatedAt)
}

func (r *aiRepository) Performance(userID int64) (*models.AIPerformance, error) {
	var p models.AIPerformance
	query := `SELECT COUNT(*) AS total_responses,
	                 COALESCE(SUM(CASE WHEN fallback THEN 1 ELSE 0 END), 0) AS fallback_count,
	                 COALESCE(AVG(latency_ms), 0) AS avg_latency_ms,
	                 COALESCE(SUM(prompt_tokens), 0) AS prompt_tokens,
	                 COALESCE(SUM(completion_tokens), 0) AS completion_tokens
	          FROM ai_responses WHERE user_id = $1`
	err := r.db.Get(&p, query, userID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
