package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"neuraslide/internal/models"
)

type MessageRepository interface {
	// Append inserts the message and refreshes the owning conversation's
	// denormalized message_count / last_message_* caches in one transaction.
	Append(msg *models.Message) error
	ListByConversation(conversationID int64, limit, offset int) ([]*models.Message, error)
	UpdateStatus(messageID int64, status string) error
	HasExternal(conversationID int64, externalMessageID string) (bool, error)
}

type messageRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewMessageRepository(db *sqlx.DB, logger *zap.Logger) MessageRepository {
	return &messageRepository{db: db, logger: logger}
}

func (r *messageRepository) Append(msg *models.Message) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insert := `INSERT INTO messages (conversation_id, external_message_id, sender_type, text, media_urls, type, status, metadata)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`
	err = tx.QueryRowx(insert, msg.ConversationID, msg.ExternalMessageID, msg.SenderType,
		msg.Text, pq.Array(msg.MediaURLs), msg.Type, msg.Status, msg.Metadata).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return err
	}

	update := `UPDATE conversations SET
	             message_count = message_count + 1,
	             last_message_text = $1,
	             last_message_at = $2,
	             updated_at = now()
	           WHERE id = $3`
	if _, err := tx.Exec(update, msg.Text, msg.CreatedAt, msg.ConversationID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *messageRepository) HasExternal(conversationID int64, externalMessageID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM messages WHERE conversation_id = $1 AND external_message_id = $2)`
	err := r.db.Get(&exists, query, conversationID, externalMessageID)
	return exists, err
}

func (r *messageRepository) ListByConversation(conversationID int64, limit, offset int) ([]*models.Message, error) {
	messages := []*models.Message{}
	query := `SELECT id, conversation_id, external_message_id, sender_type, text, media_urls, type, status, metadata, created_at
	          FROM messages WHERE conversation_id = $1
	          ORDER BY created_at ASC
	          LIMIT $2 OFFSET $3`
	err := r.db.Select(&messages, query, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) UpdateStatus(messageID int64, status string) error {
	query := `UPDATE messages SET status = $1 WHERE id = $2`
	_, err := r.db.Exec(query, status, messageID)
	return err
}
