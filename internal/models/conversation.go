package models

import (
	"time"

	"github.com/lib/pq"
)

// Conversation statuses.
const (
	ConversationActive   = "ACTIVE"
	ConversationArchived = "ARCHIVED"
	ConversationBlocked  = "BLOCKED"
	ConversationPending  = "PENDING"
	ConversationResolved = "RESOLVED"
)

// Conversation aggregates the messages exchanged with one Instagram
// participant. message_count and last_message_* are denormalized caches
// maintained in the same transaction as every message insert.
type Conversation struct {
	ID                     int64          `db:"id" json:"id"`
	UserID                 int64          `db:"user_id" json:"user_id"`
	InstagramAccountID     string         `db:"instagram_account_id" json:"instagram_account_id"`
	ExternalConversationID string         `db:"external_conversation_id" json:"external_conversation_id"`
	ParticipantID          string         `db:"participant_id" json:"participant_id"`
	ParticipantUsername    string         `db:"participant_username" json:"participant_username"`
	ParticipantName        *string        `db:"participant_name" json:"participant_name,omitempty"`
	Status                 string         `db:"status" json:"status"`
	LastMessageText        *string        `db:"last_message_text" json:"last_message_text,omitempty"`
	LastMessageAt          *time.Time     `db:"last_message_at" json:"last_message_at,omitempty"`
	MessageCount           int64          `db:"message_count" json:"message_count"`
	IsAutomated            bool           `db:"is_automated" json:"is_automated"`
	Tags                   pq.StringArray `db:"tags" json:"tags"`
	Priority               int            `db:"priority" json:"priority"`
	CreatedAt              time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time      `db:"updated_at" json:"updated_at"`
}

// ValidConversationStatus reports whether s is one of the status enum values.
func ValidConversationStatus(s string) bool {
	switch s {
	case ConversationActive, ConversationArchived, ConversationBlocked,
		ConversationPending, ConversationResolved:
		return true
	}
	return false
}

// ConversationStats is the aggregate returned by GET /crystal/conversations/stats.
type ConversationStats struct {
	Total     int64            `json:"total"`
	Automated int64            `json:"automated"`
	Messages  int64            `json:"messages"`
	ByStatus  map[string]int64 `json:"by_status"`
}
