package models

import (
	"time"

	"github.com/lib/pq"
)

// Message sender types.
const (
	SenderUser     = "USER"
	SenderBot      = "BOT"
	SenderExternal = "EXTERNAL"
)

// Message statuses.
const (
	MessageSent      = "SENT"
	MessageDelivered = "DELIVERED"
	MessageRead      = "READ"
	MessageFailed    = "FAILED"
	MessagePending   = "PENDING"
)

// Message is immutable once created except for status transitions.
type Message struct {
	ID                int64          `db:"id" json:"id"`
	ConversationID    int64          `db:"conversation_id" json:"conversation_id"`
	ExternalMessageID *string        `db:"external_message_id" json:"external_message_id,omitempty"`
	SenderType        string         `db:"sender_type" json:"sender_type"`
	Text              string         `db:"text" json:"text"`
	MediaURLs         pq.StringArray `db:"media_urls" json:"media_urls"`
	Type              string         `db:"type" json:"type"` // "text", "image", "video", "share"
	Status            string         `db:"status" json:"status"`
	Metadata          []byte         `db:"metadata" json:"-"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
}

// ValidMessageStatus reports whether s is one of the status enum values.
func ValidMessageStatus(s string) bool {
	switch s {
	case MessageSent, MessageDelivered, MessageRead, MessageFailed, MessagePending:
		return true
	}
	return false
}
