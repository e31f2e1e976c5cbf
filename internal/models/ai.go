package models

import "time"

// AIConversation is one thread of the AI assistant surface, parallel to but
// separate from Instagram conversations.
type AIConversation struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AIMessage is one ordered message inside an AIConversation.
type AIMessage struct {
	ID             int64     `db:"id" json:"id"`
	ConversationID int64     `db:"conversation_id" json:"conversation_id"`
	Role           string    `db:"role" json:"role"` // "user" or "assistant"
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// AITrainingData is a user-supplied Q/A pair fed into the reply prompt.
type AITrainingData struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Question  string    `db:"question" json:"question"`
	Answer    string    `db:"answer" json:"answer"`
	Category  *string   `db:"category" json:"category,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AIResponse logs one generate call with its token/latency metrics. Rows are
// append-only and feed the performance endpoint.
type AIResponse struct {
	ID               int64     `db:"id" json:"id"`
	UserID           int64     `db:"user_id" json:"user_id"`
	Prompt           string    `db:"prompt" json:"prompt"`
	Response         string    `db:"response" json:"response"`
	Model            string    `db:"model" json:"model"`
	PromptTokens     int       `db:"prompt_tokens" json:"prompt_tokens"`
	CompletionTokens int       `db:"completion_tokens" json:"completion_tokens"`
	LatencyMs        int64     `db:"latency_ms" json:"latency_ms"`
	Fallback         bool      `db:"fallback" json:"fallback"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// AIPerformance is the aggregate returned by GET /crystal/ai/performance.
type AIPerformance struct {
	TotalResponses   int64   `db:"total_responses" json:"total_responses"`
	FallbackCount    int64   `db:"fallback_count" json:"fallback_count"`
	AvgLatencyMs     float64 `db:"avg_latency_ms" json:"avg_latency_ms"`
	PromptTokens     int64   `db:"prompt_tokens" json:"prompt_tokens"`
	CompletionTokens int64   `db:"completion_tokens" json:"completion_tokens"`
}
