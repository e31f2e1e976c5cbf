package models

import (
	"time"

	"github.com/lib/pq"
)

// Automation binds a keyword trigger to a reply template for one user's
// Instagram inbox. Counters are bumped atomically by the DM worker.
type Automation struct {
	ID            int64          `db:"id" json:"id"`
	UserID        int64          `db:"user_id" json:"user_id"`
	Name          string         `db:"name" json:"name"`
	Trigger       string         `db:"trigger" json:"trigger"`
	Response      string         `db:"response" json:"response"`
	UseAI         bool           `db:"use_ai" json:"use_ai"`
	Priority      int            `db:"priority" json:"priority"`
	Tags          pq.StringArray `db:"tags" json:"tags"`
	Active        bool           `db:"active" json:"active"`
	TotalTriggers int64          `db:"total_triggers" json:"total_triggers"`
	SuccessCount  int64          `db:"success_count" json:"success_count"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// SuccessRate is derived, never stored.
func (a *Automation) SuccessRate() float64 {
	if a.TotalTriggers == 0 {
		return 0
	}
	return float64(a.SuccessCount) / float64(a.TotalTriggers)
}
