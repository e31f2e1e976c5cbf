package models

import "time"

// AdminAction is an append-only audit record. Never mutated after creation.
type AdminAction struct {
	ID        int64     `db:"id" json:"id"`
	AdminID   int64     `db:"admin_id" json:"admin_id"`
	Action    string    `db:"action" json:"action"`
	TargetID  *int64    `db:"target_id" json:"target_id,omitempty"`
	Details   string    `db:"details" json:"details"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PlatformSetting is one key/value row of the platform configuration.
type PlatformSetting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedBy *int64    `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SystemMetrics is the snapshot returned by GET /nexus/admin/metrics.
type SystemMetrics struct {
	Users         int64 `db:"users" json:"users"`
	Teams         int64 `db:"teams" json:"teams"`
	Automations   int64 `db:"automations" json:"automations"`
	Conversations int64 `db:"conversations" json:"conversations"`
	Messages      int64 `db:"messages" json:"messages"`
	Products      int64 `db:"products" json:"products"`
	TriggersTotal int64 `db:"triggers_total" json:"triggers_total"`
}
