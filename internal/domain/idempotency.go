// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// Idempotency represents a recorded result of a previously processed sync
// trigger, keyed by (user_id, source_url, key). It enables safe retries for
// POST /items/sync by letting the transport detect a replay instead of
// re-running the ingestion pipeline.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID    string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_source_key,priority:1"`
	SourceURL string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_source_key,priority:2"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_source_key,priority:3"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	Summary   string    `gorm:"type:TEXT NOT NULL"` // serialized run summary, replayed verbatim
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
