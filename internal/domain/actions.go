package domain

import "time"

// PendingAction is an operation recorded while offline, kept for
// replay once connectivity returns.
type PendingAction struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"index" json:"type"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// SyncedAction is a pending action that has been flushed.
type SyncedAction struct {
	ID       string    `gorm:"primaryKey" json:"id"`
	Type     string    `json:"type"`
	Summary  string    `json:"summary"`
	QueuedAt time.Time `json:"queued_at"`
	SyncedAt time.Time `json:"synced_at"`
}
