package models

import (
	"time"
)

// ActionStatus tracks a dispatched command through its lifecycle.
type ActionStatus string

const (
	StatusDispatched ActionStatus = "dispatched"
	StatusCompleted  ActionStatus = "completed"
	StatusFailed     ActionStatus = "failed"
)

// ActionEvent is the database record of one dispatched command.
type ActionEvent struct {
	ID         string `gorm:"primaryKey;column:id"`
	ActionName string `gorm:"column:action_name;not null;index"`

	// Payload is the dispatched command, stored as JSON
	Payload interface{} `gorm:"column:payload;type:jsonb"`

	Status ActionStatus `gorm:"column:status;type:action_status;not null"`
	Error  string       `gorm:"column:error"`

	DispatchedAt time.Time  `gorm:"column:dispatched_at;not null"`
	CompletedAt  *time.Time `gorm:"column:completed_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for GORM
func (ActionEvent) TableName() string {
	return "action_events"
}
