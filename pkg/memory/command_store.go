// Package memory persists the agent's dispatched commands so operators can
// audit what the robot did and why an action failed.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/novabotics/agent-go/pkg/db/models"
)

// CommandStore records dispatched commands in Postgres.
type CommandStore struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewCommandStore creates a CommandStore over an established connection.
func NewCommandStore(db *gorm.DB, logger *logrus.Logger) (*CommandStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &CommandStore{db: db, logger: logger}, nil
}

// RecordDispatch inserts a new event for a dispatched command.
func (s *CommandStore) RecordDispatch(ctx context.Context, actionName string, payload any) (*models.ActionEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	event := &models.ActionEvent{
		ID:           uuid.New().String(),
		ActionName:   actionName,
		Payload:      string(raw),
		Status:       models.StatusDispatched,
		DispatchedAt: time.Now(),
	}

	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to record dispatch: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"command_id": event.ID,
		"action":     actionName,
	}).Debug("Dispatch recorded")

	return event, nil
}

// MarkCompleted marks an event as completed.
func (s *CommandStore) MarkCompleted(ctx context.Context, id string) error {
	now := time.Now()
	result := s.db.WithContext(ctx).Model(&models.ActionEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       models.StatusCompleted,
			"completed_at": &now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark command completed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("command %s not found", id)
	}
	return nil
}

// MarkFailed marks an event as failed, keeping the cause.
func (s *CommandStore) MarkFailed(ctx context.Context, id string, cause error) error {
	now := time.Now()
	result := s.db.WithContext(ctx).Model(&models.ActionEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       models.StatusFailed,
			"error":        cause.Error(),
			"completed_at": &now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark command failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("command %s not found", id)
	}
	return nil
}

// RecentEvents returns the most recently dispatched events, newest first.
func (s *CommandStore) RecentEvents(ctx context.Context, limit int) ([]models.ActionEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	var events []models.ActionEvent
	err := s.db.WithContext(ctx).
		Order("dispatched_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent events: %w", err)
	}

	return events, nil
}
