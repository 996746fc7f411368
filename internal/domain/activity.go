package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog records a user or system action, appended by post-commit event
// handlers.
type ActivityLog struct {
	ID         string
	EntityType string
	EntityID   string
	Action     string
	UserID     string
	UserEmail  string
	Details    string
	Timestamp  time.Time
}

func NewActivityLog(entityType, entityID, action string) *ActivityLog {
	return &ActivityLog{
		ID:         uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Timestamp:  time.Now().UTC(),
	}
}
