package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeAllocationReceived   Type = "allocation_received"
	TypeMaterialsDistributed Type = "materials_distributed"
	TypeEnrollmentChanged    Type = "enrollment_changed"
	TypeAnnouncement         Type = "announcement"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Notification has an independent lifecycle from the mutation that spawned
// it: failing to create one never invalidates the mutation.
type Notification struct {
	ID              uuid.UUID
	RecipientUserID uuid.UUID
	Type            Type
	Title           string
	Message         string
	Priority        Priority
	IsRead          bool
	Metadata        map[string]any
	CreatedAt       time.Time
}

func New(recipientUserID uuid.UUID, typ Type, title, message string, priority Priority, metadata map[string]any, at time.Time) Notification {
	return Notification{
		ID:              uuid.New(),
		RecipientUserID: recipientUserID,
		Type:            typ,
		Title:           title,
		Message:         message,
		Priority:        priority,
		Metadata:        metadata,
		CreatedAt:       at,
	}
}
