package workshop

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTitle            = errors.New("workshop title is required")
	ErrNoConductor             = errors.New("workshop conductor is required")
	ErrInvalidAttendanceStatus = errors.New("invalid attendance status")
)

// AttendanceStatus is the recorded presence of a participant at a workshop.
// Only present-ish statuses make a participant eligible to receive materials.
type AttendanceStatus string

const (
	AttendanceRegistered AttendanceStatus = "registered"
	AttendanceAttended   AttendanceStatus = "attended"
	AttendanceLate       AttendanceStatus = "late"
	AttendanceLeftEarly  AttendanceStatus = "left-early"
	AttendanceAbsent     AttendanceStatus = "absent"
)

func NewAttendanceStatus(s string) (AttendanceStatus, error) {
	switch AttendanceStatus(s) {
	case AttendanceRegistered, AttendanceAttended, AttendanceLate, AttendanceLeftEarly, AttendanceAbsent:
		return AttendanceStatus(s), nil
	default:
		return "", ErrInvalidAttendanceStatus
	}
}

// Eligible reports whether this attendance status qualifies for material
// distribution.
func (s AttendanceStatus) Eligible() bool {
	switch s {
	case AttendanceAttended, AttendanceLate, AttendanceLeftEarly:
		return true
	default:
		return false
	}
}

type Attendance struct {
	ParticipantID uuid.UUID
	Status        AttendanceStatus
}

// Workshop is an aggregate target: it accumulates denormalized material usage
// totals and back-references to the participants who received them.
type Workshop struct {
	id            uuid.UUID
	title         string
	conductorID   uuid.UUID
	location      string
	scheduledAt   time.Time
	materialsUsed []MaterialUsage
}

func NewWorkshop(title string, conductorID uuid.UUID, location string, scheduledAt time.Time) (*Workshop, error) {
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if conductorID == uuid.Nil {
		return nil, ErrNoConductor
	}
	return &Workshop{
		id:          uuid.New(),
		title:       title,
		conductorID: conductorID,
		location:    location,
		scheduledAt: scheduledAt,
	}, nil
}

func ReconstructWorkshop(id uuid.UUID, title string, conductorID uuid.UUID, location string, scheduledAt time.Time, materialsUsed []MaterialUsage) *Workshop {
	return &Workshop{
		id:            id,
		title:         title,
		conductorID:   conductorID,
		location:      location,
		scheduledAt:   scheduledAt,
		materialsUsed: materialsUsed,
	}
}

func (w *Workshop) ID() uuid.UUID                  { return w.id }
func (w *Workshop) Title() string                  { return w.title }
func (w *Workshop) ConductorID() uuid.UUID         { return w.conductorID }
func (w *Workshop) Location() string               { return w.location }
func (w *Workshop) ScheduledAt() time.Time         { return w.scheduledAt }
func (w *Workshop) MaterialsUsed() []MaterialUsage { return w.materialsUsed }

// RecordUsage applies the find-or-append upsert to the workshop's copy of
// materialsUsed and returns the updated slice.
func (w *Workshop) RecordUsage(productID uuid.UUID, productName string, qty int64, recipientIDs []uuid.UUID) []MaterialUsage {
	w.materialsUsed = UpsertUsage(w.materialsUsed, productID, productName, qty, recipientIDs)
	return w.materialsUsed
}
