// Package program models long-running aid programs and the enrollment
// lifecycle of their participants. Programs carry two denormalized counters,
// enrolledParticipants and completedParticipants, adjusted by delta relative
// to the previous stored status - never recomputed or reapplied idempotently.
package program

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus = errors.New("invalid enrollment status")
	ErrSameStatus    = errors.New("participant already has this status")
)

type EnrollmentStatus string

const (
	StatusEnrolled    EnrollmentStatus = "enrolled"
	StatusActive      EnrollmentStatus = "active"
	StatusCompleted   EnrollmentStatus = "completed"
	StatusDroppedOut  EnrollmentStatus = "dropped-out"
	StatusTransferred EnrollmentStatus = "transferred"
)

func NewEnrollmentStatus(s string) (EnrollmentStatus, error) {
	switch EnrollmentStatus(s) {
	case StatusEnrolled, StatusActive, StatusCompleted, StatusDroppedOut, StatusTransferred:
		return EnrollmentStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s EnrollmentStatus) isEnrolledLike() bool {
	return s == StatusEnrolled || s == StatusActive
}

func (s EnrollmentStatus) isExitStatus() bool {
	return s == StatusDroppedOut || s == StatusTransferred
}

// CounterDelta is the adjustment a status change applies to a program's
// denormalized counters.
type CounterDelta struct {
	Enrolled  int32
	Completed int32
}

func (d CounterDelta) IsZero() bool {
	return d.Enrolled == 0 && d.Completed == 0
}

// TransitionDelta computes the counter adjustment for moving a participant
// from prev to next. Rules:
//   - out of {enrolled, active} into {dropped-out, transferred}: enrolled -1
//   - into completed from any non-completed status: completed +1
//   - out of completed: completed -1
//   - every other transition leaves the counters untouched
func TransitionDelta(prev, next EnrollmentStatus) CounterDelta {
	var d CounterDelta

	if prev.isEnrolledLike() && next.isExitStatus() {
		d.Enrolled--
	}

	if next == StatusCompleted && prev != StatusCompleted {
		d.Completed++
	}
	if prev == StatusCompleted && next != StatusCompleted {
		d.Completed--
	}

	return d
}

type Program struct {
	ID                    uuid.UUID
	Name                  string
	CoordinatorID         uuid.UUID
	EnrolledParticipants  int32
	CompletedParticipants int32
}

type Enrollment struct {
	ProgramID     uuid.UUID
	ParticipantID uuid.UUID
	Status        EnrollmentStatus
}
