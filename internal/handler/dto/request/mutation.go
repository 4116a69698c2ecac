package request

import (
	"relief-ledger/internal/usecase/commands"

	"github.com/google/uuid"
)

type DistributeRequest struct {
	WorkshopID    uuid.UUID `json:"workshop_id" binding:"required"`
	ParticipantID uuid.UUID `json:"participant_id" binding:"required"`
	ProductID     uuid.UUID `json:"product_id" binding:"required"`
	Quantity      int64     `json:"quantity" binding:"required,gt=0"`
	Notes         string    `json:"notes,omitempty"`
}

func (r DistributeRequest) ToParams() commands.DistributeParams {
	return commands.DistributeParams{
		WorkshopID:    r.WorkshopID,
		ParticipantID: r.ParticipantID,
		ProductID:     r.ProductID,
		Quantity:      r.Quantity,
		Notes:         r.Notes,
	}
}

type BulkDistributeRequest struct {
	WorkshopID     uuid.UUID   `json:"workshop_id" binding:"required"`
	ProductID      uuid.UUID   `json:"product_id" binding:"required"`
	QuantityEach   int64       `json:"quantity_each" binding:"required,gt=0"`
	ParticipantIDs []uuid.UUID `json:"participant_ids,omitempty"`
	Notes          string      `json:"notes,omitempty"`
}

func (r BulkDistributeRequest) ToParams() commands.BulkDistributeParams {
	return commands.BulkDistributeParams{
		WorkshopID:     r.WorkshopID,
		ProductID:      r.ProductID,
		QuantityEach:   r.QuantityEach,
		ParticipantIDs: r.ParticipantIDs,
		Notes:          r.Notes,
	}
}

type AllocateRequest struct {
	OwnerID   uuid.UUID `json:"owner_id" binding:"required"`
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
	Notes     string    `json:"notes,omitempty"`
}

func (r AllocateRequest) ToParams() commands.AllocateParams {
	return commands.AllocateParams{
		OwnerID:   r.OwnerID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Notes:     r.Notes,
	}
}

type EnrollmentStatusRequest struct {
	NewStatus string `json:"new_status" binding:"required"`
}

type FanoutRequest struct {
	RecipientIDs []uuid.UUID    `json:"recipient_ids" binding:"required,min=1"`
	Type         string         `json:"type,omitempty"`
	Title        string         `json:"title" binding:"required"`
	Message      string         `json:"message" binding:"required"`
	Priority     string         `json:"priority,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

func (r FanoutRequest) ToParams() commands.FanoutParams {
	return commands.FanoutParams{
		RecipientIDs: r.RecipientIDs,
		Type:         r.Type,
		Title:        r.Title,
		Message:      r.Message,
		Priority:     r.Priority,
		Metadata:     r.Metadata,
	}
}
