package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateProductRequest struct {
	Name       string `json:"name" binding:"required"`
	SKU        string `json:"sku" binding:"required"`
	Stock      int64  `json:"stock" binding:"gte=0"`
	PriceCents int64  `json:"price_cents" binding:"gte=0"`
	Category   string `json:"category,omitempty"`
}

type UpdateProductRequest struct {
	Name       string `json:"name" binding:"required"`
	SKU        string `json:"sku" binding:"required"`
	Stock      int64  `json:"stock" binding:"gte=0"`
	PriceCents int64  `json:"price_cents" binding:"gte=0"`
	Category   string `json:"category,omitempty"`
}

type CreateWorkshopRequest struct {
	Title       string    `json:"title" binding:"required"`
	Location    string    `json:"location,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

type RegisterAttendanceRequest struct {
	ParticipantID uuid.UUID `json:"participant_id" binding:"required"`
	Status        string    `json:"status" binding:"required"`
}

type CreateParticipantRequest struct {
	FullName string `json:"full_name" binding:"required"`
}

type CreateProgramRequest struct {
	Name string `json:"name" binding:"required"`
}

type EnrollRequest struct {
	ParticipantID uuid.UUID `json:"participant_id" binding:"required"`
}
