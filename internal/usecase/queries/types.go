package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type UserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}

type BalanceView struct {
	OwnerID           uuid.UUID `json:"owner_id"`
	ProductID         uuid.UUID `json:"product_id"`
	ProductName       string    `json:"product_name"`
	AllocatedQuantity int64     `json:"allocated_quantity"`
	AvailableQuantity int64     `json:"available_quantity"`
	LastUpdated       time.Time `json:"last_updated"`
}

type MaterialUsageView struct {
	ProductID     uuid.UUID   `json:"product_id"`
	ProductName   string      `json:"product_name"`
	Quantity      int64       `json:"quantity"`
	DistributedTo []uuid.UUID `json:"distributed_to"`
}

type WorkshopView struct {
	ID            uuid.UUID           `json:"id"`
	Title         string              `json:"title"`
	ConductorID   uuid.UUID           `json:"conductor_id"`
	Location      string              `json:"location"`
	ScheduledAt   time.Time           `json:"scheduled_at"`
	MaterialsUsed []MaterialUsageView `json:"materials_used"`
}

// ProductTotal is one row of the ledger report grouped by product.
type ProductTotal struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Distributed  int64     `json:"distributed"`
	Allocated    int64     `json:"allocated"`
	EntryCount   int64     `json:"entry_count"`
	LastRecorded time.Time `json:"last_recorded"`
}

// RecipientTotal is one row of the ledger report grouped by recipient.
type RecipientTotal struct {
	RecipientID  uuid.UUID `json:"recipient_id"`
	Quantity     int64     `json:"quantity"`
	EntryCount   int64     `json:"entry_count"`
	LastRecorded time.Time `json:"last_recorded"`
}

type NotificationView struct {
	ID        uuid.UUID      `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Priority  string         `json:"priority"`
	IsRead    bool           `json:"is_read"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
