package response

import (
	"time"

	"relief-ledger/internal/domain/product"
	"relief-ledger/internal/usecase/queries"

	"github.com/google/uuid"
)

type ProductResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	Stock      int64     `json:"stock"`
	PriceCents int64     `json:"priceCents"`
	Category   string    `json:"category,omitempty"`
}

func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:         p.ID(),
		Name:       p.Name(),
		SKU:        p.SKU(),
		Stock:      p.Stock(),
		PriceCents: p.PriceCents(),
		Category:   p.Category(),
	}
}

type WorkshopResponse struct {
	ID            uuid.UUID               `json:"id"`
	Title         string                  `json:"title"`
	ConductorID   uuid.UUID               `json:"conductorId"`
	Location      string                  `json:"location,omitempty"`
	ScheduledAt   time.Time               `json:"scheduledAt"`
	MaterialsUsed []MaterialUsageResponse `json:"materialsUsed"`
}

type MaterialUsageResponse struct {
	ProductID     uuid.UUID   `json:"productId"`
	ProductName   string      `json:"productName"`
	Quantity      int64       `json:"quantity"`
	DistributedTo []uuid.UUID `json:"distributedTo"`
}

func FromWorkshopView(v *queries.WorkshopView) *WorkshopResponse {
	materials := make([]MaterialUsageResponse, len(v.MaterialsUsed))
	for i, m := range v.MaterialsUsed {
		materials[i] = MaterialUsageResponse{
			ProductID:     m.ProductID,
			ProductName:   m.ProductName,
			Quantity:      m.Quantity,
			DistributedTo: m.DistributedTo,
		}
	}
	return &WorkshopResponse{
		ID:            v.ID,
		Title:         v.Title,
		ConductorID:   v.ConductorID,
		Location:      v.Location,
		ScheduledAt:   v.ScheduledAt,
		MaterialsUsed: materials,
	}
}

type BalanceResponse struct {
	OwnerID           uuid.UUID `json:"ownerId"`
	ProductID         uuid.UUID `json:"productId"`
	ProductName       string    `json:"productName"`
	AllocatedQuantity int64     `json:"allocatedQuantity"`
	AvailableQuantity int64     `json:"availableQuantity"`
	LastUpdated       time.Time `json:"lastUpdated"`
}

func FromBalanceView(v queries.BalanceView) BalanceResponse {
	return BalanceResponse{
		OwnerID:           v.OwnerID,
		ProductID:         v.ProductID,
		ProductName:       v.ProductName,
		AllocatedQuantity: v.AllocatedQuantity,
		AvailableQuantity: v.AvailableQuantity,
		LastUpdated:       v.LastUpdated,
	}
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}
