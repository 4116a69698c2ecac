package product

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidName   = errors.New("product name is required")
	ErrInvalidSKU    = errors.New("product sku is required")
	ErrNegativeStock = errors.New("product stock cannot be negative")
	ErrNegativePrice = errors.New("product price cannot be negative")
)

// Product is the canonical catalog entry. Its stock is the organization-level
// pool; allocation moves quantity out of it into a coordinator's balance.
// Distribution from a balance never touches it.
type Product struct {
	id        uuid.UUID
	name      string
	sku       string
	stock     int64
	priceCent int64
	category  string
}

func NewProduct(name, sku string, stock, priceCents int64, category string) (*Product, error) {
	name = strings.TrimSpace(name)
	sku = strings.TrimSpace(sku)
	if name == "" {
		return nil, ErrInvalidName
	}
	if sku == "" {
		return nil, ErrInvalidSKU
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}

	return &Product{
		id:        uuid.New(),
		name:      name,
		sku:       sku,
		stock:     stock,
		priceCent: priceCents,
		category:  category,
	}, nil
}

func ReconstructProduct(id uuid.UUID, name, sku string, stock, priceCents int64, category string) *Product {
	return &Product{
		id:        id,
		name:      name,
		sku:       sku,
		stock:     stock,
		priceCent: priceCents,
		category:  category,
	}
}

func (p *Product) ID() uuid.UUID     { return p.id }
func (p *Product) Name() string      { return p.name }
func (p *Product) SKU() string       { return p.sku }
func (p *Product) Stock() int64      { return p.stock }
func (p *Product) PriceCents() int64 { return p.priceCent }
func (p *Product) Category() string  { return p.category }

// CanAllocate reports whether qty units can leave the pool.
func (p *Product) CanAllocate(qty int64) bool {
	return qty > 0 && p.stock >= qty
}
