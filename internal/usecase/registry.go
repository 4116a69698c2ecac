package usecase

import (
	"context"
	"errors"
	"time"

	"relief-ledger/internal/domain/product"
	"relief-ledger/internal/domain/user"
	"relief-ledger/internal/domain/workshop"
	"relief-ledger/internal/infra"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrDuplicateSKU      = errors.New("sku already exists")
	ErrProductReferenced = errors.New("product is referenced by workshop usage")
	ErrAlreadyEnrolled   = errors.New("participant already enrolled")
	ErrUnknownTarget     = errors.New("program or participant not found")
	ErrRegistryForbidden = errors.New("insufficient permissions for registry change")
)

type ProductStore interface {
	Create(ctx context.Context, p *product.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
	FindBySKU(ctx context.Context, sku string) (*product.Product, error)
	List(ctx context.Context) ([]*product.Product, error)
	Update(ctx context.Context, p *product.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type WorkshopStore interface {
	Create(ctx context.Context, w *workshop.Workshop) error
	RegisterAttendance(ctx context.Context, workshopID, participantID uuid.UUID, status workshop.AttendanceStatus) error
}

type ParticipantStore interface {
	Create(ctx context.Context, fullName string) (uuid.UUID, error)
}

type ProgramStore interface {
	Create(ctx context.Context, name string, coordinatorID uuid.UUID) (uuid.UUID, error)
	Enroll(ctx context.Context, programID, participantID uuid.UUID) error
}

// RegistryUseCase manages the reference data the mutation engine operates on:
// the product catalog, workshops and their attendance, participants, and
// programs. These are plain inserts and updates; quantity movements never
// happen here.
type RegistryUseCase interface {
	CreateProduct(ctx context.Context, principal user.Principal, name, sku string, stock, priceCents int64, category string) (*product.Product, error)
	UpdateProduct(ctx context.Context, principal user.Principal, p *product.Product) error
	DeleteProduct(ctx context.Context, principal user.Principal, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*product.Product, error)
	ListProducts(ctx context.Context) ([]*product.Product, error)

	CreateWorkshop(ctx context.Context, principal user.Principal, title, location string, scheduledAt time.Time) (*workshop.Workshop, error)
	RegisterAttendance(ctx context.Context, principal user.Principal, workshopID, participantID uuid.UUID, status workshop.AttendanceStatus) error

	CreateParticipant(ctx context.Context, principal user.Principal, fullName string) (uuid.UUID, error)
	CreateProgram(ctx context.Context, principal user.Principal, name string) (uuid.UUID, error)
	EnrollParticipant(ctx context.Context, principal user.Principal, programID, participantID uuid.UUID) error
}

type registryUseCaseImpl struct {
	products     ProductStore
	workshops    WorkshopStore
	participants ParticipantStore
	programs     ProgramStore
}

func NewRegistryUseCase(products ProductStore, workshops WorkshopStore, participants ParticipantStore, programs ProgramStore) RegistryUseCase {
	return &registryUseCaseImpl{
		products:     products,
		workshops:    workshops,
		participants: participants,
		programs:     programs,
	}
}

func (r *registryUseCaseImpl) CreateProduct(ctx context.Context, principal user.Principal, name, sku string, stock, priceCents int64, category string) (*product.Product, error) {
	if !principal.IsAdmin() {
		return nil, ErrRegistryForbidden
	}

	p, err := product.NewProduct(name, sku, stock, priceCents, category)
	if err != nil {
		return nil, err
	}

	if err := r.products.Create(ctx, p); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrDuplicateSKU
		}
		return nil, err
	}
	return p, nil
}

func (r *registryUseCaseImpl) UpdateProduct(ctx context.Context, principal user.Principal, p *product.Product) error {
	if !principal.IsAdmin() {
		return ErrRegistryForbidden
	}

	if err := r.products.Update(ctx, p); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrProductNotFound
		}
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return ErrDuplicateSKU
		}
		return err
	}
	return nil
}

func (r *registryUseCaseImpl) DeleteProduct(ctx context.Context, principal user.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrRegistryForbidden
	}

	if err := r.products.Delete(ctx, id); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrProductNotFound
		}
		if infra.IsKind(err, infra.KindConflict) {
			return ErrProductReferenced
		}
		return err
	}
	return nil
}

func (r *registryUseCaseImpl) GetProduct(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	p, err := r.products.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *registryUseCaseImpl) ListProducts(ctx context.Context) ([]*product.Product, error) {
	return r.products.List(ctx)
}

func (r *registryUseCaseImpl) CreateWorkshop(ctx context.Context, principal user.Principal, title, location string, scheduledAt time.Time) (*workshop.Workshop, error) {
	if principal.Role == user.RoleViewer {
		return nil, ErrRegistryForbidden
	}

	// The creator becomes the conductor and the owner of the workshop's
	// distributions.
	w, err := workshop.NewWorkshop(title, principal.ID, location, scheduledAt)
	if err != nil {
		return nil, err
	}

	if err := r.workshops.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *registryUseCaseImpl) RegisterAttendance(ctx context.Context, principal user.Principal, workshopID, participantID uuid.UUID, status workshop.AttendanceStatus) error {
	if principal.Role == user.RoleViewer {
		return ErrRegistryForbidden
	}

	if err := r.workshops.RegisterAttendance(ctx, workshopID, participantID, status); err != nil {
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return ErrUnknownTarget
		}
		return err
	}
	return nil
}

func (r *registryUseCaseImpl) CreateParticipant(ctx context.Context, principal user.Principal, fullName string) (uuid.UUID, error) {
	if principal.Role == user.RoleViewer {
		return uuid.Nil, ErrRegistryForbidden
	}
	return r.participants.Create(ctx, fullName)
}

func (r *registryUseCaseImpl) CreateProgram(ctx context.Context, principal user.Principal, name string) (uuid.UUID, error) {
	if principal.Role == user.RoleViewer {
		return uuid.Nil, ErrRegistryForbidden
	}
	return r.programs.Create(ctx, name, principal.ID)
}

func (r *registryUseCaseImpl) EnrollParticipant(ctx context.Context, principal user.Principal, programID, participantID uuid.UUID) error {
	if principal.Role == user.RoleViewer {
		return ErrRegistryForbidden
	}

	if err := r.programs.Enroll(ctx, programID, participantID); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return ErrAlreadyEnrolled
		}
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return ErrUnknownTarget
		}
		return err
	}
	return nil
}
