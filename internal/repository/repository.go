package repository

import (
	"context"
	"time"

	"carshare-backend/internal/domain"
)

type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id int32) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
}

type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	GetByID(ctx context.Context, id int32) (*domain.Car, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	// GetActiveByClient returns the client's active document, or a wrapped
	// domain.ErrNotFound when the client has none on file.
	GetActiveByClient(ctx context.Context, clientID int32) (*domain.Document, error)
}

type ContractRepository interface {
	// Create persists a new contract and assigns its ID. The insert and the
	// overlap re-check run in one transaction; a conflicting booking that
	// appeared since the caller's availability check surfaces as
	// domain.ErrCarUnavailable.
	Create(ctx context.Context, contract *domain.Contract) error
	GetByID(ctx context.Context, id int32) (*domain.Contract, error)
	// UpdateState persists a state transition guarded by the expected
	// previous state, so two concurrent transitions cannot both apply.
	UpdateState(ctx context.Context, id int32, from, to domain.RentalState) error
	// UpdateDates rewrites the date range and recomputed cost, re-checking
	// the overlap predicate in the same transaction as Create does.
	UpdateDates(ctx context.Context, contract *domain.Contract) error
	// FindOverlapping returns non-cancelled contracts for carID whose
	// inclusive range overlaps [start, end]. excludeID > 0 excludes the
	// contract's own row when re-checking an update.
	FindOverlapping(ctx context.Context, carID int32, start, end time.Time, excludeID int32) ([]domain.Contract, error)
	ListByClient(ctx context.Context, clientID int32, page, pageSize int32) ([]domain.Contract, int32, error)
	ListByFilter(ctx context.Context, filter domain.ContractFilter, page, pageSize int32) ([]domain.Contract, int32, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, clientID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, clientID int32) error
}
