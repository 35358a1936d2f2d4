package service

import (
	"context"

	"carshare-backend/internal/domain"
)

// ContractService owns the rental contract lifecycle: creation, the
// confirmation and cancellation transitions, date updates and the read paths
// that reconcile due activations.
type ContractService interface {
	CreateContract(ctx context.Context, clientID, carID int32, startDate, endDate string) (*domain.Contract, error)
	ConfirmContract(ctx context.Context, contractID int32) (*domain.Contract, error)
	CancelContract(ctx context.Context, clientID, contractID int32) (*domain.Contract, error)
	CancelContractByAdmin(ctx context.Context, contractID int32) (*domain.Contract, error)
	ConfirmCancellationByAdmin(ctx context.Context, contractID int32) (*domain.Contract, error)
	UpdateContract(ctx context.Context, clientID, contractID int32, startDate, endDate string) (*domain.Contract, error)
	GetContract(ctx context.Context, contractID int32) (*domain.Contract, error)
	ListClientContracts(ctx context.Context, clientID, page, pageSize int32) ([]domain.Contract, int32, error)
	ListContracts(ctx context.Context, filter domain.ContractFilter, page, pageSize int32) ([]domain.Contract, int32, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, clientID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, clientID, notificationID int32) error
}

type EmailService interface {
	SendContractCreated(ctx context.Context, email, name string, contract *domain.Contract) error
	SendContractConfirmed(ctx context.Context, email, name string, contract *domain.Contract) error
	SendContractCancelled(ctx context.Context, email, name string, contract *domain.Contract) error
	SendCancellationRequested(ctx context.Context, email, name string, contract *domain.Contract) error
	SendPickupReminder(ctx context.Context, email, name string, contract *domain.Contract) error
}
