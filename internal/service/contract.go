package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/logger"
	"carshare-backend/internal/repository"
	"carshare-backend/internal/utils"
)

const dateLayout = "2006-01-02"

type contractService struct {
	contractRepo repository.ContractRepository
	clientRepo   repository.ClientRepository
	carRepo      repository.CarRepository
	docRepo      repository.DocumentRepository
	noteRepo     repository.NotificationRepository
	emailSvc     EmailService
	availability *AvailabilityChecker
	graceDays    int
	now          func() time.Time
}

func NewContractService(
	contractRepo repository.ContractRepository,
	clientRepo repository.ClientRepository,
	carRepo repository.CarRepository,
	docRepo repository.DocumentRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	graceDays int,
) ContractService {
	return &contractService{
		contractRepo: contractRepo,
		clientRepo:   clientRepo,
		carRepo:      carRepo,
		docRepo:      docRepo,
		noteRepo:     noteRepo,
		emailSvc:     emailSvc,
		availability: NewAvailabilityChecker(contractRepo),
		graceDays:    graceDays,
		now:          time.Now,
	}
}

func (s *contractService) today() time.Time {
	return utils.DateOnly(s.now())
}

func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", startStr, err)
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", endStr, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	return start, end, nil
}

func (s *contractService) CreateContract(ctx context.Context, clientID, carID int32, startDate, endDate string) (*domain.Contract, error) {
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	if start.Before(s.today()) {
		return nil, domain.ErrStartDateInPast
	}

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetActiveByClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrMissingDocument
		}
		return nil, err
	}
	if !doc.Verified {
		return nil, domain.ErrUnverifiedDocument
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	available, err := s.availability.IsCarAvailable(ctx, carID, start, end, 0)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domain.ErrCarUnavailable
	}

	cost, err := utils.CalculateRentalCost(car, start, end)
	if err != nil {
		return nil, err
	}

	contract := &domain.Contract{
		ClientID:       clientID,
		CarID:          carID,
		StartDate:      utils.DateOnly(start),
		EndDate:        utils.DateOnly(end),
		State:          domain.RentalStatePending,
		TotalCostCents: cost,
	}
	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, err
	}

	_ = s.emailSvc.SendContractCreated(ctx, client.Email, client.Name, contract)
	s.notify(ctx, clientID, "Contract Created",
		fmt.Sprintf("Your rental contract for car %d from %s to %s was created", carID, startDate, endDate),
		"CONTRACT_CREATED", contract.ID)

	return contract, nil
}

func (s *contractService) ConfirmContract(ctx context.Context, contractID int32) (*domain.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	next, err := contract.State.Apply(domain.EventConfirm)
	if err != nil {
		return nil, err
	}
	if err := s.contractRepo.UpdateState(ctx, contractID, contract.State, next); err != nil {
		return nil, err
	}
	contract.State = next

	if client, err := s.clientRepo.GetByID(ctx, contract.ClientID); err == nil {
		_ = s.emailSvc.SendContractConfirmed(ctx, client.Email, client.Name, contract)
	}
	s.notify(ctx, contract.ClientID, "Contract Confirmed",
		fmt.Sprintf("Your rental contract %d was confirmed", contractID),
		"CONTRACT_CONFIRMED", contractID)

	return contract, nil
}

func (s *contractService) CancelContract(ctx context.Context, clientID, contractID int32) (*domain.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.ClientID != clientID {
		return nil, domain.ErrUnauthorized
	}
	return s.cancel(ctx, contract, InitiatorClient)
}

func (s *contractService) CancelContractByAdmin(ctx context.Context, contractID int32) (*domain.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, contract, InitiatorAdmin)
}

func (s *contractService) cancel(ctx context.Context, contract *domain.Contract, initiator CancellationInitiator) (*domain.Contract, error) {
	outcome, event, err := DecideCancellation(contract, initiator, s.today(), s.graceDays)
	if err != nil {
		return nil, err
	}
	if outcome == OutcomeNoChange {
		// Already cancelled: idempotent, no write.
		return contract, nil
	}

	next, err := contract.State.Apply(event)
	if err != nil {
		return nil, err
	}
	if next == contract.State {
		// Repeated cancellation request inside the grace period.
		return contract, nil
	}
	if err := s.contractRepo.UpdateState(ctx, contract.ID, contract.State, next); err != nil {
		return nil, err
	}
	contract.State = next

	client, clientErr := s.clientRepo.GetByID(ctx, contract.ClientID)
	switch outcome {
	case OutcomeCancelled:
		if clientErr == nil {
			_ = s.emailSvc.SendContractCancelled(ctx, client.Email, client.Name, contract)
		}
		s.notify(ctx, contract.ClientID, "Contract Cancelled",
			fmt.Sprintf("Rental contract %d was cancelled", contract.ID),
			"CONTRACT_CANCELLED", contract.ID)
	case OutcomeCancellationRequested:
		if clientErr == nil {
			_ = s.emailSvc.SendCancellationRequested(ctx, client.Email, client.Name, contract)
		}
		s.notify(ctx, contract.ClientID, "Cancellation Requested",
			fmt.Sprintf("Cancellation of contract %d is pending admin confirmation", contract.ID),
			"CANCELLATION_REQUESTED", contract.ID)
	}

	return contract, nil
}

func (s *contractService) ConfirmCancellationByAdmin(ctx context.Context, contractID int32) (*domain.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	next, err := contract.State.Apply(domain.EventConfirmCancellation)
	if err != nil {
		return nil, err
	}
	if err := s.contractRepo.UpdateState(ctx, contractID, contract.State, next); err != nil {
		return nil, err
	}
	contract.State = next

	if client, err := s.clientRepo.GetByID(ctx, contract.ClientID); err == nil {
		_ = s.emailSvc.SendContractCancelled(ctx, client.Email, client.Name, contract)
	}
	s.notify(ctx, contract.ClientID, "Contract Cancelled",
		fmt.Sprintf("Cancellation of contract %d was confirmed", contractID),
		"CONTRACT_CANCELLED", contractID)

	return contract, nil
}

func (s *contractService) UpdateContract(ctx context.Context, clientID, contractID int32, startDate, endDate string) (*domain.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.ClientID != clientID {
		return nil, domain.ErrUnauthorized
	}
	if _, err := contract.State.Apply(domain.EventReschedule); err != nil {
		return nil, err
	}

	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	if start.Before(s.today()) {
		return nil, domain.ErrStartDateInPast
	}

	available, err := s.availability.IsCarAvailable(ctx, contract.CarID, start, end, contractID)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domain.ErrCarUnavailable
	}

	car, err := s.carRepo.GetByID(ctx, contract.CarID)
	if err != nil {
		return nil, err
	}
	cost, err := utils.CalculateRentalCost(car, start, end)
	if err != nil {
		return nil, err
	}

	contract.StartDate = utils.DateOnly(start)
	contract.EndDate = utils.DateOnly(end)
	contract.TotalCostCents = cost
	if err := s.contractRepo.UpdateDates(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

func (s *contractService) GetContract(ctx context.Context, contractID int32) (*domain.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	s.reconcileActivation(ctx, contract)
	return contract, nil
}

func (s *contractService) ListClientContracts(ctx context.Context, clientID, page, pageSize int32) ([]domain.Contract, int32, error) {
	contracts, count, err := s.contractRepo.ListByClient(ctx, clientID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	for i := range contracts {
		s.reconcileActivation(ctx, &contracts[i])
	}
	return contracts, count, nil
}

func (s *contractService) ListContracts(ctx context.Context, filter domain.ContractFilter, page, pageSize int32) ([]domain.Contract, int32, error) {
	contracts, count, err := s.contractRepo.ListByFilter(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	for i := range contracts {
		s.reconcileActivation(ctx, &contracts[i])
	}
	return contracts, count, nil
}

// reconcileActivation promotes a CONFIRMED contract to ACTIVE once its start
// date has arrived. It is the one write triggered by a read path; keeping it
// behind this named step lets the read contract survive a move to a purely
// scheduled sweep. Losing the guarded update race means another writer
// already transitioned the contract, so the fresh row is taken instead.
func (s *contractService) reconcileActivation(ctx context.Context, contract *domain.Contract) {
	if contract.State != domain.RentalStateConfirmed || contract.StartDate.After(s.today()) {
		return
	}
	next, err := contract.State.Apply(domain.EventActivate)
	if err != nil {
		return
	}
	if err := s.contractRepo.UpdateState(ctx, contract.ID, contract.State, next); err != nil {
		logger.Warn("Lazy activation lost update race", "contract_id", contract.ID, "error", err)
		if fresh, ferr := s.contractRepo.GetByID(ctx, contract.ID); ferr == nil {
			*contract = *fresh
		}
		return
	}
	contract.State = next
}

func (s *contractService) notify(ctx context.Context, clientID int32, title, message, noteType string, contractID int32) {
	note := &domain.Notification{
		ClientID: clientID,
		Title:    title,
		Message:  message,
		Attributes: map[string]string{
			"type":        noteType,
			"contract_id": fmt.Sprintf("%d", contractID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to store notification", "client_id", clientID, "type", noteType, "error", err)
	}
}
