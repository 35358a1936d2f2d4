package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	api "carshare-backend/internal/api/http"
	"carshare-backend/internal/domain"
	"carshare-backend/internal/security"
	"carshare-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockContractService struct {
	mock.Mock
}

func (m *MockContractService) CreateContract(ctx context.Context, clientID, carID int32, startDate, endDate string) (*domain.Contract, error) {
	args := m.Called(ctx, clientID, carID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}
func (m *MockContractService) ConfirmContract(ctx context.Context, contractID int32) (*domain.Contract, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}
func (m *MockContractService) CancelContract(ctx context.Context, clientID, contractID int32) (*domain.Contract, error) {
	args := m.Called(ctx, clientID, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}
func (m *MockContractService) CancelContractByAdmin(ctx context.Context, contractID int32) (*domain.Contract, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}
func (m *MockContractService) ConfirmCancellationByAdmin(ctx context.Context, contractID int32) (*domain.Contract, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}
func (m *MockContractService) UpdateContract(ctx context.Context, clientID, contractID int32, startDate, endDate string) (*domain.Contract, error) {
	args := m.Called(ctx, clientID, contractID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}
func (m *MockContractService) GetContract(ctx context.Context, contractID int32) (*domain.Contract, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}
func (m *MockContractService) ListClientContracts(ctx context.Context, clientID, page, pageSize int32) ([]domain.Contract, int32, error) {
	args := m.Called(ctx, clientID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Contract), args.Get(1).(int32), args.Error(2)
}
func (m *MockContractService) ListContracts(ctx context.Context, filter domain.ContractFilter, page, pageSize int32) ([]domain.Contract, int32, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Contract), args.Get(1).(int32), args.Error(2)
}

var _ service.ContractService = (*MockContractService)(nil)

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, clientID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, clientID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, clientID, notificationID int32) error {
	args := m.Called(ctx, clientID, notificationID)
	return args.Error(0)
}

const handlerTestSecret = "handler-test-secret-which-is-long-enough"

func testRouter(t *testing.T, svc service.ContractService) (http.Handler, security.TokenManager) {
	t.Helper()
	tokens := security.NewTokenManager(handlerTestSecret, 60)
	contracts := api.NewContractHandler(svc)
	notifications := api.NewNotificationHandler(new(MockNotificationService))
	return api.NewRouter(tokens, contracts, notifications), tokens
}

func bearer(t *testing.T, tokens security.TokenManager, clientID int32, role security.Role) string {
	t.Helper()
	token, err := tokens.GenerateAccessToken(clientID, "test@test.com", role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestContractHandler_Get(t *testing.T) {
	svc := new(MockContractService)
	router, tokens := testRouter(t, svc)

	contract := &domain.Contract{
		ID: 7, ClientID: 1, CarID: 2,
		StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		State:     domain.RentalStateConfirmed,
	}
	svc.On("GetContract", mock.Anything, int32(7)).Return(contract, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts/7", nil)
	req.Header.Set("Authorization", bearer(t, tokens, 1, security.RoleClient))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"CONFIRMED"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestContractHandler_AuthRequired(t *testing.T) {
	svc := new(MockContractService)
	router, _ := testRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestContractHandler_AdminOnlyEndpoints(t *testing.T) {
	svc := new(MockContractService)
	router, tokens := testRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/contracts/7/confirm", nil)
	req.Header.Set("Authorization", bearer(t, tokens, 1, security.RoleClient))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	svc.AssertNotCalled(t, "ConfirmContract")
}

func TestContractHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", fmt.Errorf("contract 7: %w", domain.ErrNotFound), http.StatusNotFound},
		{"unavailable", domain.ErrCarUnavailable, http.StatusConflict},
		{"illegal transition", &domain.StateTransitionError{From: domain.RentalStateActive, Event: domain.EventCancel}, http.StatusConflict},
		{"bad range", domain.ErrInvalidDateRange, http.StatusBadRequest},
		{"missing document", domain.ErrMissingDocument, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockContractService)
			router, tokens := testRouter(t, svc)
			svc.On("CreateContract", mock.Anything, int32(1), int32(2), "2026-09-10", "2026-09-14").Return(nil, tc.err)

			body := `{"car_id":2,"start_date":"2026-09-10","end_date":"2026-09-14"}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/contracts", strings.NewReader(body))
			req.Header.Set("Authorization", bearer(t, tokens, 1, security.RoleClient))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestContractHandler_AdminListFilters(t *testing.T) {
	svc := new(MockContractService)
	router, tokens := testRouter(t, svc)

	expected := domain.ContractFilter{State: domain.RentalStateCancelled, Brand: "Skoda", ClientID: 4}
	svc.On("ListContracts", mock.Anything, expected, int32(2), int32(10)).
		Return([]domain.Contract{}, int32(0), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/contracts?state=cancelled&brand=Skoda&client_id=4&page=2&page_size=10", nil)
	req.Header.Set("Authorization", bearer(t, tokens, 9, security.RoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
