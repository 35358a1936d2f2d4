package http

import (
	"net/http"

	"carshare-backend/internal/security"

	"github.com/gorilla/mux"
)

// NewRouter builds the API router. Client endpoints require an authenticated
// caller; admin endpoints additionally require the admin role.
func NewRouter(tokens security.TokenManager, contracts *ContractHandler, notifications *NotificationHandler) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	// Client-facing contract endpoints
	api.HandleFunc("/contracts", contracts.Create).Methods(http.MethodPost)
	api.HandleFunc("/contracts/mine", contracts.ListMine).Methods(http.MethodGet)
	api.HandleFunc("/contracts/{id:[0-9]+}", contracts.Get).Methods(http.MethodGet)
	api.HandleFunc("/contracts/{id:[0-9]+}", contracts.Update).Methods(http.MethodPut)
	api.HandleFunc("/contracts/{id:[0-9]+}/cancel", contracts.Cancel).Methods(http.MethodPost)

	// Admin contract endpoints
	api.HandleFunc("/admin/contracts", RequireAdmin(contracts.ListAll)).Methods(http.MethodGet)
	api.HandleFunc("/admin/contracts/{id:[0-9]+}/confirm", RequireAdmin(contracts.Confirm)).Methods(http.MethodPost)
	api.HandleFunc("/admin/contracts/{id:[0-9]+}/cancel", RequireAdmin(contracts.CancelByAdmin)).Methods(http.MethodPost)
	api.HandleFunc("/admin/contracts/{id:[0-9]+}/confirm-cancellation", RequireAdmin(contracts.ConfirmCancellation)).Methods(http.MethodPost)

	// Notifications
	api.HandleFunc("/notifications", notifications.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", notifications.MarkAsRead).Methods(http.MethodPost)

	return r
}
