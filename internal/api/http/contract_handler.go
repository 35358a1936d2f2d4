package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/service"

	"github.com/gorilla/mux"
)

type ContractHandler struct {
	contractSvc service.ContractService
}

func NewContractHandler(contractSvc service.ContractService) *ContractHandler {
	return &ContractHandler{contractSvc: contractSvc}
}

type createContractRequest struct {
	CarID     int32  `json:"car_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type updateContractRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type contractListResponse struct {
	Contracts []domain.Contract `json:"contracts"`
	Total     int32             `json:"total"`
	Page      int32             `json:"page"`
	PageSize  int32             `json:"page_size"`
}

func pathID(r *http.Request, name string) (int32, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	return int32(id), err
}

func queryInt32(r *http.Request, name string, def int32) int32 {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 {
			return int32(n)
		}
	}
	return def
}

func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	var req createContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	contract, err := h.contractSvc.CreateContract(r.Context(), claims.ClientID, req.CarID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contract)
}

func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid contract id")
		return
	}
	contract, err := h.contractSvc.GetContract(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid contract id")
		return
	}
	var req updateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	contract, err := h.contractSvc.UpdateContract(r.Context(), claims.ClientID, id, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid contract id")
		return
	}
	contract, err := h.contractSvc.ConfirmContract(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid contract id")
		return
	}
	contract, err := h.contractSvc.CancelContract(r.Context(), claims.ClientID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) CancelByAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid contract id")
		return
	}
	contract, err := h.contractSvc.CancelContractByAdmin(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) ConfirmCancellation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid contract id")
		return
	}
	contract, err := h.contractSvc.ConfirmCancellationByAdmin(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)
	contracts, total, err := h.contractSvc.ListClientContracts(r.Context(), claims.ClientID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contractListResponse{Contracts: contracts, Total: total, Page: page, PageSize: pageSize})
}

func (h *ContractHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ContractFilter{
		Brand:    q.Get("brand"),
		BodyType: q.Get("body_type"),
		CarClass: q.Get("car_class"),
		ClientID: queryInt32(r, "client_id", 0),
		CarID:    queryInt32(r, "car_id", 0),
	}
	if stateStr := q.Get("state"); stateStr != "" {
		state, err := domain.ParseRentalState(stateStr)
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.State = state
	}
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)
	contracts, total, err := h.contractSvc.ListContracts(r.Context(), filter, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contractListResponse{Contracts: contracts, Total: total, Page: page, PageSize: pageSize})
}
