package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/inspi-writer001/feesplit/internal/adapter/http/dto"
	"github.com/inspi-writer001/feesplit/internal/adapter/http/middleware"
	"github.com/inspi-writer001/feesplit/internal/domain"
	"github.com/inspi-writer001/feesplit/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.TokenAccount, error)
	GetAccount(ctx context.Context, address string) (*domain.TokenAccount, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create opens a new token account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var authenticated string
	if principal, ok := middleware.PrincipalFromContext(r.Context()); ok {
		authenticated = principal.String()
	}

	input, err := req.ToUseCaseInput(authenticated)
	if err != nil {
		writeDomainError(w, r, "invalid account request", err)
		return
	}

	account, err := h.accountUC.OpenAccount(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to open account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves a token account by address.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if address == "" {
		writeError(w, http.StatusBadRequest, "missing account address", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), address)
	if err != nil {
		writeDomainError(w, r, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}
