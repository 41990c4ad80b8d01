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

// FeeSplitService defines the behavior needed by FeeSplitHandler.
type FeeSplitService interface {
	TransferWithFee(ctx context.Context, input usecase.TransferWithFeeInput) (*domain.FeeSplit, error)
	GetFeeSplit(ctx context.Context, id string) (*domain.FeeSplit, error)
	ListFeeSplitsByAccount(ctx context.Context, input usecase.ListFeeSplitsByAccountInput) ([]*domain.FeeSplit, error)
	QuoteFee(amount uint64) (domain.Split, error)
}

// FeeSplitHandler handles fee-split HTTP requests.
type FeeSplitHandler struct {
	feeSplitUC FeeSplitService
}

// NewFeeSplitHandler creates a new FeeSplitHandler.
func NewFeeSplitHandler(feeSplitUC FeeSplitService) *FeeSplitHandler {
	return &FeeSplitHandler{feeSplitUC: feeSplitUC}
}

// Create runs a fee-split transfer.
func (h *FeeSplitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFeeSplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var authenticated string
	if principal, ok := middleware.PrincipalFromContext(r.Context()); ok {
		authenticated = principal.String()
	}

	input, err := req.ToUseCaseInput(authenticated)
	if err != nil {
		writeDomainError(w, r, "invalid fee split request", err)
		return
	}

	feeSplit, err := h.feeSplitUC.TransferWithFee(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "fee split failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FeeSplitFromDomain(feeSplit))
}

// Get retrieves a fee split by ID.
func (h *FeeSplitHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing fee split ID", "")
		return
	}

	feeSplit, err := h.feeSplitUC.GetFeeSplit(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to get fee split", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FeeSplitFromDomain(feeSplit))
}

// ListByAccount lists fee splits an account took part in.
func (h *FeeSplitHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if address == "" {
		writeError(w, http.StatusBadRequest, "missing account address", "")
		return
	}

	splits, err := h.feeSplitUC.ListFeeSplitsByAccount(r.Context(), usecase.ListFeeSplitsByAccountInput{
		Address: address,
		Limit:   parseIntQuery(r, "limit", 20),
		Offset:  parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list fee splits", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FeeSplitsFromDomain(splits))
}

// Quote returns the fee breakdown of an amount without moving funds.
func (h *FeeSplitHandler) Quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	decimals, err := parseDecimalsQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid decimals", err.Error())
		return
	}

	amount, err := dto.ParseQuoteAmount(q.Get("amount"), q.Get("ui_amount"), decimals)
	if err != nil {
		writeDomainError(w, r, "invalid amount", err)
		return
	}

	split, err := h.feeSplitUC.QuoteFee(amount)
	if err != nil {
		writeDomainError(w, r, "cannot quote amount", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.QuoteFromDomain(split, decimals))
}
