package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/backend"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/orchestrator"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/store"
)

// Handler holds HTTP handler dependencies.
type Handler struct {
	orch         *orchestrator.Orchestrator
	wallets      *backend.WalletState
	transactions *backend.TransactionState
	sessions     store.SessionStore
}

// New creates a new Handler.
func New(orch *orchestrator.Orchestrator, wallets *backend.WalletState, transactions *backend.TransactionState, sessions store.SessionStore) *Handler {
	return &Handler{
		orch:         orch,
		wallets:      wallets,
		transactions: transactions,
		sessions:     sessions,
	}
}

// RegisterRoutes registers all API routes on the given echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/payments/:method", h.ProcessPayment)
	e.GET("/payments/:reference", h.GetPaymentResult)
	e.POST("/session/wallets", h.FetchWallets)
	e.POST("/transactions", h.CreateTransaction)
	e.GET("/health/methods", h.GetMethodHealth)
}

// ProcessPayment handles POST /payments/:method
func (h *Handler) ProcessPayment(c echo.Context) error {
	var req orchestrator.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
	}

	result, err := h.orch.Execute(c.Request().Context(), c.Param("method"), req)
	if err != nil {
		if errors.Is(err, orchestrator.ErrUnknownMethod) {
			return c.JSON(http.StatusNotFound, errorBody(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, result)
}

// GetPaymentResult handles GET /payments/:reference
func (h *Handler) GetPaymentResult(c echo.Context) error {
	reference := c.Param("reference")
	result, ok := h.orch.GetResult(reference)
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody("payment not found: "+reference))
	}
	return c.JSON(http.StatusOK, result)
}

// walletRequest is the request body for POST /session/wallets
type walletRequest struct {
	ClientID   string `json:"clientId"`
	PlatformID int64  `json:"plataformId" validate:"required"`
	Token      string `json:"token" validate:"required"`
	Domain     string `json:"domain"`
}

// FetchWallets handles POST /session/wallets. It refreshes the wallet
// snapshot and persists the platform session under a client id. Backend
// failures come back in the error field with a 200, matching the snapshot's
// record-not-throw contract.
func (h *Handler) FetchWallets(c echo.Context) error {
	var req walletRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("plataformId and token are required"))
	}

	if req.ClientID == "" {
		req.ClientID = uuid.NewString()
	}

	ctx := c.Request().Context()
	h.wallets.SetAuth(req.PlatformID, req.Token)
	h.wallets.Refresh(ctx)

	if err := h.sessions.Save(ctx, req.ClientID, store.SessionState{
		PlatformID: req.PlatformID,
		Token:      req.Token,
		Domain:     req.Domain,
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("could not persist session: "+err.Error()))
	}

	snapshot, errMsg := h.wallets.Snapshot()
	return c.JSON(http.StatusOK, map[string]any{
		"clientId": req.ClientID,
		"wallets":  snapshot.Wallets,
		"methods":  snapshot.Methods,
		"user":     snapshot.User,
		"error":    errMsg,
	})
}

// CreateTransaction handles POST /transactions
func (h *Handler) CreateTransaction(c echo.Context) error {
	var req backend.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
	}

	created, err := h.transactions.Create(c.Request().Context(), req)
	if err != nil {
		return c.JSON(http.StatusBadGateway, errorBody("error creating transaction: "+err.Error()))
	}
	return c.JSON(http.StatusCreated, created)
}

// GetMethodHealth handles GET /health/methods
func (h *Handler) GetMethodHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"methods": h.orch.HealthMonitor().GetAllHealth(),
	})
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}
