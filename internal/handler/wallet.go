package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/AlexZinkM/lumen-wallet/internal/auth"
	"github.com/AlexZinkM/lumen-wallet/internal/model"
	"github.com/AlexZinkM/lumen-wallet/wallet"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// WalletService is what the handlers need from wallet.Service.
type WalletService interface {
	Create(ctx context.Context, ownerID int64, password []byte) (*model.WalletResponse, error)
	Fund(ctx context.Context, ownerID int64) (*model.FundResponse, error)
	Wallet(ctx context.Context, ownerID int64) (*model.WalletResponse, error)
	Balance(ctx context.Context, ownerID int64) (*model.BalanceResponse, error)
	Send(ctx context.Context, ownerID int64, req wallet.SendRequest) (*model.PayResponse, error)
	History(ctx context.Context, ownerID int64, req *model.LogRequest) (*model.LogResponse, error)
}

// WalletHandler serves the /wallet endpoints for the authenticated principal.
type WalletHandler struct {
	svc    WalletService
	logger *zap.Logger
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(svc WalletService, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{svc: svc, logger: logger}
}

// Create handles POST /wallet/create
// @Summary      Create wallet
// @Description  Generates a keypair, seals the secret with the transaction password and funds the wallet from the faucet. Returns the existing wallet if there is one.
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        request  body      model.CreateWalletRequest  true  "Transaction password (min 8 characters)"
// @Success      200      {object}  model.WalletResponse  "Wallet already exists"
// @Success      201      {object}  model.WalletResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      401      {object}  model.ErrorResponse
// @Router       /wallet/create [post]
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req model.CreateWalletRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	password := []byte(req.TransactionPassword)
	defer clear(password) // Always clear password from memory

	resp, err := h.svc.Create(r.Context(), p.ID, password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

// Wallet handles GET /wallet
// @Summary      Get wallet
// @Description  Returns the wallet address, funding status and a QR code of the address
// @Tags         wallet
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  model.WalletResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet [get]
func (h *WalletHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	resp, err := h.svc.Wallet(r.Context(), p.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBalance handles GET /wallet/balance
// @Summary      Get wallet balance
// @Description  Gets the SOL balance, with a fiat value when the price feed is enabled
// @Tags         wallet
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  model.BalanceResponse
// @Failure      404  {object}  model.ErrorResponse
// @Failure      504  {object}  model.ErrorResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	resp, err := h.svc.Balance(r.Context(), p.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Send handles POST /wallet/send
// @Summary      Send SOL
// @Description  Unseals the wallet key with the transaction password, signs a SOL transfer and submits it
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        request  body      model.PayRequest  true  "Payment data"
// @Success      200      {object}  model.PayResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      401      {object}  model.ErrorResponse  "Invalid transaction password"
// @Failure      404      {object}  model.ErrorResponse  "No wallet or destination not found"
// @Failure      429      {object}  model.ErrorResponse
// @Failure      504      {object}  model.ErrorResponse  "Ledger timeout, retryable"
// @Router       /wallet/send [post]
func (h *WalletHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req model.PayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	password := []byte(req.TransactionPassword)
	defer clear(password) // Always clear password from memory

	resp, err := h.svc.Send(r.Context(), p.ID, wallet.SendRequest{
		Recipient: req.Recipient,
		Amount:    req.Amount,
		Password:  password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Fund handles POST /wallet/fund
// @Summary      Fund wallet
// @Description  Retries the faucet for a wallet whose funding failed at creation
// @Tags         wallet
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  model.FundResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet/fund [post]
func (h *WalletHandler) Fund(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	resp, err := h.svc.Fund(r.Context(), p.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// TransactionHistory handles GET /wallet/transactions
// @Summary      Get wallet transactions
// @Description  Gets recent SOL transfers with filtering capability
// @Tags         wallet
// @Produce      json
// @Security     BasicAuth
// @Param        type       query     string   false  "Transaction type: DEBIT or CREDIT"
// @Param        txId       query     string   false  "Transaction ID"
// @Param        from       query     string   false  "Start date (YYYY-MM-DD)"
// @Param        to         query     string   false  "End date (YYYY-MM-DD)"
// @Param        minAmount  query     string   false  "Minimum amount"
// @Param        maxAmount  query     string   false  "Maximum amount"
// @Success      200  {object}  model.LogResponse
// @Failure      400  {object}  model.ErrorResponse
// @Router       /wallet/transactions [get]
func (h *WalletHandler) TransactionHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req model.LogRequest
	q := r.URL.Query()

	// Parse date parameters (YYYY-MM-DD)
	const dateLayout = "2006-01-02"
	if fromStr := q.Get("from"); fromStr != "" {
		t, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
				Error: "invalid from date: use YYYY-MM-DD (e.g. 2006-01-02)",
				Code:  wallet.KindInvalidInput.String(),
			})
			return
		}
		req.From = &t
	}
	if toStr := q.Get("to"); toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
				Error: "invalid to date: use YYYY-MM-DD (e.g. 2006-01-02)",
				Code:  wallet.KindInvalidInput.String(),
			})
			return
		}
		// End of day so filter is inclusive
		t = t.Add(24*time.Hour - time.Nanosecond)
		req.To = &t
	}

	if typeStr := q.Get("type"); typeStr != "" {
		txType := model.TransactionType(typeStr)
		req.Type = &txType
	}
	if txID := q.Get("txId"); txID != "" {
		req.TxID = &txID
	}
	if minAmount := q.Get("minAmount"); minAmount != "" {
		req.MinAmount = &minAmount
	}
	if maxAmount := q.Get("maxAmount"); maxAmount != "" {
		req.MaxAmount = &maxAmount
	}

	resp, err := h.svc.History(r.Context(), p.ID, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *WalletHandler) principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, model.ErrorResponse{Error: "Authentication required", Code: "Unauthenticated"})
		return auth.Principal{}, false
	}
	return p, true
}

// StatusForKind maps a wallet error kind to its HTTP status.
func StatusForKind(k wallet.Kind) int {
	switch k {
	case wallet.KindInvalidInput, wallet.KindSubmissionRejected:
		return http.StatusBadRequest
	case wallet.KindUnauthorized:
		return http.StatusUnauthorized
	case wallet.KindNoWallet, wallet.KindDestinationNotFound:
		return http.StatusNotFound
	case wallet.KindRateLimited:
		return http.StatusTooManyRequests
	case wallet.KindSubmissionTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *WalletHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var werr *wallet.Error
	if !errors.As(err, &werr) {
		werr = &wallet.Error{Kind: wallet.KindUnexpected, Err: err}
	}

	status := StatusForKind(werr.Kind)
	resp := model.ErrorResponse{
		Error:  werr.Message,
		Code:   werr.Kind.String(),
		Detail: werr.Detail,
	}
	switch werr.Kind {
	case wallet.KindSubmissionRejected, wallet.KindSubmissionTimeout, wallet.KindRateLimited:
		retryable := werr.Kind.Retryable()
		resp.Retryable = &retryable
	case wallet.KindUnexpected:
		// Internal causes stay in the log.
		resp.Error = "Internal server error"
		resp.Detail = ""
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	if resp.Error == "" {
		resp.Error = http.StatusText(status)
	}

	writeJSON(w, status, resp)
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Error: "Method not allowed. Should be " + allowed})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error: "Invalid JSON body",
			Code:  wallet.KindInvalidInput.String(),
		})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
