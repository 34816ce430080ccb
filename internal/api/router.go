package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/AlexZinkM/lumen-wallet/internal/auth"
	"github.com/AlexZinkM/lumen-wallet/internal/handler"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Wallet *handler.WalletHandler
	Auth   *auth.Authenticator
	Health Pinger
	Logger *zap.Logger

	SendPerMinute    int // 0 disables the limit
	BalancePerMinute int
}

// NewRouter sets up router with handlers
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)
	mux.HandleFunc("/healthz", healthz(cfg.Health))

	authed := func(method string, h http.HandlerFunc, limits ...*RateLimiter) http.Handler {
		var next http.Handler = h
		for _, l := range limits {
			next = l.Middleware(next)
		}
		return AllowMethod(method)(cfg.Auth.Middleware(next))
	}

	sendLimit := NewRateLimiter(cfg.SendPerMinute)
	balanceLimit := NewRateLimiter(cfg.BalancePerMinute)

	// Wallet endpoints, scoped to the authenticated principal
	mux.Handle("/wallet", authed(http.MethodGet, cfg.Wallet.Wallet))
	mux.Handle("/wallet/create", authed(http.MethodPost, cfg.Wallet.Create))
	mux.Handle("/wallet/balance", authed(http.MethodGet, cfg.Wallet.GetBalance, balanceLimit))
	mux.Handle("/wallet/send", authed(http.MethodPost, cfg.Wallet.Send, sendLimit))
	mux.Handle("/wallet/transactions", authed(http.MethodGet, cfg.Wallet.TransactionHistory))
	mux.Handle("/wallet/fund", authed(http.MethodPost, cfg.Wallet.Fund))

	return Recoverer(cfg.Logger)(RequestLogger(cfg.Logger)(mux))
}

func healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
