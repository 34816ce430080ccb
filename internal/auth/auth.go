// Package auth authenticates requests and carries the principal in the
// request context.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlexZinkM/lumen-wallet/internal/model"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Principal is the authenticated owner of a request.
type Principal struct {
	ID       int64
	Username string
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Users looks up login credentials.
type Users interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// HashPassword hashes a login password with bcrypt.
func HashPassword(password []byte) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// dummyHash is compared against when the user does not exist, so unknown
// usernames take as long as wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("lumen-wallet"), bcrypt.DefaultCost)

// Authenticator checks HTTP Basic credentials against Users.
type Authenticator struct {
	users  Users
	logger *zap.Logger
	realm  string
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(users Users, logger *zap.Logger) *Authenticator {
	return &Authenticator{users: users, logger: logger, realm: "lumen-wallet"}
}

// Authenticate returns the principal for username and password.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (Principal, error) {
	user, err := a.users.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return Principal{}, errBadCredentials
	}
	if err != nil {
		return Principal{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Principal{}, errBadCredentials
	}
	return Principal{ID: user.ID, Username: user.Username}, nil
}

var errBadCredentials = errors.New("bad credentials")

// Middleware rejects requests without valid credentials and stores the
// principal in the request context for the next handler.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			a.unauthorized(w)
			return
		}

		p, err := a.Authenticate(r.Context(), username, password)
		if err != nil {
			if !errors.Is(err, errBadCredentials) {
				a.logger.Error("authentication lookup failed", zap.Error(err))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(model.ErrorResponse{Error: "Internal server error", Code: "Unexpected"})
				return
			}
			a.logger.Info("authentication failed", zap.String("username", username))
			a.unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

func (a *Authenticator) unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+a.realm+`", charset="UTF-8"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: "Authentication required", Code: "Unauthenticated"})
}
