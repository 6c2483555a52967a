package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity is the read-only view of an authenticated principal. It is
// constructed fresh per request from provider data and never mutated by
// the auth core.
type Identity interface {
	ID() string
	Email() string
	Roles() []string
}

// UserProvider is the capability interface every concrete user store must
// satisfy. FindByEmail and FindByID return a rich NotFound error when the
// record is absent. ValidateCredentials fails closed: an unknown email or a
// wrong password both yield (nil, nil) — those are normal outcomes, not
// errors. CreateUser callers are expected to have checked the email is free;
// the provider owns the final uniqueness guarantee.
type UserProvider interface {
	FindByEmail(ctx context.Context, email string) (Identity, error)
	FindByID(ctx context.Context, id string) (Identity, error)
	ValidateCredentials(ctx context.Context, email, password string) (Identity, error)
	CreateUser(ctx context.Context, email, password string) (Identity, error)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identity Identity) (*AuthResult, error)
	Register(ctx context.Context, email, password string) (*AuthResult, error)
	ValidateUser(ctx context.Context, email, password string) (Identity, error)
	GetProfile(ctx context.Context, id string) (Identity, error)
}

// TokenService mints and validates signed bearer tokens.
type TokenService interface {
	Generate(identity Identity) (string, error)
	Validate(tokenString string) (AuthClaims, error)
}

// TokenValidator validates tokens and extracts claims without tying callers
// to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// AuthResult is the outcome of a successful login or registration. It is
// returned to the caller and never persisted.
type AuthResult struct {
	AccessToken string   `json:"accessToken"`
	Identity    Identity `json:"user"`
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetTokenTTL() time.Duration
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
