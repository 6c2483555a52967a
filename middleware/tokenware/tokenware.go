// Package tokenware extracts and validates bearer tokens for go-router
// pipelines. It mirrors the auth package interfaces it needs instead of
// importing them to avoid cycles.
package tokenware

import (
	"context"
	"errors"

	"github.com/goliatone/go-router"
)

var (
	defaultTokenLookup = "header:" + router.HeaderAuthorization
	// ErrTokenMissing is returned when no extractor produced a token.
	ErrTokenMissing = errors.New("missing or malformed bearer token")
)

// Claims is the validated-token view this middleware works with.
// It mirrors auth.AuthClaims.
type Claims interface {
	Subject() string
	UserID() string
	Email() string
	Roles() []string
	HasRole(role string) bool
	HasAnyRole(roles ...string) bool
}

// Identity mirrors auth.Identity.
type Identity interface {
	ID() string
	Email() string
	Roles() []string
}

// TokenValidator validates a raw token string.
type TokenValidator interface {
	Validate(tokenString string) (Claims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (Claims, error)

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string) (Claims, error) {
	return f(tokenString)
}

// State is the authentication guard's decision for a request.
type State int

const (
	// StateUnchecked means the guard has not run yet.
	StateUnchecked State = iota
	// StatePublic means the route is public and the token was not inspected.
	StatePublic
	// StateAuthenticated means a valid token was presented.
	StateAuthenticated
	// StateRejected means extraction or validation failed.
	StateRejected
)

func (s State) String() string {
	switch s {
	case StatePublic:
		return "public"
	case StateAuthenticated:
		return "authenticated"
	case StateRejected:
		return "rejected"
	default:
		return "unchecked"
	}
}

// Config drives the authentication middleware. Route publicity is an
// explicit flag, not metadata looked up via reflection.
type Config struct {
	// Public short-circuits the guard: the token is never inspected.
	Public bool

	// Filter skips the guard for matching requests, e.g. health checks.
	Filter func(router.Context) bool

	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler

	// TokenValidator is required for token validation.
	TokenValidator TokenValidator

	// IdentityBuilder converts validated claims into the request identity
	// stored under ContextKey. Required.
	IdentityBuilder func(Claims) (Identity, error)

	// ContextKey is the router locals key for the request identity.
	ContextKey string
	// StateKey is the router locals key for the guard State.
	StateKey string

	TokenLookup string
	AuthScheme  string

	// ContextEnricher propagates the identity to the standard Go context
	// after successful validation.
	ContextEnricher func(ctx context.Context, identity Identity) context.Context
}

// New returns the authentication guard middleware. The request walks an
// explicit state machine: Unchecked -> Public | Authenticated | Rejected.
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			state := StateUnchecked
			ctx.Locals(cfg.StateKey, state)

			if cfg.Public || (cfg.Filter != nil && cfg.Filter(ctx)) {
				ctx.Locals(cfg.StateKey, StatePublic)
				return ctx.Next()
			}

			raw, err := ExtractRawTokenFromContext(ctx, cfg.getExtractors())
			if err != nil {
				ctx.Locals(cfg.StateKey, StateRejected)
				return cfg.ErrorHandler(ctx, err)
			}

			claims, err := cfg.TokenValidator.Validate(raw)
			if err != nil {
				ctx.Locals(cfg.StateKey, StateRejected)
				return cfg.ErrorHandler(ctx, err)
			}

			identity, err := cfg.IdentityBuilder(claims)
			if err != nil {
				ctx.Locals(cfg.StateKey, StateRejected)
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.StateKey, StateAuthenticated)
			ctx.Locals(cfg.ContextKey, identity)

			if cfg.ContextEnricher != nil {
				ctx.SetContext(cfg.ContextEnricher(ctx.Context(), identity))
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

// GetDefaultConfig fills in defaults and panics on unusable configuration,
// matching how the router middleware in this family reports wiring mistakes.
func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			if errors.Is(err, ErrTokenMissing) {
				return c.Status(router.StatusUnauthorized).SendString(ErrTokenMissing.Error())
			}
			return c.Status(router.StatusUnauthorized).SendString("Invalid or expired token")
		}
	}

	if !cfg.Public && cfg.TokenValidator == nil {
		panic("AUTH: token middleware configuration: TokenValidator is required.")
	}

	if cfg.IdentityBuilder == nil {
		cfg.IdentityBuilder = func(claims Claims) (Identity, error) {
			return claimsIdentity{claims: claims}, nil
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "identity"
	}

	if cfg.StateKey == "" {
		cfg.StateKey = "auth_state"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

// claimsIdentity is the fallback identity view when no builder is supplied.
type claimsIdentity struct {
	claims Claims
}

func (c claimsIdentity) ID() string      { return c.claims.UserID() }
func (c claimsIdentity) Email() string   { return c.claims.Email() }
func (c claimsIdentity) Roles() []string { return c.claims.Roles() }

func (cfg *Config) getExtractors() []TokenExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

// StateFromContext reads the guard state recorded for this request.
func StateFromContext(ctx router.Context, key string) State {
	if key == "" {
		key = "auth_state"
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return StateUnchecked
	}
	state, ok := raw.(State)
	if !ok {
		return StateUnchecked
	}
	return state
}
