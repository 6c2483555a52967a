package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-identity/middleware/tokenware"
	"github.com/goliatone/go-router"
)

// RouteRule declares how a route or group is guarded. Publicity and role
// requirements are explicit configuration, never derived from handler
// metadata.
type RouteRule struct {
	// Public routes skip token inspection entirely.
	Public bool
	// Roles required to reach the handler. Empty means any authenticated
	// identity passes.
	Roles []string
}

// GuardFor builds the middleware chain for a rule: the authentication guard
// first, then the role guard when the rule names roles.
func GuardFor(cfg Config, validator TokenValidator, rule RouteRule) []router.MiddlewareFunc {
	if rule.Public {
		return []router.MiddlewareFunc{Public()}
	}

	chain := []router.MiddlewareFunc{Protected(cfg, validator)}
	if len(rule.Roles) > 0 {
		chain = append(chain, RequireRoles(cfg, rule.Roles...))
	}
	return chain
}

// Public returns a guard that marks the request public and never inspects
// the token.
func Public() router.MiddlewareFunc {
	return tokenware.New(tokenware.Config{
		Public: true,
	})
}

// Protected returns the authentication guard. It extracts the bearer token,
// validates it, and attaches the resulting identity to the request under
// cfg.GetContextKey().
func Protected(cfg Config, validator TokenValidator) router.MiddlewareFunc {
	return tokenware.New(tokenware.Config{
		TokenValidator:  adaptTokenValidator(validator),
		IdentityBuilder: identityFromGuardClaims,
		ContextKey:      cfg.GetContextKey(),
		TokenLookup:     cfg.GetTokenLookup(),
		AuthScheme:      cfg.GetAuthScheme(),
		ContextEnricher: enrichIdentityContext,
		ErrorHandler:    GuardErrorHandler,
	})
}

// RequireRoles returns the authorization guard. It runs after Protected and
// rejects with Forbidden unless the request identity holds at least one of
// the required roles. A missing identity is a deny, not an error.
func RequireRoles(cfg Config, roles ...string) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if len(roles) == 0 {
				return ctx.Next()
			}

			identity, ok := IdentityFromRouterContext(ctx, cfg.GetContextKey())
			if !ok || identity == nil {
				return RespondWithError(ctx, ErrInsufficientRole)
			}

			if !HasAnyRole(identity, roles...) {
				return RespondWithError(ctx, ErrInsufficientRole.Clone().WithMetadata(map[string]any{
					"required_roles": roles,
				}))
			}

			return ctx.Next()
		}
	}
}

// GuardErrorHandler translates guard failures into the error envelope used
// by the rest of the HTTP surface. Everything the guard rejects is a 401.
func GuardErrorHandler(ctx router.Context, err error) error {
	switch {
	case errors.Is(err, tokenware.ErrTokenMissing):
		return RespondWithError(ctx, ErrTokenMissing)
	case IsTokenExpiredError(err):
		return RespondWithError(ctx, ErrTokenExpired)
	default:
		return RespondWithError(ctx, errors.Wrap(err, errors.CategoryAuth, ErrTokenMalformed.Message).
			WithCode(errors.CodeUnauthorized).
			WithTextCode(TextCodeTokenMalformed))
	}
}

func adaptTokenValidator(v TokenValidator) tokenware.TokenValidator {
	return tokenware.TokenValidatorFunc(func(tokenString string) (tokenware.Claims, error) {
		claims, err := v.Validate(tokenString)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}

func identityFromGuardClaims(claims tokenware.Claims) (tokenware.Identity, error) {
	if ac, ok := claims.(AuthClaims); ok {
		identity, err := IdentityFromClaims(ac)
		if err != nil {
			return nil, err
		}
		return identity, nil
	}
	return NewIdentity(claims.UserID(), claims.Email(), claims.Roles()), nil
}

func enrichIdentityContext(c context.Context, identity tokenware.Identity) context.Context {
	if id, ok := identity.(Identity); ok {
		return WithIdentityContext(c, id)
	}
	return c
}
