package auth

import (
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

const (
	// DefaultTokenTTL is applied when no TTL is configured.
	DefaultTokenTTL = 15 * time.Minute
	// DefaultContextKey is where guards attach the request identity.
	DefaultContextKey = "identity"
	// DefaultAuthScheme prefixes bearer tokens in the Authorization header.
	DefaultAuthScheme = "Bearer"
	// DefaultSigningMethod is the HMAC algorithm used to sign tokens.
	DefaultSigningMethod = "HS256"
)

// insecureSigningKey is the development placeholder that must never reach
// production. NewConfig rejects it outright.
const insecureSigningKey = "dev-secret-change-in-production"

// Options is the immutable process-wide configuration object. Build it once
// at startup with NewConfig and pass it explicitly to the token service,
// guards, and controller; nothing reads ambient global state.
type Options struct {
	signingKey    string
	signingMethod string
	contextKey    string
	tokenTTL      time.Duration
	tokenLookup   string
	authScheme    string
	issuer        string
	audience      []string
}

var _ Config = (*Options)(nil)

// Option mutates Options during construction only.
type Option func(*Options)

// NewConfig validates the signing secret and returns an immutable Config.
// The secret is required and the well-known development default is refused.
func NewConfig(signingKey string, opts ...Option) (*Options, error) {
	if signingKey == "" {
		return nil, errors.New("signing key is required", errors.CategoryValidation).
			WithTextCode("MISSING_SIGNING_KEY")
	}

	if signingKey == insecureSigningKey {
		return nil, errors.New("refusing to use the insecure development signing key", errors.CategoryValidation).
			WithTextCode("INSECURE_SIGNING_KEY")
	}

	o := &Options{
		signingKey:    signingKey,
		signingMethod: DefaultSigningMethod,
		contextKey:    DefaultContextKey,
		tokenTTL:      DefaultTokenTTL,
		tokenLookup:   "header:" + router.HeaderAuthorization,
		authScheme:    DefaultAuthScheme,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	return o, nil
}

// WithTokenTTL overrides the token lifetime. Non-positive values keep the default.
func WithTokenTTL(ttl time.Duration) Option {
	return func(o *Options) {
		if ttl > 0 {
			o.tokenTTL = ttl
		}
	}
}

// WithIssuer sets the iss claim on minted tokens.
func WithIssuer(issuer string) Option {
	return func(o *Options) {
		o.issuer = issuer
	}
}

// WithAudience sets the aud claim on minted tokens.
func WithAudience(audience ...string) Option {
	return func(o *Options) {
		o.audience = append([]string(nil), audience...)
	}
}

// WithContextKey overrides the router locals key used by the guards.
func WithContextKey(key string) Option {
	return func(o *Options) {
		if key != "" {
			o.contextKey = key
		}
	}
}

// WithTokenLookup overrides the extractor chain, e.g.
// "header:Authorization,cookie:jwt".
func WithTokenLookup(lookup string) Option {
	return func(o *Options) {
		if lookup != "" {
			o.tokenLookup = lookup
		}
	}
}

// WithAuthScheme overrides the Authorization header scheme.
func WithAuthScheme(scheme string) Option {
	return func(o *Options) {
		if scheme != "" {
			o.authScheme = scheme
		}
	}
}

func (o *Options) GetSigningKey() string         { return o.signingKey }
func (o *Options) GetSigningMethod() string      { return o.signingMethod }
func (o *Options) GetContextKey() string         { return o.contextKey }
func (o *Options) GetTokenTTL() time.Duration    { return o.tokenTTL }
func (o *Options) GetTokenLookup() string        { return o.tokenLookup }
func (o *Options) GetAuthScheme() string         { return o.authScheme }
func (o *Options) GetIssuer() string             { return o.issuer }
func (o *Options) GetAudience() []string         { return append([]string(nil), o.audience...) }
