package tokenware

import (
	"fmt"
	"log"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SigningKey holds a single verification key and the algorithm it expects.
type SigningKey struct {
	JWTAlg string
	Key    any
}

// ValidatorConfig builds a TokenValidator backed by static keys or remote
// JWK Sets. Exactly one of SigningKey, SigningKeys, or JWKSetURLs must be set.
type ValidatorConfig struct {
	// SigningKey verifies tokens without a kid header.
	SigningKey SigningKey
	// SigningKeys verifies tokens by kid.
	SigningKeys map[string]SigningKey
	// JWKSetURLs fetches keys from remote JWK Set endpoints, refreshed in
	// the background.
	JWKSetURLs []string
}

// NewValidator returns a TokenValidator that verifies signatures with the
// configured key material and exposes the token's claims.
func NewValidator(cfg ValidatorConfig) (TokenValidator, error) {
	kf, err := buildKeyfunc(cfg)
	if err != nil {
		return nil, err
	}

	return TokenValidatorFunc(func(tokenString string) (Claims, error) {
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, kf)
		if err != nil {
			return nil, err
		}
		if !token.Valid {
			return nil, fmt.Errorf("invalid token")
		}
		return mapClaims(claims), nil
	}), nil
}

func buildKeyfunc(cfg ValidatorConfig) (jwt.Keyfunc, error) {
	if len(cfg.SigningKeys) > 0 || len(cfg.JWKSetURLs) > 0 {
		var givenKeys map[string]keyfunc.GivenKey
		if cfg.SigningKeys != nil {
			givenKeys = make(map[string]keyfunc.GivenKey, len(cfg.SigningKeys))
			for kid, key := range cfg.SigningKeys {
				givenKeys[kid] = keyfunc.NewGivenCustom(key.Key, keyfunc.GivenKeyOptions{
					Algorithm: key.JWTAlg,
				})
			}
		}
		if len(cfg.JWKSetURLs) > 0 {
			return multiKeyfunc(givenKeys, cfg.JWKSetURLs)
		}
		return keyfunc.NewGiven(givenKeys).Keyfunc, nil
	}

	if cfg.SigningKey.Key == nil {
		return nil, fmt.Errorf("validator configuration: one of SigningKey, SigningKeys, or JWKSetURLs is required")
	}

	return signingKeyFunc(cfg.SigningKey), nil
}

func multiKeyfunc(givenKeys map[string]keyfunc.GivenKey, jwkSetURLs []string) (jwt.Keyfunc, error) {
	opts := keyfuncOptions(givenKeys)
	m := make(map[string]keyfunc.Options, len(jwkSetURLs))
	for _, url := range jwkSetURLs {
		m[url] = opts
	}
	mopts := keyfunc.MultipleOptions{
		KeySelector: keyfunc.KeySelectorFirst,
	}
	multi, err := keyfunc.GetMultiple(m, mopts)
	if err != nil {
		return nil, fmt.Errorf("failed to get JWK Set URLs: %w", err)
	}
	return multi.Keyfunc, nil
}

func keyfuncOptions(givenKeys map[string]keyfunc.GivenKey) keyfunc.Options {
	return keyfunc.Options{
		GivenKeys: givenKeys,
		RefreshErrorHandler: func(err error) {
			log.Printf("failed to do a background refresh of JWK Set: %s", err)
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	}
}

func signingKeyFunc(key SigningKey) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		if key.JWTAlg != "" {
			alg, ok := token.Header["alg"].(string)
			if !ok {
				return nil, fmt.Errorf("unexpected jwt signing method: expected %q got: missing json type", key.JWTAlg)
			}
			if alg != key.JWTAlg {
				return nil, fmt.Errorf("unexpected jwt signing method: expected: %q: got: %q", key.JWTAlg, alg)
			}
		}
		return key.Key, nil
	}
}

// mapClaims is the Claims view over raw jwt.MapClaims.
type mapClaims jwt.MapClaims

func (m mapClaims) Subject() string {
	return m.str("sub")
}

func (m mapClaims) UserID() string {
	return m.Subject()
}

func (m mapClaims) Email() string {
	return m.str("email")
}

func (m mapClaims) Roles() []string {
	raw, ok := m["roles"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		roles := make([]string, 0, len(v))
		for _, el := range v {
			if s, ok := el.(string); ok {
				roles = append(roles, s)
			}
		}
		return roles
	}
	return nil
}

func (m mapClaims) HasRole(role string) bool {
	for _, r := range m.Roles() {
		if r == role {
			return true
		}
	}
	return false
}

func (m mapClaims) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if m.HasRole(r) {
			return true
		}
	}
	return false
}

func (m mapClaims) str(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
