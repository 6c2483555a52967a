package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes give API clients a stable discriminator without leaking which
// internal check failed.
const (
	TextCodeInvalidCreds   = "INVALID_CREDENTIALS"
	TextCodeEmailTaken     = "EMAIL_TAKEN"
	TextCodeTokenExpired   = "TOKEN_EXPIRED"
	TextCodeTokenMalformed = "TOKEN_MALFORMED"
	TextCodeTokenMissing   = "TOKEN_MISSING"
	TextCodeForbidden      = "INSUFFICIENT_ROLE"
	TextCodeEmptyPassword  = "EMPTY_PASSWORD"
	TextCodeClaimsDecode   = "CLAIMS_DECODE_ERROR"
	TextCodeImmutableClaim = "IMMUTABLE_CLAIM_MUTATION"
)

// ErrInvalidCredentials is the single user-visible failure for bad logins.
// The message is intentionally generic: it must not reveal whether the email
// exists or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrMismatchedHashAndPassword is returned by the credential validator when
// the plaintext does not match the stored hash.
var ErrMismatchedHashAndPassword = errors.New("invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrEmailTaken signals a duplicate registration.
var ErrEmailTaken = errors.New("user with this email already exists", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode(TextCodeEmailTaken)

// ErrTokenExpired is returned when an otherwise valid token is past its expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed covers bad signatures, wrong algorithms, and garbage input.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenMissing is returned when no bearer token could be extracted from
// the request.
var ErrTokenMissing = errors.New("missing or malformed bearer token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMissing)

// ErrInsufficientRole is the authorization guard denial: authenticated but
// lacking every required role, or no identity attached at all.
var ErrInsufficientRole = errors.New("insufficient role", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeForbidden)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrUnableToDecodeClaims means the token parsed but its claims did not.
var ErrUnableToDecodeClaims = errors.New("unable to decode claims", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeClaimsDecode)

// ErrImmutableClaimMutation is raised when a claims decorator touches an
// identity or registered claim instead of an extension field.
var ErrImmutableClaimMutation = errors.New("immutable claim mutated", errors.CategoryInternal).
	WithCode(errors.CodeInternal).
	WithTextCode(TextCodeImmutableClaim)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed")
}
