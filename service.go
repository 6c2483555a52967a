package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// Auther orchestrates login, registration, and profile retrieval over a
// UserProvider and a TokenService. It never touches stored credentials
// directly; the provider owns those.
type Auther struct {
	provider     UserProvider
	signingKey   []byte
	logger       Logger
	tokenService TokenService
	activity     ActivitySink
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider UserProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenTTL(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		signingKey:   []byte(opts.GetSigningKey()),
		logger:       defLogger{},
		tokenService: tokenService,
		activity:     noopActivitySink{},
	}
}

// WithActivitySink registers an audit sink. Events are recorded best-effort;
// sink failures are logged, never surfaced to callers.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activity = normalizeActivitySink(sink)
	return s
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the token service, e.g. to share one instance
// with the guards.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

var _ Authenticator = (*Auther)(nil)

// Login issues a token for an identity the caller has already validated,
// typically via ValidateUser. It always succeeds for a non-nil identity.
func (s *Auther) Login(ctx context.Context, identity Identity) (*AuthResult, error) {
	if identity == nil {
		s.logger.Error("Login called with nil identity")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation failed: %v", err)
		return nil, err
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventTokenIssued,
		UserID:    identity.ID(),
		Email:     identity.Email(),
	})

	return &AuthResult{
		AccessToken: token,
		Identity:    identity,
	}, nil
}

// Register creates a new user and logs it in. The duplicate check and the
// create are not atomic; the provider owns the final uniqueness guarantee
// and may still report a conflict from CreateUser.
func (s *Auther) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	existing, err := s.provider.FindByEmail(ctx, email)
	if err != nil && !errors.IsNotFound(err) {
		s.logger.Error("Register duplicate check failed: %v", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check for existing user")
	}

	if existing != nil {
		s.recordActivity(ctx, ActivityEvent{
			EventType: ActivityEventRegisterConflict,
			Email:     email,
		})
		return nil, ErrEmailTaken
	}

	identity, err := s.provider.CreateUser(ctx, email, password)
	if err != nil {
		s.logger.Error("Register create user failed: %v", err)
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventRegisterSuccess,
		UserID:    identity.ID(),
		Email:     identity.Email(),
	})

	return s.Login(ctx, identity)
}

// ValidateUser checks credentials through the provider. The failure is a
// single generic Unauthorized regardless of whether the email was unknown or
// the password wrong.
func (s *Auther) ValidateUser(ctx context.Context, email, password string) (Identity, error) {
	identity, err := s.provider.ValidateCredentials(ctx, email, password)
	if err != nil {
		s.logger.Error("ValidateUser provider error: %v", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "credential validation failed")
	}

	if identity == nil {
		s.recordActivity(ctx, ActivityEvent{
			EventType: ActivityEventLoginFailure,
			Email:     email,
		})
		return nil, ErrInvalidCredentials
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventLoginSuccess,
		UserID:    identity.ID(),
		Email:     identity.Email(),
	})

	return identity, nil
}

// GetProfile resolves the identity behind a subject id. A missing subject is
// reported as Unauthorized, not NotFound, so callers cannot probe which ids
// exist.
func (s *Auther) GetProfile(ctx context.Context, id string) (Identity, error) {
	identity, err := s.provider.FindByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("GetProfile lookup failed: %v", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load profile")
	}

	if identity == nil {
		return nil, ErrInvalidCredentials
	}

	return identity, nil
}

func (s *Auther) recordActivity(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := s.activity.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink failed for %s: %v", string(event.EventType), err)
	}
}
