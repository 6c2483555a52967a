// Package memory is an in-process UserProvider backed by a plain slice.
// It mirrors the storage model of small reference deployments: ids are
// monotonically increasing counters rendered as strings, and the store is
// NOT safe for concurrent writers. Registration's check-then-create window
// is therefore open here; use the repository-backed provider when the
// database must own the uniqueness guarantee.
package memory

import (
	"context"
	"strconv"

	"github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-identity"
)

type user struct {
	id           string
	email        string
	passwordHash string
	roles        []string
}

// Store keeps users in memory. The zero value is usable.
type Store struct {
	users     []*user
	idCounter int
	logger    auth.Logger
}

var _ auth.UserProvider = (*Store)(nil)

// New returns an empty in-memory store.
func New() *Store {
	return &Store{}
}

// WithLogger sets the logger used for provider diagnostics.
func (s *Store) WithLogger(logger auth.Logger) *Store {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// FindByEmail returns the identity registered under email or NotFound.
func (s *Store) FindByEmail(ctx context.Context, email string) (auth.Identity, error) {
	u := s.lookupByEmail(email)
	if u == nil {
		return nil, errors.New("user not found", errors.CategoryNotFound).
			WithTextCode("USER_NOT_FOUND").
			WithMetadata(map[string]any{"email": email})
	}
	return u.identity(), nil
}

// FindByID returns the identity behind id or NotFound.
func (s *Store) FindByID(ctx context.Context, id string) (auth.Identity, error) {
	for _, u := range s.users {
		if u.id == id {
			return u.identity(), nil
		}
	}
	return nil, errors.New("user not found", errors.CategoryNotFound).
		WithTextCode("USER_NOT_FOUND").
		WithMetadata(map[string]any{"id": id})
}

// ValidateCredentials resolves email and password to an identity. Unknown
// emails and wrong passwords both return an absent identity with no error;
// the caller cannot tell which case it hit.
func (s *Store) ValidateCredentials(ctx context.Context, email, password string) (auth.Identity, error) {
	u := s.lookupByEmail(email)
	if u == nil {
		return nil, nil
	}

	if err := auth.ComparePasswordAndHash(password, u.passwordHash); err != nil {
		return nil, nil
	}

	return u.identity(), nil
}

// CreateUser hashes the password and appends a new record. The duplicate
// check here defends against sequential misuse but does not close the
// concurrent registration window; there is no lock around check and append.
func (s *Store) CreateUser(ctx context.Context, email, password string) (auth.Identity, error) {
	if existing := s.lookupByEmail(email); existing != nil {
		return nil, auth.ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	s.idCounter++
	u := &user{
		id:           strconv.Itoa(s.idCounter),
		email:        email,
		passwordHash: hash,
		roles:        auth.DefaultRoles(),
	}
	s.users = append(s.users, u)

	if s.logger != nil {
		s.logger.Debug("memory store created user %s", u.id)
	}

	return u.identity(), nil
}

// Len reports the number of stored users.
func (s *Store) Len() int {
	return len(s.users)
}

func (s *Store) lookupByEmail(email string) *user {
	for _, u := range s.users {
		if u.email == email {
			return u
		}
	}
	return nil
}

func (u *user) identity() auth.Identity {
	return auth.NewIdentity(u.id, u.email, u.roles)
}
