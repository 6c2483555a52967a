package repository

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-identity"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// Provider adapts the Users repository to the auth.UserProvider contract.
// Unlike the in-memory store, the duplicate email race is closed here by
// the UNIQUE constraint on the email column.
type Provider struct {
	users  Users
	logger auth.Logger
}

var _ auth.UserProvider = (*Provider)(nil)

// NewProvider returns a database backed UserProvider.
func NewProvider(db *bun.DB) *Provider {
	return &Provider{
		users: NewUsersRepository(db),
	}
}

// WithLogger sets the logger used for provider diagnostics.
func (p *Provider) WithLogger(logger auth.Logger) *Provider {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Users exposes the underlying repository for callers that need raw record
// access, e.g. migrations or admin tooling.
func (p *Provider) Users() Users {
	return p.users
}

func (p *Provider) FindByEmail(ctx context.Context, email string) (auth.Identity, error) {
	user, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, errors.Wrap(err, errors.CategoryNotFound, "user not found").
				WithTextCode("USER_NOT_FOUND")
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up user by email")
	}
	return identityFor(user), nil
}

func (p *Provider) FindByID(ctx context.Context, id string) (auth.Identity, error) {
	user, err := p.users.GetByIdentifier(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, errors.Wrap(err, errors.CategoryNotFound, "user not found").
				WithTextCode("USER_NOT_FOUND")
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up user by id")
	}
	return identityFor(user), nil
}

// ValidateCredentials fails closed: unknown emails and wrong passwords both
// resolve to an absent identity without error.
func (p *Provider) ValidateCredentials(ctx context.Context, email, password string) (auth.Identity, error) {
	user, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up user during validation")
	}

	if err := auth.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, nil
	}

	return identityFor(user), nil
}

// CreateUser hashes the password and inserts the record. Ids are derived
// from the email so retried registrations map to the same row.
func (p *Provider) CreateUser(ctx context.Context, email, password string) (auth.Identity, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	record := &User{
		Email:        email,
		PasswordHash: hash,
		Roles:        auth.DefaultRoles(),
	}

	if id, err := hashid.NewUUID(email); err == nil {
		record.ID = id
	}

	user, err := p.users.Register(ctx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, auth.ErrEmailTaken
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}

	return identityFor(user), nil
}

func identityFor(user *User) auth.Identity {
	return auth.NewIdentity(user.ID.String(), user.Email, user.Roles)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
