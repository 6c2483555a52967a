package auth_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notFoundErr() error {
	return errors.New("user not found", errors.CategoryNotFound).
		WithCode(errors.CodeNotFound)
}

func TestAuther_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("issues token for a valid identity", func(t *testing.T) {
		provider := &MockUserProvider{}
		auther := auth.NewAuthenticator(provider, testConfig())

		identity := testIdentity{id: "1", email: "a@x.com", roles: []string{"user"}}

		result, err := auther.Login(ctx, identity)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, identity, result.Identity)

		claims, err := auther.TokenService().Validate(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "1", claims.Subject())
		assert.Equal(t, "a@x.com", claims.Email())
		assert.Equal(t, []string{"user"}, claims.Roles())
	})

	t.Run("rejects nil identity", func(t *testing.T) {
		provider := &MockUserProvider{}
		auther := auth.NewAuthenticator(provider, testConfig())

		result, err := auther.Login(ctx, nil)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestAuther_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and logs in", func(t *testing.T) {
		provider := &MockUserProvider{}
		identity := testIdentity{id: "1", email: "a@x.com", roles: []string{"user"}}

		provider.On("FindByEmail", ctx, "a@x.com").Return(nil, notFoundErr())
		provider.On("CreateUser", ctx, "a@x.com", "pw123456").Return(identity, nil)

		auther := auth.NewAuthenticator(provider, testConfig())

		result, err := auther.Register(ctx, "a@x.com", "pw123456")

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, "a@x.com", result.Identity.Email())

		provider.AssertExpectations(t)
	})

	t.Run("fails with conflict on duplicate email", func(t *testing.T) {
		provider := &MockUserProvider{}
		existing := testIdentity{id: "1", email: "a@x.com", roles: []string{"user"}}

		provider.On("FindByEmail", ctx, "a@x.com").Return(existing, nil)

		auther := auth.NewAuthenticator(provider, testConfig())

		result, err := auther.Register(ctx, "a@x.com", "pw123456")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, auth.ErrEmailTaken)

		var richErr *errors.Error
		require.True(t, errors.As(err, &richErr))
		assert.Equal(t, errors.CategoryConflict, richErr.Category)

		provider.AssertNotCalled(t, "CreateUser")
	})

	t.Run("wraps provider lookup failures", func(t *testing.T) {
		provider := &MockUserProvider{}
		provider.On("FindByEmail", ctx, "a@x.com").
			Return(nil, errors.New("connection refused", errors.CategoryOperation))

		auther := auth.NewAuthenticator(provider, testConfig())

		result, err := auther.Register(ctx, "a@x.com", "pw123456")

		assert.Nil(t, result)
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrEmailTaken)
	})

	t.Run("passes through a conflict raised by the provider", func(t *testing.T) {
		provider := &MockUserProvider{}
		provider.On("FindByEmail", ctx, "a@x.com").Return(nil, notFoundErr())
		provider.On("CreateUser", ctx, "a@x.com", "pw123456").Return(nil, auth.ErrEmailTaken)

		auther := auth.NewAuthenticator(provider, testConfig())

		_, err := auther.Register(ctx, "a@x.com", "pw123456")

		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})
}

func TestAuther_ValidateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("returns identity for valid credentials", func(t *testing.T) {
		provider := &MockUserProvider{}
		identity := testIdentity{id: "1", email: "a@x.com", roles: []string{"user"}}

		provider.On("ValidateCredentials", ctx, "a@x.com", "pw123456").Return(identity, nil)

		auther := auth.NewAuthenticator(provider, testConfig())

		got, err := auther.ValidateUser(ctx, "a@x.com", "pw123456")

		require.NoError(t, err)
		assert.Equal(t, identity, got)
	})

	t.Run("absent identity maps to one generic unauthorized", func(t *testing.T) {
		provider := &MockUserProvider{}
		provider.On("ValidateCredentials", ctx, "a@x.com", "wrong").Return(nil, nil)

		auther := auth.NewAuthenticator(provider, testConfig())

		got, err := auther.ValidateUser(ctx, "a@x.com", "wrong")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.Equal(t, "invalid credentials", auth.ErrInvalidCredentials.Message)
	})

	t.Run("provider errors are wrapped as internal", func(t *testing.T) {
		provider := &MockUserProvider{}
		provider.On("ValidateCredentials", ctx, "a@x.com", "pw123456").
			Return(nil, errors.New("boom", errors.CategoryOperation))

		auther := auth.NewAuthenticator(provider, testConfig())

		got, err := auther.ValidateUser(ctx, "a@x.com", "pw123456")

		assert.Nil(t, got)
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestAuther_GetProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves identity by subject id", func(t *testing.T) {
		provider := &MockUserProvider{}
		identity := testIdentity{id: "1", email: "a@x.com", roles: []string{"user"}}

		provider.On("FindByID", ctx, "1").Return(identity, nil)

		auther := auth.NewAuthenticator(provider, testConfig())

		got, err := auther.GetProfile(ctx, "1")

		require.NoError(t, err)
		assert.Equal(t, identity, got)
	})

	t.Run("missing subject is unauthorized, not notfound", func(t *testing.T) {
		provider := &MockUserProvider{}
		provider.On("FindByID", ctx, "404").Return(nil, notFoundErr())

		auther := auth.NewAuthenticator(provider, testConfig())

		got, err := auther.GetProfile(ctx, "404")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestAuther_ActivitySink(t *testing.T) {
	ctx := context.Background()

	t.Run("records login failure and success", func(t *testing.T) {
		provider := &MockUserProvider{}
		identity := testIdentity{id: "1", email: "a@x.com", roles: []string{"user"}}

		provider.On("ValidateCredentials", ctx, "a@x.com", "wrong").Return(nil, nil)
		provider.On("ValidateCredentials", ctx, "a@x.com", "pw123456").Return(identity, nil)

		var events []auth.ActivityEvent
		sink := auth.ActivitySinkFunc(func(ctx context.Context, event auth.ActivityEvent) error {
			events = append(events, event)
			return nil
		})

		auther := auth.NewAuthenticator(provider, testConfig()).WithActivitySink(sink)

		_, _ = auther.ValidateUser(ctx, "a@x.com", "wrong")
		_, err := auther.ValidateUser(ctx, "a@x.com", "pw123456")
		require.NoError(t, err)

		require.Len(t, events, 2)
		assert.Equal(t, auth.ActivityEventLoginFailure, events[0].EventType)
		assert.Equal(t, auth.ActivityEventLoginSuccess, events[1].EventType)
		assert.Equal(t, "1", events[1].UserID)
		assert.False(t, events[1].OccurredAt.IsZero())
	})

	t.Run("sink failures never surface to the caller", func(t *testing.T) {
		provider := &MockUserProvider{}
		identity := testIdentity{id: "1", email: "a@x.com", roles: []string{"user"}}

		provider.On("ValidateCredentials", ctx, "a@x.com", "pw123456").Return(identity, nil)

		sink := auth.ActivitySinkFunc(func(ctx context.Context, event auth.ActivityEvent) error {
			return errors.New("sink down", errors.CategoryOperation)
		})

		auther := auth.NewAuthenticator(provider, testConfig()).WithActivitySink(sink)

		got, err := auther.ValidateUser(ctx, "a@x.com", "pw123456")

		require.NoError(t, err)
		assert.Equal(t, identity, got)
	})
}
