package auth

// authIdentity is the canonical Identity value produced by providers and
// by the token validation path.
type authIdentity struct {
	id    string
	email string
	roles []string
}

// NewIdentity builds a read-only Identity view. The role slice is copied so
// later mutations by the caller cannot leak into issued views.
func NewIdentity(id, email string, roles []string) Identity {
	return authIdentity{
		id:    id,
		email: email,
		roles: copyRoles(roles),
	}
}

func (a authIdentity) ID() string {
	return a.id
}

func (a authIdentity) Email() string {
	return a.email
}

func (a authIdentity) Roles() []string {
	return copyRoles(a.roles)
}

var _ Identity = authIdentity{}

// IdentityFromClaims rebuilds the request identity from validated token
// claims. Used by the authentication guard to attach the caller's identity
// to the request context without a provider round trip.
func IdentityFromClaims(claims AuthClaims) (Identity, error) {
	if claims == nil {
		return nil, ErrUnableToDecodeClaims
	}
	return NewIdentity(claims.UserID(), claims.Email(), claims.Roles()), nil
}

func copyRoles(roles []string) []string {
	if len(roles) == 0 {
		return nil
	}
	out := make([]string, len(roles))
	copy(out, roles)
	return out
}
