package auth

// Roles are free-form strings. RoleUser is the default granted at
// registration; RoleAdmin is conventionally used for privileged routes.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultRoles returns the role set assigned to newly registered users.
func DefaultRoles() []string {
	return []string{RoleUser}
}

// HasAnyRole reports whether the identity holds at least one of the required
// roles. An empty required set means "no restriction" and always allows. A
// nil identity always denies: an authorization check run without a prior
// authentication step must fail closed.
func HasAnyRole(identity Identity, required ...string) bool {
	if len(required) == 0 {
		return true
	}

	if identity == nil {
		return false
	}

	for _, have := range identity.Roles() {
		for _, want := range required {
			if have == want {
				return true
			}
		}
	}

	return false
}

// NormalizeRoles drops empty entries and duplicates while preserving order.
func NormalizeRoles(roles []string) []string {
	if len(roles) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}

	return out
}
