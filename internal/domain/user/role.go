package user

import "fmt"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

func ParseRole(v string) (Role, error) {
	r := Role(v)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q", v)
	}
	return r, nil
}

// ResolveRole returns the role to persist on sign-in. An explicit role always
// wins; otherwise only an exact match with the owner id yields admin. ok is
// false when nothing should be written.
func ResolveRole(explicit *Role, openID, ownerOpenID string) (role Role, ok bool) {
	if explicit != nil {
		return *explicit, true
	}
	if ownerOpenID != "" && openID == ownerOpenID {
		return RoleAdmin, true
	}
	return "", false
}
