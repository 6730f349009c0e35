package adminusers

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when the role hierarchy denies a management
// action.
var ErrForbidden = errors.New("insufficient role")

// rank orders the roles; higher rank manages lower.
var rank = map[string]int{
	RoleSuperAdmin: 4,
	RoleAdmin:      3,
	RoleManager:    2,
	RoleStaff:      1,
}

// IsValidRole reports whether r is one of the four known roles.
func IsValidRole(r string) bool {
	_, ok := rank[r]
	return ok
}

// CanManage reports whether an actor with actorRole may edit or delete an
// account holding targetRole. An actor only ever manages roles strictly
// below their own; equals (and therefore themselves, role-wise) are out of
// reach.
func CanManage(actorRole, targetRole string) bool {
	a, okA := rank[actorRole]
	t, okT := rank[targetRole]
	return okA && okT && a > t
}

// CanCreate reports whether an actor may create an account with newRole.
// The strict-ordering rule applies, and admins are further limited to
// instantiating manager and staff accounts only.
func CanCreate(actorRole, newRole string) bool {
	if !CanManage(actorRole, newRole) {
		return false
	}
	if actorRole == RoleAdmin {
		return newRole == RoleManager || newRole == RoleStaff
	}
	return true
}

// AuthorizeCreate wraps CanCreate with an explanatory error for handlers.
func AuthorizeCreate(actorRole, newRole string) error {
	if !IsValidRole(newRole) {
		return fmt.Errorf("unknown role %q", newRole)
	}
	if !CanCreate(actorRole, newRole) {
		return fmt.Errorf("%w: %s may not create %s accounts", ErrForbidden, actorRole, newRole)
	}
	return nil
}

// AuthorizeManage wraps CanManage with an explanatory error for handlers.
func AuthorizeManage(actorRole, targetRole string) error {
	if !CanManage(actorRole, targetRole) {
		return fmt.Errorf("%w: %s may not manage %s accounts", ErrForbidden, actorRole, targetRole)
	}
	return nil
}
