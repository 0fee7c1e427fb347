// Package policy holds the role rules for catalog operations. Handlers ask it
// whether an identity may perform an action instead of comparing role strings
// inline.
package policy

import (
	"fmt"

	"github.com/isandoval/librarian-be/internal/apperr"
	"github.com/isandoval/librarian-be/internal/auth"
	"github.com/isandoval/librarian-be/internal/models"
)

// Action enumerates the operations the catalog exposes.
type Action string

const (
	ActionCreateBook Action = "book.create"
	ActionListBooks  Action = "book.list"
	ActionReadBook   Action = "book.read"
	ActionDeleteBook Action = "book.delete"
)

// requiredRole maps actions to the minimum role they demand. Actions absent
// from the map need no particular role beyond an authenticated identity.
var requiredRole = map[Action]models.Role{
	ActionCreateBook: models.RoleAdmin,
	ActionDeleteBook: models.RoleAdmin,
}

// Authorize checks whether identity may perform action. It assumes the auth
// gate has already run; it only decides role sufficiency.
func Authorize(identity auth.Identity, action Action) error {
	role, gated := requiredRole[action]
	if !gated {
		return nil
	}
	if identity.Role != role {
		return fmt.Errorf("%w: %s requires role %q", apperr.ErrForbidden, action, role)
	}
	return nil
}
