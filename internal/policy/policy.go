// Package policy decides who may change a resource. Reads are public and never
// consult it.
package policy

import (
	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
)

// Owned is implemented by resources that record the user who controls them.
type Owned interface {
	OwnerID() uint
}

// CanModify reports whether actor may update or delete resource. Only the
// recorded owner can; an anonymous actor never can.
func CanModify(actor *models.User, resource Owned) bool {
	if actor == nil || actor.ID == 0 || resource == nil {
		return false
	}
	return resource.OwnerID() == actor.ID
}

// Authorize is CanModify expressed as an error: ErrUnauthorized for an anonymous
// actor and ErrForbidden for anyone but the owner.
func Authorize(actor *models.User, resource Owned) error {
	if actor == nil || actor.ID == 0 {
		return apperr.ErrUnauthorized
	}
	if !CanModify(actor, resource) {
		return apperr.ErrForbidden
	}
	return nil
}
