package auth

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Shivam1272/backend-revision/internal/apperr"
)

// Owned is implemented by resources whose mutation is restricted to their owner.
type Owned interface {
	OwnerID() uuid.UUID
}

// AuthorizeMutation permits the operation only when actor owns resource.
func AuthorizeMutation(actor uuid.UUID, resource Owned) error {
	if actor == uuid.Nil || resource == nil || resource.OwnerID() != actor {
		return fmt.Errorf("%w: you do not own this resource", apperr.ErrForbidden)
	}
	return nil
}
