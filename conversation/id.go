package conversation

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID returns a fresh conversation identifier. Callers may supply
// their own opaque ids instead; this is a convenience for services that
// mint ids on first contact.
func NewID() string {
	return uuid.NewString()
}

// ValidateID checks that id is a UUID minted by NewID. Deployments that
// use caller-supplied opaque ids should rely on Cache's own key
// validation instead.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q is not a UUID", ErrInvalidConversationID, id)
	}
	return nil
}
