package conversation

import "errors"

// Sentinel errors for conversation operations.
var (
	// ErrInvalidConversationID is returned when a conversation id is empty
	// or not usable as a backend key component.
	ErrInvalidConversationID = errors.New("conversation: invalid conversation id")

	// ErrInvalidRole is returned when a role is neither user nor assistant.
	ErrInvalidRole = errors.New("conversation: invalid role")
)
