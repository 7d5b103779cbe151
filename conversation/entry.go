package conversation

import (
	"fmt"
	"strconv"
	"strings"
)

// Role is the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Entry is one turn of a conversation. Entries are append-only: once
// written they are never mutated, only evicted.
//
// Ordering within a conversation is by Sequence, not wall-clock time, so
// history stays deterministic under concurrent writers.
type Entry struct {
	Role     Role   `json:"role"`
	Text     string `json:"text"`
	Sequence uint64 `json:"sequence"`
}

// entryKey derives the backend key for one turn.
func entryKey(conversationID string, seq uint64) string {
	return "conv:" + conversationID + ":entry:" + strconv.FormatUint(seq, 10)
}

// indexKey derives the backend key for a conversation's index.
func indexKey(conversationID string) string {
	return "conv:" + conversationID + ":index"
}

// validateConversationID rejects ids that would corrupt the key scheme.
func validateConversationID(id string) error {
	if id == "" || strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidConversationID)
	}
	if strings.ContainsAny(id, ":\n\r") {
		return fmt.Errorf("%w: %q", ErrInvalidConversationID, id)
	}
	return nil
}
