// Package conversation stores ordered user/assistant turns on top of a
// swappable backend.
//
// Each conversation keeps an index of retained sequence numbers under a
// conversation-level key; individual turns live under per-sequence keys.
// Appends assign monotonically increasing sequences and enforce a
// per-conversation entry bound by evicting the oldest turns.
package conversation
