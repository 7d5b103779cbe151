package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/jonwraymond/queryops/backend"
	"github.com/jonwraymond/queryops/observe"
)

// DefaultMaxEntries bounds a conversation when no limit is configured.
const DefaultMaxEntries = 100

// lockStripes is the size of the per-conversation lock arena. Unrelated
// conversations rarely share a stripe; related appends always do.
const lockStripes = 64

// index is the per-conversation bookkeeping record stored under the
// conversation-level key. Seqs is kept in ascending order.
type index struct {
	NextSeq uint64   `json:"next_seq"`
	Seqs    []uint64 `json:"seqs"`
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger injects a logger. Default: no logging.
func WithLogger(l observe.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// WithMetrics injects a metrics recorder. Default: no metrics.
func WithMetrics(m observe.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// Cache stores conversation history on a backend, bounded per
// conversation.
//
// Contract:
// - Concurrency: safe for concurrent use. Sequence assignment for one
//   conversation is linearizable within this process: concurrent Appends
//   never receive the same sequence.
// - Consistency: History is eventually consistent with in-flight Appends
//   and never returns a torn entry. Index entries whose backend value has
//   already been evicted are skipped, not surfaced.
type Cache struct {
	backend    backend.Backend
	maxEntries int
	logger     observe.Logger
	metrics    observe.Metrics
	locks      [lockStripes]sync.Mutex
}

// New creates a conversation cache over the given backend. maxEntries is
// the per-conversation retained-turn bound, independent of any
// whole-backend bound the backend itself enforces.
func New(b backend.Backend, maxEntries int, opts ...Option) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	c := &Cache{
		backend:    b,
		maxEntries: maxEntries,
		logger:     observe.NopLogger(),
		metrics:    observe.NopMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) stripe(conversationID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(conversationID))
	return &c.locks[h.Sum32()%lockStripes]
}

// loadIndex reads a conversation's index. A missing index means the
// conversation has never been written; an empty record is returned.
func (c *Cache) loadIndex(ctx context.Context, conversationID string) (index, error) {
	raw, ok, err := c.backend.Get(ctx, indexKey(conversationID))
	if err != nil {
		return index{}, fmt.Errorf("conversation: loading index for %q: %w", conversationID, err)
	}
	if !ok {
		return index{}, nil
	}

	var idx index
	if err := json.Unmarshal(raw, &idx); err != nil {
		// A corrupt index is unrecoverable bookkeeping; start over rather
		// than failing every request for this conversation.
		c.logger.Warn(ctx, "conversation index corrupt, resetting",
			observe.Field{Key: "conversation_id", Value: conversationID},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return index{}, nil
	}
	return idx, nil
}

func (c *Cache) storeIndex(ctx context.Context, conversationID string, idx index) error {
	raw, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("conversation: encoding index for %q: %w", conversationID, err)
	}
	if err := c.backend.Put(ctx, indexKey(conversationID), raw); err != nil {
		return fmt.Errorf("conversation: storing index for %q: %w", conversationID, err)
	}
	return nil
}

// Append adds one turn to the conversation, assigning the next sequence
// number (starting at 0 for a new conversation). After the write, the
// oldest turns are evicted until the per-conversation bound holds.
//
// The first write creates the conversation; there is no explicit create.
func (c *Cache) Append(ctx context.Context, conversationID string, role Role, text string) (Entry, error) {
	if err := validateConversationID(conversationID); err != nil {
		return Entry{}, err
	}
	if !role.Valid() {
		return Entry{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	mu := c.stripe(conversationID)
	mu.Lock()
	defer mu.Unlock()

	idx, err := c.loadIndex(ctx, conversationID)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{Role: role, Text: text, Sequence: idx.NextSeq}
	raw, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, fmt.Errorf("conversation: encoding entry: %w", err)
	}
	if err := c.backend.Put(ctx, entryKey(conversationID, entry.Sequence), raw); err != nil {
		return Entry{}, fmt.Errorf("conversation: storing entry %d for %q: %w", entry.Sequence, conversationID, err)
	}

	idx.NextSeq++
	idx.Seqs = append(idx.Seqs, entry.Sequence)

	// Per-conversation bound: evict lowest sequences first. Eviction, not
	// rejection: the new entry is always admitted.
	for len(idx.Seqs) > c.maxEntries {
		oldest := idx.Seqs[0]
		idx.Seqs = idx.Seqs[1:]
		if err := c.backend.Evict(ctx, entryKey(conversationID, oldest)); err != nil {
			c.logger.Warn(ctx, "failed to evict conversation entry",
				observe.Field{Key: "conversation_id", Value: conversationID},
				observe.Field{Key: "sequence", Value: oldest},
				observe.Field{Key: "error", Value: err.Error()},
			)
		}
	}

	if err := c.storeIndex(ctx, conversationID, idx); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// History returns the conversation's retained turns in ascending
// sequence order. A never-written conversation yields an empty slice.
//
// An index entry whose backend value is gone is an eviction race: it is
// counted, logged, and skipped rather than failing the whole read.
func (c *Cache) History(ctx context.Context, conversationID string) ([]Entry, error) {
	if err := validateConversationID(conversationID); err != nil {
		return nil, err
	}

	idx, err := c.loadIndex(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if len(idx.Seqs) == 0 {
		return []Entry{}, nil
	}

	entries := make([]Entry, 0, len(idx.Seqs))
	for _, seq := range idx.Seqs {
		raw, ok, err := c.backend.Get(ctx, entryKey(conversationID, seq))
		if err != nil {
			return nil, fmt.Errorf("conversation: loading entry %d for %q: %w", seq, conversationID, err)
		}
		if !ok {
			c.metrics.RecordEvictionRace(ctx, conversationID)
			c.logger.Warn(ctx, "indexed entry missing from backend, skipping",
				observe.Field{Key: "conversation_id", Value: conversationID},
				observe.Field{Key: "sequence", Value: seq},
			)
			continue
		}

		var entry Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			c.logger.Warn(ctx, "stored entry undecodable, skipping",
				observe.Field{Key: "conversation_id", Value: conversationID},
				observe.Field{Key: "sequence", Value: seq},
				observe.Field{Key: "error", Value: err.Error()},
			)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Clear removes the conversation's index and best-effort removes its
// entries. Entry removal failures are logged, not propagated: an entry
// with no index pointing at it is unreachable and harmless.
func (c *Cache) Clear(ctx context.Context, conversationID string) error {
	if err := validateConversationID(conversationID); err != nil {
		return err
	}

	mu := c.stripe(conversationID)
	mu.Lock()
	defer mu.Unlock()

	idx, err := c.loadIndex(ctx, conversationID)
	if err != nil {
		return err
	}

	if err := c.backend.Evict(ctx, indexKey(conversationID)); err != nil {
		return fmt.Errorf("conversation: clearing index for %q: %w", conversationID, err)
	}

	for _, seq := range idx.Seqs {
		if err := c.backend.Evict(ctx, entryKey(conversationID, seq)); err != nil {
			c.logger.Warn(ctx, "best-effort entry removal failed",
				observe.Field{Key: "conversation_id", Value: conversationID},
				observe.Field{Key: "sequence", Value: seq},
				observe.Field{Key: "error", Value: err.Error()},
			)
		}
	}
	return nil
}
