package conversation_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/queryops/backend"
	"github.com/jonwraymond/queryops/conversation"
)

func ExampleCache_Append() {
	store := backend.NewMemory(backend.MemoryConfig{MaxEntries: 100})
	cache := conversation.New(store, 10)
	ctx := context.Background()

	_, _ = cache.Append(ctx, "conv-1", conversation.RoleUser, "what is a pod?")
	_, _ = cache.Append(ctx, "conv-1", conversation.RoleAssistant, "the smallest deployable unit")

	history, _ := cache.History(ctx, "conv-1")
	for _, entry := range history {
		fmt.Printf("%d %s: %s\n", entry.Sequence, entry.Role, entry.Text)
	}
	// Output:
	// 0 user: what is a pod?
	// 1 assistant: the smallest deployable unit
}

func ExampleCache_History_bounded() {
	store := backend.NewMemory(backend.MemoryConfig{MaxEntries: 100})
	cache := conversation.New(store, 2)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _ = cache.Append(ctx, "conv-1", conversation.RoleUser, fmt.Sprintf("turn %d", i))
	}

	history, _ := cache.History(ctx, "conv-1")
	fmt.Println("retained:", len(history))
	fmt.Println("oldest retained sequence:", history[0].Sequence)
	// Output:
	// retained: 2
	// oldest retained sequence: 1
}
