package retrieve

import (
	"context"
	"errors"
	"testing"
)

func TestNop_Retrieve(t *testing.T) {
	docs, err := Nop{}.Retrieve(context.Background(), "anything")
	if err != nil || docs != nil {
		t.Errorf("Nop.Retrieve = (%v, %v), want (nil, nil)", docs, err)
	}
}

func TestStatic_Retrieve(t *testing.T) {
	s := &Static{Docs: []Document{
		{ID: "1", Title: "Scaling deployments", Text: "use replicas to scale a deployment"},
		{ID: "2", Title: "Networking", Text: "services route traffic to pods"},
		{ID: "3", Title: "Storage", Text: "persistent volumes outlive pods"},
	}}

	docs, err := s.Retrieve(context.Background(), "scale deployment replicas")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(docs) == 0 || docs[0].ID != "1" {
		t.Fatalf("Retrieve = %+v, want document 1 ranked first", docs)
	}
	if docs[0].Score <= 0 || docs[0].Score > 1 {
		t.Errorf("Score = %f, want in (0, 1]", docs[0].Score)
	}
}

func TestStatic_Retrieve_NoMatch(t *testing.T) {
	s := &Static{Docs: []Document{
		{ID: "1", Text: "unrelated content"},
	}}

	docs, err := s.Retrieve(context.Background(), "quantum chromodynamics")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("Retrieve = %+v, want no documents", docs)
	}
}

func TestStatic_Retrieve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Static{Docs: []Document{{ID: "1", Text: "text"}}}
	if _, err := s.Retrieve(ctx, "text"); !errors.Is(err, context.Canceled) {
		t.Errorf("Retrieve with cancelled ctx = %v, want context.Canceled", err)
	}
}
