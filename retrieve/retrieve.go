package retrieve

import (
	"context"
	"sort"
	"strings"
)

// Document is one retrieved reference document.
type Document struct {
	ID    string
	Title string
	Text  string
	Score float64
}

// Retriever is the opaque reference-document lookup.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Retrieve must honor cancellation; long-running index
//   lookups must not outlive the request.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Document, error)
}

// Config locates the product documentation index. The index itself is an
// external collaborator; these fields are passed through to it.
type Config struct {
	IndexPath string
	IndexID   string
}

// Nop is a retriever that finds nothing. Used when no reference content
// is configured.
type Nop struct{}

// Retrieve returns no documents.
func (Nop) Retrieve(ctx context.Context, query string) ([]Document, error) {
	return nil, ctx.Err()
}

// Static retrieves from a fixed in-memory document set by naive term
// overlap. Good enough to exercise the pipeline; not a search engine.
type Static struct {
	Docs []Document
}

// Retrieve scores each document by the number of query terms its text
// contains and returns matches, best first.
func (s *Static) Retrieve(ctx context.Context, query string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	var matches []Document
	for _, doc := range s.Docs {
		text := strings.ToLower(doc.Text + " " + doc.Title)
		hits := 0
		for _, term := range terms {
			if strings.Contains(text, term) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		scored := doc
		scored.Score = float64(hits) / float64(len(terms))
		matches = append(matches, scored)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}

// Ensure implementations satisfy Retriever
var (
	_ Retriever = Nop{}
	_ Retriever = (*Static)(nil)
)
