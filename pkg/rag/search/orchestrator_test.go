package search

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"empathy-chat-be/pkg/vectorindex"
)

type fakeIndex struct {
	candidates []vectorindex.SearchCandidate
	err        error

	lastQuery  string
	lastTopK   int
	lastFilter vectorindex.Filter
}

func (f *fakeIndex) Search(ctx context.Context, query string, topK int, filter vectorindex.Filter) ([]vectorindex.SearchCandidate, error) {
	f.lastQuery = query
	f.lastTopK = topK
	f.lastFilter = filter
	return f.candidates, f.err
}

func (f *fakeIndex) Add(ctx context.Context, docs []vectorindex.Document) ([]string, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeIndex) DeleteByIDs(ctx context.Context, ids []string) error { return nil }
func (f *fakeIndex) DeleteAll(ctx context.Context) error                 { return nil }
func (f *fakeIndex) Stats(ctx context.Context) (*vectorindex.Stats, error) {
	return &vectorindex.Stats{}, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name string
		tags Tags
		want string
	}{
		{"no tags", Tags{}, "none"},
		{"emotion only", Tags{Emotion: "불안"}, "emotion=불안"},
		{"relationship only", Tags{Relationship: "부모님"}, "relationship=부모님"},
		{
			"both tags",
			Tags{Emotion: "상처", Relationship: "친구"},
			"and(emotion=상처, relationship=친구)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := BuildFilter(tt.tags)
			if err := filter.Validate(); err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if got := filter.String(); got != tt.want {
				t.Errorf("BuildFilter(%+v) = %s, want %s", tt.tags, got, tt.want)
			}
		})
	}
}

func TestExecutePassesParameters(t *testing.T) {
	index := &fakeIndex{
		candidates: []vectorindex.SearchCandidate{
			{Document: vectorindex.Document{ID: "doc-1"}, Similarity: 0.92},
		},
	}
	orchestrator := NewOrchestrator(index, testLogger())

	got, err := orchestrator.Execute(context.Background(), "친구 갈등 고민",
		Tags{Emotion: "상처", Relationship: "친구"}, Config{TopK: 7})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(got) != 1 || got[0].Document.ID != "doc-1" {
		t.Errorf("candidates = %+v", got)
	}
	if index.lastQuery != "친구 갈등 고민" {
		t.Errorf("query = %q", index.lastQuery)
	}
	if index.lastTopK != 7 {
		t.Errorf("topK = %d, want 7", index.lastTopK)
	}
	if index.lastFilter.String() != "and(emotion=상처, relationship=친구)" {
		t.Errorf("filter = %s", index.lastFilter.String())
	}
}

func TestExecuteIndexError(t *testing.T) {
	index := &fakeIndex{err: vectorindex.ErrBackendUnavailable}
	orchestrator := NewOrchestrator(index, testLogger())

	_, err := orchestrator.Execute(context.Background(), "질문", Tags{}, DefaultConfig())
	if !errors.Is(err, vectorindex.ErrBackendUnavailable) {
		t.Fatalf("error = %v, want ErrBackendUnavailable", err)
	}
}
