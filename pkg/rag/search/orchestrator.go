package search

import (
	"context"
	"log"

	"empathy-chat-be/pkg/vectorindex"
)

// Tags are the optional metadata constraints for a retrieval call.
type Tags struct {
	Emotion      string
	Relationship string
}

// Config encapsulates search parameters
type Config struct {
	TopK int
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return Config{
		TopK: 10,
	}
}

// Orchestrator builds the metadata filter and issues the vector search.
type Orchestrator struct {
	index  vectorindex.Index
	logger *log.Logger
}

func NewOrchestrator(index vectorindex.Index, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		index:  index,
		logger: logger,
	}
}

// Execute runs the similarity search. The index handles filter fallback
// internally, so callers only ever see a candidate list.
func (o *Orchestrator) Execute(ctx context.Context, query string, tags Tags, config Config) ([]vectorindex.SearchCandidate, error) {
	filter := BuildFilter(tags)

	candidates, err := o.index.Search(ctx, query, config.TopK, filter)
	if err != nil {
		o.logger.Printf("[ERROR] Vector search failed: %v", err)
		return nil, err
	}

	o.logger.Printf("[SEARCH] %d candidates for query '%s' (filter: %s)", len(candidates), query, filter.String())
	return candidates, nil
}

// BuildFilter produces a conjunctive filter over whichever tags are present.
func BuildFilter(tags Tags) vectorindex.Filter {
	var clauses []vectorindex.Filter
	if tags.Emotion != "" {
		clauses = append(clauses, vectorindex.Equals("emotion", tags.Emotion))
	}
	if tags.Relationship != "" {
		clauses = append(clauses, vectorindex.Equals("relationship", tags.Relationship))
	}

	switch len(clauses) {
	case 0:
		return vectorindex.NoFilter()
	case 1:
		return clauses[0]
	default:
		return vectorindex.And(clauses...)
	}
}
