package vectorindex

import (
	"context"
	"errors"
)

var (
	// ErrNotInitialized is returned when the index backend has not been set up.
	ErrNotInitialized = errors.New("vector index not initialized")
	// ErrEmbedding is returned when the query or document text could not be embedded.
	ErrEmbedding = errors.New("embedding generation failed")
	// ErrBackendUnavailable is returned when the storage backend cannot be reached.
	ErrBackendUnavailable = errors.New("vector backend unavailable")
	// ErrInvalidFilter is returned when a metadata predicate references unknown fields.
	ErrInvalidFilter = errors.New("invalid metadata filter")
)

// Document is a unit of indexed content plus its filterable metadata.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// SearchCandidate is one retrieval hit, most similar first.
type SearchCandidate struct {
	Document   Document
	Similarity float64
}

// Stats summarizes index health for diagnostics endpoints.
type Stats struct {
	DocumentCount int64  `json:"document_count"`
	Status        string `json:"status"`
}

// Index is the retrieval contract the response pipeline depends on.
type Index interface {
	Search(ctx context.Context, query string, topK int, filter Filter) ([]SearchCandidate, error)
	Add(ctx context.Context, docs []Document) ([]string, error)
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteAll(ctx context.Context) error
	Stats(ctx context.Context) (*Stats, error)
}
