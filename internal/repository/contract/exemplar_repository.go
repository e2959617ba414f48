package contract

import (
	"context"

	"empathy-chat-be/internal/entity"
	"empathy-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredExemplar wraps an Exemplar with its similarity score
type ScoredExemplar struct {
	Exemplar   *entity.Exemplar
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type ExemplarRepository interface {
	Create(ctx context.Context, exemplar *entity.Exemplar) error
	CreateBulk(ctx context.Context, exemplars []*entity.Exemplar) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
	DeleteAll(ctx context.Context) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Exemplar, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Exemplar, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns exemplars with their similarity scores,
	// most similar first, optionally narrowed by metadata specifications.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64, specs ...specification.Specification) ([]*ScoredExemplar, error)
}
