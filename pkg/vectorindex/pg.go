package vectorindex

import (
	"context"
	"fmt"
	"time"

	"empathy-chat-be/internal/entity"
	"empathy-chat-be/internal/pkg/logger"
	"empathy-chat-be/internal/repository/contract"
	"empathy-chat-be/internal/repository/specification"
	"empathy-chat-be/internal/repository/unitofwork"
	"empathy-chat-be/pkg/embedding"

	"github.com/google/uuid"
)

// PgIndex implements Index over the exemplar repository and a pgvector store.
type PgIndex struct {
	factory           unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
	threshold         float64
}

func NewPgIndex(factory unitofwork.RepositoryFactory, embeddingProvider embedding.EmbeddingProvider, log logger.ILogger) *PgIndex {
	return &PgIndex{
		factory:           factory,
		embeddingProvider: embeddingProvider,
		logger:            log,
		threshold:         0.0,
	}
}

func (idx *PgIndex) ready() error {
	if idx.factory == nil || idx.embeddingProvider == nil {
		return ErrNotInitialized
	}
	return nil
}

// Search embeds the query and runs a filtered nearest-neighbor lookup.
// When the filter cannot be applied, the search retries once unfiltered;
// the degraded result is logged but not surfaced to the caller.
func (idx *PgIndex) Search(ctx context.Context, query string, topK int, filter Filter) ([]SearchCandidate, error) {
	if err := idx.ready(); err != nil {
		return nil, err
	}
	if topK < 1 {
		topK = 1
	}

	embeddingRes, err := idx.embeddingProvider.Generate(ctx, query, embedding.TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	queryVector := embeddingRes.Embedding.Values

	uow := idx.factory.NewUnitOfWork(ctx)
	repo := uow.ExemplarRepository()

	specs, specErr := filterSpecifications(filter)
	if specErr == nil && len(specs) > 0 {
		scored, searchErr := repo.SearchSimilarWithScore(ctx, queryVector, topK, idx.threshold, specs...)
		if searchErr == nil {
			return idx.toCandidates(scored), nil
		}
		idx.logger.Warn("vectorindex", "Filtered search failed, retrying unfiltered", map[string]interface{}{
			"filter": filter.String(),
			"error":  searchErr.Error(),
		})
	} else if specErr != nil {
		idx.logger.Warn("vectorindex", "Invalid filter, retrying unfiltered", map[string]interface{}{
			"filter": filter.String(),
			"error":  specErr.Error(),
		})
	}

	scored, err := repo.SearchSimilarWithScore(ctx, queryVector, topK, idx.threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return idx.toCandidates(scored), nil
}

// Add embeds and persists a batch of documents inside one transaction.
func (idx *PgIndex) Add(ctx context.Context, docs []Document) ([]string, error) {
	if err := idx.ready(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return []string{}, nil
	}

	exemplars := make([]*entity.Exemplar, len(docs))
	for i, doc := range docs {
		embeddingRes, err := idx.embeddingProvider.Generate(ctx, doc.Content, embedding.TaskDocument)
		if err != nil {
			return nil, fmt.Errorf("%w: document %d: %v", ErrEmbedding, i, err)
		}

		id := uuid.New()
		if doc.ID != "" {
			parsed, parseErr := uuid.Parse(doc.ID)
			if parseErr != nil {
				return nil, fmt.Errorf("invalid document id %q: %w", doc.ID, parseErr)
			}
			id = parsed
		}

		exemplars[i] = &entity.Exemplar{
			Id:             id,
			UserUtterance:  doc.Content,
			SystemResponse: doc.Metadata["system_response"],
			Emotion:        doc.Metadata["emotion"],
			Relationship:   doc.Metadata["relationship"],
			EmpathyLabel:   doc.Metadata["empathy_label"],
			EmbeddingValue: embeddingRes.Embedding.Values,
			CreatedAt:      time.Now(),
		}
	}

	uow := idx.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if err := uow.ExemplarRepository().CreateBulk(ctx, exemplars); err != nil {
		_ = uow.Rollback()
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	ids := make([]string, len(exemplars))
	for i, e := range exemplars {
		ids[i] = e.Id.String()
	}
	return ids, nil
}

func (idx *PgIndex) DeleteByIDs(ctx context.Context, ids []string) error {
	if err := idx.ready(); err != nil {
		return err
	}
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		u, err := uuid.Parse(id)
		if err != nil {
			return fmt.Errorf("invalid document id %q: %w", id, err)
		}
		parsed = append(parsed, u)
	}
	uow := idx.factory.NewUnitOfWork(ctx)
	if err := uow.ExemplarRepository().DeleteByIDs(ctx, parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (idx *PgIndex) DeleteAll(ctx context.Context) error {
	if err := idx.ready(); err != nil {
		return err
	}
	uow := idx.factory.NewUnitOfWork(ctx)
	if err := uow.ExemplarRepository().DeleteAll(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (idx *PgIndex) Stats(ctx context.Context) (*Stats, error) {
	if err := idx.ready(); err != nil {
		return nil, err
	}
	uow := idx.factory.NewUnitOfWork(ctx)
	count, err := uow.ExemplarRepository().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return &Stats{
		DocumentCount: count,
		Status:        "healthy",
	}, nil
}

func (idx *PgIndex) toCandidates(scored []*contract.ScoredExemplar) []SearchCandidate {
	candidates := make([]SearchCandidate, 0, len(scored))
	for _, s := range scored {
		if s.Exemplar == nil {
			continue
		}
		similarity := s.Similarity
		if similarity < 0 {
			similarity = 0
		}
		if similarity > 1 {
			similarity = 1
		}
		candidates = append(candidates, SearchCandidate{
			Document: Document{
				ID:      s.Exemplar.Id.String(),
				Content: s.Exemplar.UserUtterance,
				Metadata: map[string]string{
					"user_utterance":  s.Exemplar.UserUtterance,
					"system_response": s.Exemplar.SystemResponse,
					"emotion":         s.Exemplar.Emotion,
					"relationship":    s.Exemplar.Relationship,
					"empathy_label":   s.Exemplar.EmpathyLabel,
				},
			},
			Similarity: similarity,
		})
	}
	return candidates
}

// filterSpecifications translates the filter into repository specifications.
func filterSpecifications(f Filter) ([]specification.Specification, error) {
	if f.IsEmpty() {
		return nil, nil
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return flattenFilter(f), nil
}

func flattenFilter(f Filter) []specification.Specification {
	switch f.Kind {
	case FilterEquals:
		return []specification.Specification{specification.Filter(f.Field, f.Value)}
	case FilterAnd:
		var specs []specification.Specification
		for _, child := range f.Children {
			specs = append(specs, flattenFilter(child)...)
		}
		return specs
	default:
		return nil
	}
}

var _ Index = (*PgIndex)(nil)
