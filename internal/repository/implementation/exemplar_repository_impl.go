package implementation

import (
	"context"
	"errors"

	"empathy-chat-be/internal/entity"
	"empathy-chat-be/internal/mapper"
	"empathy-chat-be/internal/model"
	"empathy-chat-be/internal/repository/contract"
	"empathy-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ExemplarRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ExemplarMapper
}

func NewExemplarRepository(db *gorm.DB) contract.ExemplarRepository {
	return &ExemplarRepositoryImpl{
		db:     db,
		mapper: mapper.NewExemplarMapper(),
	}
}

func (r *ExemplarRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ExemplarRepositoryImpl) Create(ctx context.Context, exemplar *entity.Exemplar) error {
	m := r.mapper.ToModel(exemplar)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*exemplar = *r.mapper.ToEntity(m)
	return nil
}

func (r *ExemplarRepositoryImpl) CreateBulk(ctx context.Context, exemplars []*entity.Exemplar) error {
	models := make([]*model.Exemplar, len(exemplars))
	for i, e := range exemplars {
		models[i] = r.mapper.ToModel(e)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	// Update IDs back to entities
	for i, m := range models {
		*exemplars[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ExemplarRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Exemplar{}, id).Error
}

func (r *ExemplarRepositoryImpl) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Exemplar{}).Error
}

func (r *ExemplarRepositoryImpl) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Exemplar{}).Error
}

func (r *ExemplarRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Exemplar, error) {
	var m model.Exemplar
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ExemplarRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Exemplar, error) {
	var models []*model.Exemplar
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ExemplarRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Exemplar{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore returns exemplars with similarity scores, filtered by threshold.
// Cosine distance in pgvector is 1 - cosine_similarity, so similarity is
// computed as 1 - (embedding_value <=> query_vector).
func (r *ExemplarRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64, specs ...specification.Specification) ([]*contract.ScoredExemplar, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.Exemplar
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("exemplars").
		Select("exemplars.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold)

	query = r.applySpecifications(query, specs...)

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredExemplar, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredExemplar{
			Exemplar:   r.mapper.ToEntity(&res.Exemplar),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
