package mapper

import (
	"time"

	"empathy-chat-be/internal/entity"
	"empathy-chat-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ExemplarMapper struct{}

func NewExemplarMapper() *ExemplarMapper {
	return &ExemplarMapper{}
}

func (m *ExemplarMapper) ToEntity(e *model.Exemplar) *entity.Exemplar {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.Exemplar{
		Id:             e.Id,
		UserUtterance:  e.UserUtterance,
		SystemResponse: e.SystemResponse,
		Emotion:        e.Emotion,
		Relationship:   e.Relationship,
		EmpathyLabel:   e.EmpathyLabel,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *ExemplarMapper) ToModel(e *entity.Exemplar) *model.Exemplar {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.Exemplar{
		Id:             e.Id,
		UserUtterance:  e.UserUtterance,
		SystemResponse: e.SystemResponse,
		Emotion:        e.Emotion,
		Relationship:   e.Relationship,
		EmpathyLabel:   e.EmpathyLabel,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *ExemplarMapper) ToEntities(models []*model.Exemplar) []*entity.Exemplar {
	entities := make([]*entity.Exemplar, len(models))
	for i, e := range models {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *ExemplarMapper) ToModels(entities []*entity.Exemplar) []*model.Exemplar {
	models := make([]*model.Exemplar, len(entities))
	for i, e := range entities {
		models[i] = m.ToModel(e)
	}
	return models
}
