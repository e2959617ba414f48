package mapper

import (
	"empathy-chat-be/internal/entity"
	"empathy-chat-be/internal/model"
)

type ConversationTurnMapper struct{}

func NewConversationTurnMapper() *ConversationTurnMapper {
	return &ConversationTurnMapper{}
}

func (m *ConversationTurnMapper) ToEntity(e *model.ConversationTurn) *entity.ConversationTurn {
	if e == nil {
		return nil
	}
	return &entity.ConversationTurn{
		Id:        e.Id,
		SessionId: e.SessionId,
		Role:      e.Role,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
	}
}

func (m *ConversationTurnMapper) ToModel(e *entity.ConversationTurn) *model.ConversationTurn {
	if e == nil {
		return nil
	}
	return &model.ConversationTurn{
		Id:        e.Id,
		SessionId: e.SessionId,
		Role:      e.Role,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
	}
}

func (m *ConversationTurnMapper) ToEntities(models []*model.ConversationTurn) []*entity.ConversationTurn {
	entities := make([]*entity.ConversationTurn, len(models))
	for i, e := range models {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
