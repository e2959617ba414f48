package events

import "time"

const (
	TypeConversationTurnSaved = "CONVERSATION_TURN_SAVED"
	TypeExemplarsIngested     = "EXEMPLARS_INGESTED"
)

// NewConversationTurnSaved is emitted after a user/assistant pair is persisted.
func NewConversationTurnSaved(sessionId, strategy string) Event {
	return BaseEvent{
		Type: TypeConversationTurnSaved,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"strategy":   strategy,
		},
		OccurredAt: time.Now(),
	}
}

// NewExemplarsIngested is emitted after a corpus batch lands in the index.
func NewExemplarsIngested(count int) Event {
	return BaseEvent{
		Type: TypeExemplarsIngested,
		Data: map[string]interface{}{
			"count": count,
		},
		OccurredAt: time.Now(),
	}
}
