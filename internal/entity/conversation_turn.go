package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConversationTurn is a single utterance in a session, either side.
type ConversationTurn struct {
	Id        uuid.UUID
	SessionId string
	Role      string
	Content   string
	CreatedAt time.Time
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
