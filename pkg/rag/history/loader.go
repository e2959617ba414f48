package history

import (
	"empathy-chat-be/internal/entity"
	"empathy-chat-be/pkg/llm"
)

// BuildMessages converts stored turns, oldest first, into chat messages.
func BuildMessages(turns []*entity.ConversationTurn) []llm.Message {
	messages := make([]llm.Message, len(turns))
	for i, turn := range turns {
		messages[i] = llm.Message{
			Role:    turn.Role,
			Content: turn.Content,
		}
	}
	return messages
}
