package unitofwork

import (
	"context"

	"empathy-chat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ExemplarRepository() contract.ExemplarRepository
	ConversationTurnRepository() contract.ConversationTurnRepository
}
