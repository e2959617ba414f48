package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"empathy-chat-be/internal/constant"
	"empathy-chat-be/internal/entity"
	"empathy-chat-be/internal/pkg/logger"
	"empathy-chat-be/internal/repository/contract"
	"empathy-chat-be/internal/repository/specification"
	"empathy-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// IConversationService is the append-only dialogue log keyed by session.
type IConversationService interface {
	GetOrCreateSession(id string) string
	AppendTurn(ctx context.Context, sessionId, userText, assistantText string) error
	History(ctx context.Context, sessionId string, limit int) ([]*entity.ConversationTurn, error)
	ClearSession(ctx context.Context, sessionId string) error
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
	redis      *redis.Client // nil when the cache is unavailable
	logger     logger.ILogger
	cacheTTL   time.Duration
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory, redisClient *redis.Client, log logger.ILogger) IConversationService {
	return &conversationService{
		uowFactory: uowFactory,
		redis:      redisClient,
		logger:     log,
		cacheTTL:   10 * time.Minute,
	}
}

// GetOrCreateSession returns the given id unchanged, or mints a fresh one.
func (cs *conversationService) GetOrCreateSession(id string) string {
	if id != "" {
		return id
	}
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return constant.SessionIdPrefix + hex[:constant.SessionIdHexLength]
}

// AppendTurn writes the user and assistant turns as one transaction with a
// shared timestamp, so readers never observe a half-written pair.
func (cs *conversationService) AppendTurn(ctx context.Context, sessionId, userText, assistantText string) error {
	now := time.Now()

	userTurn := &entity.ConversationTurn{
		Id:        uuid.New(),
		SessionId: sessionId,
		Role:      entity.RoleUser,
		Content:   userText,
		CreatedAt: now,
	}
	assistantTurn := &entity.ConversationTurn{
		Id:        uuid.New(),
		SessionId: sessionId,
		Role:      entity.RoleAssistant,
		Content:   assistantText,
		CreatedAt: now.Add(1 * time.Millisecond),
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("%w: %v", contract.ErrStorage, err)
	}
	defer uow.Rollback()

	repo := uow.ConversationTurnRepository()
	if err := repo.Create(ctx, userTurn); err != nil {
		return fmt.Errorf("%w: %v", contract.ErrStorage, err)
	}
	if err := repo.Create(ctx, assistantTurn); err != nil {
		return fmt.Errorf("%w: %v", contract.ErrStorage, err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("%w: %v", contract.ErrStorage, err)
	}

	cs.invalidateCache(ctx, sessionId)
	return nil
}

// History returns the most recent turns in chronological order. Unknown
// sessions yield an empty slice, not an error.
func (cs *conversationService) History(ctx context.Context, sessionId string, limit int) ([]*entity.ConversationTurn, error) {
	if limit <= 0 {
		limit = constant.DefaultHistoryLimit
	}

	if cached, ok := cs.readCache(ctx, sessionId, limit); ok {
		return cached, nil
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	turns, err := uow.ConversationTurnRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: 0},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contract.ErrStorage, err)
	}

	// Fetched newest-first, returned oldest-first
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	cs.writeCache(ctx, sessionId, limit, turns)
	return turns, nil
}

func (cs *conversationService) ClearSession(ctx context.Context, sessionId string) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationTurnRepository().DeleteBySessionId(ctx, sessionId); err != nil {
		return fmt.Errorf("%w: %v", contract.ErrStorage, err)
	}
	cs.invalidateCache(ctx, sessionId)
	return nil
}

// Redis is a read-through cache; every cache failure degrades to the DB.

func historyCacheKey(sessionId string, limit int) string {
	return fmt.Sprintf("history:%s:%d", sessionId, limit)
}

func (cs *conversationService) readCache(ctx context.Context, sessionId string, limit int) ([]*entity.ConversationTurn, bool) {
	if cs.redis == nil {
		return nil, false
	}
	raw, err := cs.redis.Get(ctx, historyCacheKey(sessionId, limit)).Result()
	if err != nil {
		return nil, false
	}
	var turns []*entity.ConversationTurn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		return nil, false
	}
	return turns, true
}

func (cs *conversationService) writeCache(ctx context.Context, sessionId string, limit int, turns []*entity.ConversationTurn) {
	if cs.redis == nil {
		return
	}
	raw, err := json.Marshal(turns)
	if err != nil {
		return
	}
	if err := cs.redis.Set(ctx, historyCacheKey(sessionId, limit), raw, cs.cacheTTL).Err(); err != nil {
		cs.logger.Warn("conversation", "History cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (cs *conversationService) invalidateCache(ctx context.Context, sessionId string) {
	if cs.redis == nil {
		return
	}
	iter := cs.redis.Scan(ctx, 0, fmt.Sprintf("history:%s:*", sessionId), 100).Iterator()
	for iter.Next(ctx) {
		if err := cs.redis.Del(ctx, iter.Val()).Err(); err != nil {
			cs.logger.Warn("conversation", "History cache invalidation failed", map[string]interface{}{"error": err.Error()})
		}
	}
}
