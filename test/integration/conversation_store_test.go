package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"empathy-chat-be/internal/entity"
	"empathy-chat-be/internal/pkg/logger"
	"empathy-chat-be/internal/repository/unitofwork"
	"empathy-chat-be/internal/service"
	"empathy-chat-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestConversationStore(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ExemplarRepository())
	assert.NotNil(t, uow.ConversationTurnRepository())

	sqlDB, _ := gormDB.DB()
	assert.NoError(t, sqlDB.Ping())

	testLogger := logger.NewIsolatedLogger("../../logs/test_integration.log")
	defer testLogger.Sync()

	svc := service.NewConversationService(uowFactory, nil, testLogger)
	ctx := context.Background()

	sessionId := svc.GetOrCreateSession("")
	t.Logf("Using fresh session %s", sessionId)
	defer func() {
		if err := svc.ClearSession(ctx, sessionId); err != nil {
			t.Logf("cleanup failed: %v", err)
		}
	}()

	t.Run("Append And Read Pair", func(t *testing.T) {
		err := svc.AppendTurn(ctx, sessionId, "오늘 너무 힘들었어", "무슨 일 있었어? 얘기해줘.")
		assert.NoError(t, err)

		turns, err := svc.History(ctx, sessionId, 10)
		assert.NoError(t, err)
		assert.Len(t, turns, 2)
		assert.Equal(t, entity.RoleUser, turns[0].Role)
		assert.Equal(t, entity.RoleAssistant, turns[1].Role)
		assert.Equal(t, "오늘 너무 힘들었어", turns[0].Content)
	})

	t.Run("Limit Keeps Newest Turns", func(t *testing.T) {
		err := svc.AppendTurn(ctx, sessionId, "친구랑 화해했어", "잘했어, 정말 다행이다!")
		assert.NoError(t, err)

		turns, err := svc.History(ctx, sessionId, 2)
		assert.NoError(t, err)
		assert.Len(t, turns, 2)
		// Oldest of the kept window first, assistant turn of the same pair last.
		assert.Equal(t, "친구랑 화해했어", turns[0].Content)
		assert.Equal(t, entity.RoleAssistant, turns[1].Role)
	})

	t.Run("Unknown Session Is Empty", func(t *testing.T) {
		turns, err := svc.History(ctx, "session_does_not_exist", 10)
		assert.NoError(t, err)
		assert.Empty(t, turns)
	})
}
