package service

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"empathy-chat-be/internal/dto"
	"empathy-chat-be/internal/pkg/logger"
	"empathy-chat-be/internal/repository/memory"
	"empathy-chat-be/pkg/events"
	"empathy-chat-be/pkg/llm"
	"empathy-chat-be/pkg/nats"
	"empathy-chat-be/pkg/rag/executor"
	"empathy-chat-be/pkg/rag/history"
	"empathy-chat-be/pkg/rag/search"
	"empathy-chat-be/pkg/rag/trace"
	"empathy-chat-be/pkg/texttransform"
	"empathy-chat-be/pkg/vectorindex"
)

// IChatService is the single entry point over the response pipeline.
type IChatService interface {
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	SendChatDebug(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatDebugResponse, error)
	GetHistory(ctx context.Context, sessionId string, limit int) (*dto.HistoryResponse, error)
	GetTrace(sessionId string) (*trace.Trace, bool)
}

type ChatConfig struct {
	TopK         int
	HistoryLimit int
	Timeout      time.Duration
}

type chatService struct {
	conversations IConversationService
	traceRepo     *memory.TraceRepository
	publisher     *nats.Publisher // nil when the event bus is unavailable
	executor      *executor.PipelineExecutor
	cfg           ChatConfig
	logger        logger.ILogger
	llmLogger     *log.Logger
}

func NewChatService(
	conversations IConversationService,
	traceRepo *memory.TraceRepository,
	publisher *nats.Publisher,
	llmProvider llm.LLMProvider,
	index vectorindex.Index,
	transformer texttransform.Transformer,
	cfg ChatConfig,
	appLogger logger.ILogger,
) IChatService {
	llmLogger := initLLMLogger()

	if cfg.TopK <= 0 {
		cfg.TopK = search.DefaultConfig().TopK
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 6
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &chatService{
		conversations: conversations,
		traceRepo:     traceRepo,
		publisher:     publisher,
		executor: executor.NewPipelineExecutor(
			llmProvider,
			index,
			transformer,
			search.Config{TopK: cfg.TopK},
			llmLogger,
		),
		cfg:       cfg,
		logger:    appLogger,
		llmLogger: llmLogger,
	}
}

func initLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[PIPELINE] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (cs *chatService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	sessionId, _, reply, err := cs.run(ctx, request)
	if err != nil {
		return nil, err
	}
	return &dto.SendChatResponse{
		SessionId: sessionId,
		Response:  reply,
	}, nil
}

func (cs *chatService) SendChatDebug(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatDebugResponse, error) {
	sessionId, tr, reply, err := cs.run(ctx, request)
	if err != nil {
		return nil, err
	}
	return &dto.SendChatDebugResponse{
		SessionId:  sessionId,
		Response:   reply,
		Strategy:   tr.Strategy,
		Steps:      tr.Steps,
		ReActSteps: tr.ReActSteps,
	}, nil
}

// run executes the full seven-step invocation under one timeout budget.
func (cs *chatService) run(ctx context.Context, request *dto.SendChatRequest) (string, *trace.Trace, string, error) {
	ctx, cancel := context.WithTimeout(ctx, cs.cfg.Timeout)
	defer cancel()

	// Context loading
	sessionId := cs.conversations.GetOrCreateSession(request.SessionId)
	tr := trace.New(sessionId)

	turns, err := cs.conversations.History(ctx, sessionId, cs.cfg.HistoryLimit)
	if err != nil {
		return "", nil, "", err
	}
	historyMessages := history.BuildMessages(turns)
	tr.AddStep("context_loading", sessionId, historyMessages)

	// Retrieval-and-decision pipeline
	result, err := cs.executor.Execute(ctx, request.Message, historyMessages, tr)
	if err != nil {
		cs.traceRepo.Save(tr)
		return "", nil, "", err
	}

	// Persistence failure is logged, never propagated: the generated reply
	// is worth more than one turn's durability.
	if err := cs.conversations.AppendTurn(ctx, sessionId, request.Message, result.Reply); err != nil {
		cs.logger.Error("chat", "Failed to save conversation turn", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	} else {
		cs.publishTurnSaved(sessionId, result.Composition.Strategy)
	}
	tr.AddStep("save_conversation", request.Message, result.Reply)

	cs.traceRepo.Save(tr)
	return sessionId, tr, result.Reply, nil
}

func (cs *chatService) publishTurnSaved(sessionId, strategy string) {
	if cs.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cs.publisher.Publish(ctx, events.NewConversationTurnSaved(sessionId, strategy)); err != nil {
		cs.logger.Warn("chat", "Failed to publish turn-saved event", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

func (cs *chatService) GetHistory(ctx context.Context, sessionId string, limit int) (*dto.HistoryResponse, error) {
	turns, err := cs.conversations.History(ctx, sessionId, limit)
	if err != nil {
		return nil, err
	}

	response := &dto.HistoryResponse{
		SessionId: sessionId,
		Turns:     make([]dto.TurnResponse, 0, len(turns)),
	}
	for _, turn := range turns {
		response.Turns = append(response.Turns, dto.TurnResponse{
			Role:      turn.Role,
			Content:   turn.Content,
			CreatedAt: turn.CreatedAt,
		})
	}
	return response, nil
}

func (cs *chatService) GetTrace(sessionId string) (*trace.Trace, bool) {
	return cs.traceRepo.Get(sessionId)
}
