package bootstrap

import (
	"context"
	"log"
	"time"

	"empathy-chat-be/internal/config"
	"empathy-chat-be/internal/controller"
	"empathy-chat-be/internal/pkg/logger"
	"empathy-chat-be/internal/repository/memory"
	"empathy-chat-be/internal/repository/unitofwork"
	"empathy-chat-be/internal/service"
	"empathy-chat-be/pkg/embedding"
	"empathy-chat-be/pkg/llm/factory"
	"empathy-chat-be/pkg/texttransform"
	"empathy-chat-be/pkg/vectorindex"

	pktNats "empathy-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	VectorController controller.IVectorController
	HealthController controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, cfg.App.NatsStream)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	// 5. Domain wiring
	index := vectorindex.NewPgIndex(uowFactory, embeddingProvider, sysLogger)
	traceRepo := memory.NewTraceRepository()

	var transformer texttransform.Transformer = texttransform.Noop{}
	if cfg.Pipeline.RegisterConvert {
		transformer = texttransform.NewInformalConverter()
	}

	conversationService := service.NewConversationService(uowFactory, rdb, sysLogger)
	chatService := service.NewChatService(
		conversationService,
		traceRepo,
		natsPub,
		llmProvider,
		index,
		transformer,
		service.ChatConfig{
			TopK:         cfg.Pipeline.TopK,
			HistoryLimit: cfg.Pipeline.HistoryLimit,
			Timeout:      time.Duration(cfg.Pipeline.TimeoutSeconds) * time.Second,
		},
		sysLogger,
	)
	vectorService := service.NewVectorService(index, pubSub, cfg.Keys.IngestTopic)
	consumerService := service.NewConsumerService(pubSub, cfg.Keys.IngestTopic, index, natsPub)

	return &Container{
		ChatController:   controller.NewChatController(chatService),
		VectorController: controller.NewVectorController(vectorService),
		HealthController: controller.NewHealthController(vectorService),

		ConsumerService: consumerService,

		Logger: sysLogger,
	}
}
