package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"smart-hire-be/internal/config"
	"smart-hire-be/internal/controller"
	"smart-hire-be/internal/handler"
	"smart-hire-be/internal/pkg/logger"
	"smart-hire-be/internal/pkg/mailer"
	"smart-hire-be/internal/repository/implementation"
	"smart-hire-be/internal/repository/memory"
	"smart-hire-be/internal/service"
	"smart-hire-be/internal/websocket"
	"smart-hire-be/pkg/contractgen"
	"smart-hire-be/pkg/embedding"
	"smart-hire-be/pkg/engine/composer"
	"smart-hire-be/pkg/engine/dispatcher"
	"smart-hire-be/pkg/linkedin"
	"smart-hire-be/pkg/llm/factory"
	"smart-hire-be/pkg/mailsync"
	"smart-hire-be/pkg/matching"
	pktNats "smart-hire-be/pkg/nats"
)

// embedTopic is the in-process queue carrying candidate embedding requests.
const embedTopic = "candidate_embed"

type Container struct {
	// Controllers
	ChatController      controller.IChatController
	CandidateController controller.ICandidateController
	LinkedInController  controller.ILinkedInController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	candidateRepo := implementation.NewCandidateRepository(db)
	embeddingRepo := implementation.NewCandidateEmbeddingRepository(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	engineLogger := log.Default()

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider := embedding.NewOllamaProvider(
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OllamaEmbeddingModel,
	)
	log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.LLMAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Initialize In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
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
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Queue Services
	publisherService := service.NewPublisherService(embedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		embedTopic,
		candidateRepo,
		embeddingRepo,
		embeddingProvider,
	)

	// 5. Dialogue Engine Collaborators
	candidatePool := service.NewCandidateStore(candidateRepo, publisherService, natsPub)
	candidateDir := service.NewCandidateDirectory(candidateRepo)

	matcher := matching.New(llmProvider, engineLogger)
	renderer := contractgen.New(cfg.App.ContractDir)
	syncer := mailsync.New(mailsync.NewExtractor(llmProvider), candidatePool, engineLogger)

	linkedInClient := linkedin.NewClient(
		cfg.LinkedIn.ClientID,
		cfg.LinkedIn.ClientSecret,
		cfg.LinkedIn.RedirectURL,
		cfg.LinkedIn.TokenPath,
		engineLogger,
	)
	linkedInPublisher := linkedin.NewPublisher(linkedInClient, linkedin.NewComposer(llmProvider), cfg.App.DraftDir)

	disp := dispatcher.New(
		matcher,
		emailService,
		renderer,
		linkedInPublisher,
		syncer,
		candidateDir,
		dispatcher.SyncCredentials{
			Email:      cfg.IMAP.Email,
			Password:   cfg.IMAP.Password,
			IMAPServer: cfg.IMAP.Server,
		},
		engineLogger,
	)
	comp := composer.New(llmProvider, disp, candidateDir, engineLogger)

	// 6. Services
	chatService := service.NewChatService(comp, disp, sessionRepo, natsPub)
	candidateService := service.NewCandidateService(
		candidateRepo,
		embeddingRepo,
		publisherService,
		embeddingProvider,
		natsPub,
	)

	// 7. Notification System
	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(wsHub, wsLogger)

	sysLogger.Info("Bootstrap", "Container initialized", map[string]interface{}{
		"llm_provider":     cfg.Ai.LLMProvider,
		"embedding_model":  cfg.Ai.OllamaEmbeddingModel,
		"smtp_configured":  emailService.Configured(),
		"linkedin_enabled": linkedInClient.IsConfigured(),
	})

	return &Container{
		ChatController:      controller.NewChatController(chatService),
		CandidateController: controller.NewCandidateController(candidateService),
		LinkedInController:  controller.NewLinkedInController(linkedInClient),

		ConsumerService: consumerService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
