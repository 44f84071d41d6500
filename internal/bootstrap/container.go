package bootstrap

import (
	"context"
	"log"
	"time"

	"campus-assistant-be/internal/config"
	"campus-assistant-be/internal/controller"
	"campus-assistant-be/internal/pkg/logger"
	"campus-assistant-be/internal/repository/implementation"
	"campus-assistant-be/internal/service"
	"campus-assistant-be/pkg/embedding"
	embeddingJina "campus-assistant-be/pkg/embedding/jina"
	"campus-assistant-be/pkg/llm/factory"
	"campus-assistant-be/pkg/pdftext"
	"campus-assistant-be/pkg/rag/classifier"
	"campus-assistant-be/pkg/rag/corpus"
	"campus-assistant-be/pkg/rag/session"
	rerankJina "campus-assistant-be/pkg/rerank/jina"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController

	// Background services (exposed for main.go to run)
	IndexerService service.IIndexerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// Embedding provider
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "jina":
		embeddingProvider = embeddingJina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	default:
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)
	}

	// LLM provider
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Repositories
	documentRepo := implementation.NewDocumentRepository(db)
	embeddingRepo := implementation.NewDocumentEmbeddingRepository(db)

	// Retrieval core
	index := corpus.NewIndex(embeddingProvider, embeddingRepo, documentRepo)
	if err := index.Bootstrap(context.Background()); err != nil {
		log.Printf("[WARN] Category bootstrap failed: %v", err)
	}

	queryClassifier := classifier.NewClassifier(llmProvider)
	reranker := rerankJina.NewJinaReranker(cfg.Keys.Jina, cfg.Ai.RerankModel)
	memory := session.NewMemory(cfg.Chat.MaxHistory, time.Duration(cfg.Chat.SessionTTLMinutes)*time.Minute)

	// Services
	publisherService := service.NewPublisherService(pubSub)
	indexerService := service.NewIndexerService(pubSub, cfg.Keys.IndexTopicName, documentRepo, index, sysLogger)
	documentService := service.NewDocumentService(documentRepo, pdftext.NewPDFExtractor(), publisherService, cfg.Keys.IndexTopicName, sysLogger)
	chatService := service.NewChatService(index, queryClassifier, reranker, llmProvider, memory, sysLogger)

	return &Container{
		ChatController:     controller.NewChatController(chatService),
		DocumentController: controller.NewDocumentController(documentService),
		IndexerService:     indexerService,
		Logger:             sysLogger,
	}
}
