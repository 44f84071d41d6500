package service

import (
	"context"
	"encoding/json"

	"campus-assistant-be/internal/dto"
	"campus-assistant-be/internal/pkg/logger"
	"campus-assistant-be/internal/repository/contract"
	"campus-assistant-be/internal/repository/specification"
	"campus-assistant-be/pkg/rag/corpus"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IIndexerService consumes document-indexing events and materializes the
// vector index entry for each newly uploaded document.
type IIndexerService interface {
	Consume(ctx context.Context) error
}

type indexerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	documentRepo contract.DocumentRepository
	index        *corpus.Index
	log          logger.ILogger
}

func NewIndexerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	documentRepo contract.DocumentRepository,
	index *corpus.Index,
	log logger.ILogger,
) IIndexerService {
	return &indexerService{
		pubSub:       pubSub,
		topicName:    topicName,
		documentRepo: documentRepo,
		index:        index,
		log:          log,
	}
}

func (is *indexerService) Consume(ctx context.Context) error {
	messages, err := is.pubSub.Subscribe(ctx, is.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			is.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (is *indexerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIndexDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		is.log.Error("indexer", "unmarshal index event failed", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed payloads never become valid on retry
		return
	}

	doc, err := is.documentRepo.FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		is.log.Error("indexer", "fetch document failed", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	if doc == nil {
		is.log.Warn("indexer", "document not found, dropping event", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
		})
		msg.Ack()
		return
	}

	// The file name keys the index entry: re-uploads of the same file are
	// silently skipped at insert time.
	if err := is.index.Insert(ctx, doc.File, doc.Category, doc.Text); err != nil {
		is.log.Error("indexer", "index document failed", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
			"file":        doc.File,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	if err := is.index.RefreshCategories(ctx); err != nil {
		is.log.Warn("indexer", "category refresh failed", map[string]interface{}{"error": err.Error()})
	}

	is.log.Info("indexer", "document indexed", map[string]interface{}{
		"document_id": payload.DocumentId.String(),
		"file":        doc.File,
		"category":    doc.Category,
	})
	msg.Ack()
}
