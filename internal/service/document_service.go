package service

import (
	"context"
	"fmt"
	"time"

	"campus-assistant-be/internal/dto"
	"campus-assistant-be/internal/entity"
	"campus-assistant-be/internal/pkg/apperr"
	"campus-assistant-be/internal/pkg/logger"
	"campus-assistant-be/internal/pkg/serverutils"
	"campus-assistant-be/internal/repository/contract"
	"campus-assistant-be/pkg/pdftext"

	"github.com/google/uuid"
)

type IDocumentService interface {
	// UploadPDF extracts the PDF text, appends it to the dataset and
	// schedules asynchronous indexing.
	UploadPDF(ctx context.Context, request *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error)
	ListCategories(ctx context.Context) (*dto.ListCategoriesResponse, error)
}

type documentService struct {
	documentRepo contract.DocumentRepository
	extractor    pdftext.Extractor
	publisher    IPublisherService
	topicName    string
	log          logger.ILogger
}

func NewDocumentService(
	documentRepo contract.DocumentRepository,
	extractor pdftext.Extractor,
	publisher IPublisherService,
	topicName string,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		documentRepo: documentRepo,
		extractor:    extractor,
		publisher:    publisher,
		topicName:    topicName,
		log:          log,
	}
}

func (ds *documentService) UploadPDF(ctx context.Context, request *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error) {
	if err := serverutils.ValidateRequest(request); err != nil {
		return nil, err
	}

	// Extraction failures abort the upload before anything is persisted.
	text, err := ds.extractor.Extract(request.FileName, request.Content)
	if err != nil {
		return nil, apperr.NewExtraction(request.FileName, err)
	}

	doc := &entity.Document{
		Id:        uuid.New(),
		File:      request.FileName,
		Category:  request.Category,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := ds.documentRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("persist document %s: %w", request.FileName, err)
	}

	if err := ds.publisher.Publish(ds.topicName, dto.PublishIndexDocumentMessage{DocumentId: doc.Id}); err != nil {
		// The dataset row is already durable; indexing can be replayed.
		ds.log.Error("document", "publish index event failed", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
	}

	ds.log.Info("document", "pdf uploaded", map[string]interface{}{
		"file":     doc.File,
		"category": doc.Category,
		"chars":    len(text),
	})

	return &dto.UploadDocumentResponse{
		Message:   fmt.Sprintf("document '%s' accepted for indexing", doc.File),
		Category:  doc.Category,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (ds *documentService) ListCategories(ctx context.Context) (*dto.ListCategoriesResponse, error) {
	categories, err := ds.documentRepo.DistinctCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return &dto.ListCategoriesResponse{Categories: categories}, nil
}
