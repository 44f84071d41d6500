package dto

import (
	"time"

	"github.com/google/uuid"
)

// UploadDocumentRequest carries an extracted-or-pending PDF upload. The raw
// bytes come from the multipart form; Category is the topical label the
// document is indexed under.
type UploadDocumentRequest struct {
	FileName string `validate:"required"`
	Category string `validate:"required"`
	Content  []byte `validate:"required"`
}

type UploadDocumentResponse struct {
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type ListCategoriesResponse struct {
	Categories []string `json:"categories"`
}

// PublishIndexDocumentMessage is the payload of the document-indexing event.
type PublishIndexDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
