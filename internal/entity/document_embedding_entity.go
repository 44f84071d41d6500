package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentEmbedding is one vector index entry. DocumentId (the source file
// name) is unique: re-inserting an existing id is a silent no-op, so a
// re-uploaded file never refreshes its indexed content.
type DocumentEmbedding struct {
	Id             uuid.UUID
	DocumentId     string
	Category       string
	Document       string
	EmbeddingValue []float32
	CreatedAt      time.Time
}
