package contract

import (
	"context"

	"campus-assistant-be/internal/entity"
)

// ScoredDocumentEmbedding pairs an index entry with its cosine similarity
// to the query vector.
type ScoredDocumentEmbedding struct {
	Embedding  *entity.DocumentEmbedding
	Similarity float64
}

// DocumentEmbeddingRepository is the vector index: entries keyed by the
// unique document id with category metadata, queryable by similarity.
type DocumentEmbeddingRepository interface {
	// InsertIgnoreDuplicate stores an entry unless one with the same
	// document id already exists; duplicates are silently skipped.
	InsertIgnoreDuplicate(ctx context.Context, embedding *entity.DocumentEmbedding) error
	// SearchSimilarWithScore returns the top-k entries by cosine
	// similarity. An empty category applies no metadata filter.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, category string) ([]*ScoredDocumentEmbedding, error)
}
