// Package corpus fronts the vector index: embedding queries and documents,
// similarity search with optional category filtering, and the cached
// category set derived from the dataset.
package corpus

import (
	"context"
	"fmt"
	"sync/atomic"

	"campus-assistant-be/internal/entity"
	"campus-assistant-be/internal/repository/contract"
	"campus-assistant-be/pkg/embedding"
	"campus-assistant-be/pkg/store"
)

const (
	taskQuery    = "RETRIEVAL_QUERY"
	taskDocument = "RETRIEVAL_DOCUMENT"
)

// Index owns the retrieval side of the corpus. The category set is a
// lock-free snapshot refreshed whenever the dataset grows.
type Index struct {
	embedder      embedding.EmbeddingProvider
	embeddingRepo contract.DocumentEmbeddingRepository
	documentRepo  contract.DocumentRepository
	categories    atomic.Pointer[[]string]
}

func NewIndex(
	embedder embedding.EmbeddingProvider,
	embeddingRepo contract.DocumentEmbeddingRepository,
	documentRepo contract.DocumentRepository,
) *Index {
	idx := &Index{
		embedder:      embedder,
		embeddingRepo: embeddingRepo,
		documentRepo:  documentRepo,
	}
	empty := []string{}
	idx.categories.Store(&empty)
	return idx
}

// Bootstrap loads the category set from the dataset at startup.
func (i *Index) Bootstrap(ctx context.Context) error {
	return i.RefreshCategories(ctx)
}

// RefreshCategories recomputes the distinct category list and swaps the
// snapshot atomically. Readers never block on a refresh.
func (i *Index) RefreshCategories(ctx context.Context) error {
	cats, err := i.documentRepo.DistinctCategories(ctx)
	if err != nil {
		return fmt.Errorf("refresh categories: %w", err)
	}
	i.categories.Store(&cats)
	return nil
}

// Categories returns the current category snapshot. The slice must not be
// mutated by callers.
func (i *Index) Categories() []string {
	return *i.categories.Load()
}

// Search embeds the query and returns the topK most similar documents by
// cosine similarity, best first. An empty category applies no filter.
func (i *Index) Search(ctx context.Context, query string, topK int, category string) ([]store.Document, error) {
	resp, err := i.embedder.Generate(query, taskQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := i.embeddingRepo.SearchSimilarWithScore(ctx, resp.Embedding.Values, topK, category)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	docs := make([]store.Document, 0, len(scored))
	for _, s := range scored {
		docs = append(docs, store.Document{
			ID:       s.Embedding.DocumentId,
			Category: s.Embedding.Category,
			Text:     s.Embedding.Document,
			Score:    float32(s.Similarity),
		})
	}
	return docs, nil
}

// Insert embeds the document text and stores it under the given id. An id
// already present in the index is left untouched.
func (i *Index) Insert(ctx context.Context, documentID, category, text string) error {
	resp, err := i.embedder.Generate(text, taskDocument)
	if err != nil {
		return fmt.Errorf("embed document %s: %w", documentID, err)
	}

	entry := &entity.DocumentEmbedding{
		DocumentId:     documentID,
		Category:       category,
		Document:       text,
		EmbeddingValue: resp.Embedding.Values,
	}
	if err := i.embeddingRepo.InsertIgnoreDuplicate(ctx, entry); err != nil {
		return fmt.Errorf("index document %s: %w", documentID, err)
	}
	return nil
}
