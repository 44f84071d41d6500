// Package rerank provides a secondary relevance-scoring pass over an
// initial retrieval candidate set.
package rerank

import "context"

// RankedDocument is one reranked candidate: the original text with its
// position in the input batch and the cross-encoder relevance score.
type RankedDocument struct {
	Index int
	Text  string
	Score float64
}

// Reranker narrows a candidate batch to a relevance-ordered subset of size
// at most topN.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]RankedDocument, error)
}
