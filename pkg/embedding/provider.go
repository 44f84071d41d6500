package embedding

// EmbeddingResponseEmbedding holds the raw vector values.
type EmbeddingResponseEmbedding struct {
	Values []float32
}

// EmbeddingResponse is the provider-agnostic embedding result.
type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding
}

// EmbeddingProvider turns text into a normalized embedding vector.
// taskType hints retrieval intent ("RETRIEVAL_QUERY" / "RETRIEVAL_DOCUMENT")
// for providers that distinguish them.
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}
