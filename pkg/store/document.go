package store

// Document is the retrieval unit flowing through the RAG pipeline: a chunk
// of corpus text with its topical category and similarity score.
type Document struct {
	ID       string  `json:"id"` // source file name
	Category string  `json:"category"`
	Text     string  `json:"text"`
	Score    float32 `json:"score"`
}
