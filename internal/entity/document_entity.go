package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is an append-only dataset row: the source of truth for
// reindexing. Duplicate file names are allowed here; dedup happens at the
// vector index (keyed by file).
type Document struct {
	Id        uuid.UUID
	File      string
	Category  string
	Text      string
	CreatedAt time.Time
}
