package contract

import (
	"context"

	"campus-assistant-be/internal/entity"
	"campus-assistant-be/internal/repository/specification"
)

// DocumentRepository persists the append-only dataset.
type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	// DistinctCategories recomputes the category set from the full dataset.
	DistinctCategories(ctx context.Context) ([]string, error)
}
