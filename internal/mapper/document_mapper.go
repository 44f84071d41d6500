package mapper

import (
	"campus-assistant-be/internal/entity"
	"campus-assistant-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}
	return &entity.Document{
		Id:        d.Id,
		File:      d.File,
		Category:  d.Category,
		Text:      d.Text,
		CreatedAt: d.CreatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}
	return &model.Document{
		Id:        d.Id,
		File:      d.File,
		Category:  d.Category,
		Text:      d.Text,
		CreatedAt: d.CreatedAt,
	}
}
