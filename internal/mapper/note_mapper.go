package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"notescraft-be/internal/entity"
	"notescraft-be/internal/model"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) (*entity.Note, error) {
	if n == nil {
		return nil, nil
	}

	out := &entity.Note{
		Id:        n.Id,
		UserId:    n.UserId,
		Title:     n.Title,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}

	if len(n.TitleStyle) > 0 {
		var style entity.TextStyle
		if err := json.Unmarshal(n.TitleStyle, &style); err != nil {
			return nil, err
		}
		out.TitleStyle = &style
	}
	if len(n.Background) > 0 {
		if err := json.Unmarshal(n.Background, &out.Background); err != nil {
			return nil, err
		}
	}
	out.Sections = []entity.Section{}
	if len(n.Sections) > 0 {
		if err := json.Unmarshal(n.Sections, &out.Sections); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (m *NoteMapper) ToModel(n *entity.Note) (*model.Note, error) {
	if n == nil {
		return nil, nil
	}

	out := &model.Note{
		Id:        n.Id,
		UserId:    n.UserId,
		Title:     n.Title,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}

	if n.TitleStyle != nil {
		raw, err := json.Marshal(n.TitleStyle)
		if err != nil {
			return nil, err
		}
		out.TitleStyle = datatypes.JSON(raw)
	}
	raw, err := json.Marshal(n.Background)
	if err != nil {
		return nil, err
	}
	out.Background = datatypes.JSON(raw)

	sections := n.Sections
	if sections == nil {
		sections = []entity.Section{}
	}
	raw, err = json.Marshal(sections)
	if err != nil {
		return nil, err
	}
	out.Sections = datatypes.JSON(raw)

	return out, nil
}

func (m *NoteMapper) ToEntities(notes []*model.Note) ([]*entity.Note, error) {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		e, err := m.ToEntity(n)
		if err != nil {
			return nil, err
		}
		entities[i] = e
	}
	return entities, nil
}
