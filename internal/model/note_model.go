package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Note persists the document. The section/block tree is a JSONB blob: the
// store never addresses individual array elements, every save replaces the
// whole array.
type Note struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title      string         `gorm:"type:varchar(255);not null"`
	TitleStyle datatypes.JSON `gorm:"type:jsonb"`
	Background datatypes.JSON `gorm:"type:jsonb"`
	Sections   datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Note) TableName() string {
	return "notes"
}
