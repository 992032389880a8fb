package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Post struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	ThreadID  uuid.UUID                   `gorm:"type:uuid;not null;index:idx_posts_thread_active"`
	Thread    Thread                      `gorm:"constraint:OnDelete:CASCADE"`
	Content   string                      `gorm:"type:text;not null"`
	AuthorID  uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Author    User                        `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
	ReplyTo   *uuid.UUID                  `gorm:"type:uuid"`
	Images    datatypes.JSONSlice[string] `gorm:"not null"`
	IsOP      bool                        `gorm:"column:is_op;not null;default:false"`
	IsActive  bool                        `gorm:"not null;default:true;index:idx_posts_thread_active"`
	CreatedAt time.Time                   `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time                   `gorm:"autoUpdateTime"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[string]{}
	}
	return
}
