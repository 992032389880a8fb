package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Thread struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	BoardID    uuid.UUID                   `gorm:"type:uuid;not null;index:idx_threads_board_active"`
	Board      Board                       `gorm:"constraint:OnDelete:CASCADE"`
	Title      string                      `gorm:"size:200;not null"`
	Content    string                      `gorm:"type:text;not null"`
	AuthorID   uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Author     User                        `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
	LastReply  time.Time                   `gorm:"index"`
	ReplyCount int                         `gorm:"not null;default:0"`
	IsSticky   bool                        `gorm:"not null;default:false"`
	IsLocked   bool                        `gorm:"not null;default:false"`
	Images     datatypes.JSONSlice[string] `gorm:"not null"`
	Tags       datatypes.JSONSlice[string] `gorm:"not null"`
	IsActive   bool                        `gorm:"not null;default:true;index:idx_threads_board_active"`
	CreatedAt  time.Time                   `gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time                   `gorm:"autoUpdateTime"`
}

func (t *Thread) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	if t.LastReply.IsZero() {
		t.LastReply = time.Now()
	}
	if t.Images == nil {
		t.Images = datatypes.JSONSlice[string]{}
	}
	if t.Tags == nil {
		t.Tags = datatypes.JSONSlice[string]{}
	}
	return
}
