package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CategoryTechnology    = "Technology"
	CategoryEntertainment = "Entertainment"
	CategoryCreative      = "Creative"
	CategoryGeneral       = "General"
)

type Board struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"size:20;not null;index"`
	Description  string    `gorm:"size:200;not null"`
	Category     string    `gorm:"size:20;not null;default:'General'"`
	ThreadCount  int       `gorm:"not null;default:0"`
	PostCount    int       `gorm:"not null;default:0"`
	LastActivity time.Time `gorm:"index"`
	IsNSFW       bool      `gorm:"column:is_nsfw;not null;default:false"`
	IsActive     bool      `gorm:"not null;default:true;index"`
	CreatedBy    uuid.UUID `gorm:"type:uuid;not null"`
	Creator      User      `gorm:"foreignKey:CreatedBy;constraint:OnDelete:RESTRICT"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (b *Board) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID, err = uuid.NewV7()
	}
	if b.LastActivity.IsZero() {
		b.LastActivity = time.Now()
	}
	if b.Category == "" {
		b.Category = CategoryGeneral
	}
	return
}
