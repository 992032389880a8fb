package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnonymousDisplayName replaces the stored username of anonymous users in every payload.
const AnonymousDisplayName = "Anonymous"

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"size:30;uniqueIndex;not null"`
	Email        *string   `gorm:"size:255;uniqueIndex"`
	PasswordHash *string   `gorm:"size:255"`
	IsAnonymous  bool      `gorm:"not null;default:false"`
	PostCount    int       `gorm:"not null;default:0"`
	IsActive     bool      `gorm:"not null;default:true"`
	LastSeen     time.Time
	JoinDate     time.Time `gorm:"autoCreateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID, err = uuid.NewV7()
	}
	if u.LastSeen.IsZero() {
		u.LastSeen = time.Now()
	}
	return
}

// DisplayName is the username shown to other users.
func (u *User) DisplayName() string {
	if u.IsAnonymous {
		return AnonymousDisplayName
	}
	return u.Username
}
