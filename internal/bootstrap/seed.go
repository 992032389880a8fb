package bootstrap

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"time"

	"anoa.com/neoboard/internal/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Board{},
		&entity.Thread{},
		&entity.Post{},
	)
}

const (
	SystemUsername = "SystemAdmin"
	SystemEmail    = "admin@neoboard.com"
)

type sampleBoard struct {
	name        string
	description string
	category    string
	idleFor     time.Duration
}

var sampleBoards = []sampleBoard{
	{"/tech/", "Technology discussions, programming, and software development", entity.CategoryTechnology, 0},
	{"/gaming/", "Video games, esports, and gaming culture", entity.CategoryEntertainment, 6 * time.Minute},
	{"/art/", "Digital art, traditional art, and creative works", entity.CategoryCreative, 2 * time.Hour},
	{"/random/", "Random discussions and off-topic conversations", entity.CategoryGeneral, 24 * time.Hour},
}

// SeedSampleData creates the system user and the starter boards when the
// database has no boards yet. Counters start at zero.
func SeedSampleData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.Board{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("⚠️ No boards found in database. Creating sample data...")

	return db.Transaction(func(tx *gorm.DB) error {
		admin, err := systemUser(tx)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, sb := range sampleBoards {
			board := entity.Board{
				Name:         sb.name,
				Description:  sb.description,
				Category:     sb.category,
				LastActivity: now.Add(-sb.idleFor),
				IsActive:     true,
				CreatedBy:    admin.ID,
			}
			if err := tx.Omit("Creator").Create(&board).Error; err != nil {
				return err
			}
		}

		log.Printf("✅ Sample boards created: %d", len(sampleBoards))
		return nil
	})
}

// systemUser finds or creates the owner of the sample boards. Its password is
// random and never printed, so nobody can log in as it.
func systemUser(tx *gorm.DB) (*entity.User, error) {
	var user entity.User
	err := tx.Where("username = ?", SystemUsername).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(secret)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	email := SystemEmail
	hash := string(hashed)
	user = entity.User{
		Username:     SystemUsername,
		Email:        &email,
		PasswordHash: &hash,
		IsActive:     true,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}

	log.Println("✅ Sample user created:", user.ID)
	return &user, nil
}
