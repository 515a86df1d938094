package database

import (
	"fmt"
	"greenquest_backend/internal/config"
	"greenquest_backend/internal/model"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedAdmin(db)

	return db, nil
}

// Migrate runs AutoMigrate for every entity. Shared with the test setup so
// tests and production agree on the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Challenge{},
		&model.Participation{},
		&model.Submission{},
		&model.LeaderboardEntry{},
		&model.Notification{},
	)
}

// seedAdmin makes sure a bootstrap admin account exists so roles can be
// assigned through the API on a fresh install.
func seedAdmin(db *gorm.DB) {
	var count int64
	db.Model(&model.User{}).Where("role = ?", model.Admin).Count(&count)
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		return
	}
	admin := &model.User{
		Name:     "Administrator",
		Email:    "admin@greenquest.local",
		Password: string(hashed),
		Role:     model.Admin,
	}
	if err := db.Create(admin).Error; err == nil {
		log.Println("Seeded bootstrap admin account (admin@greenquest.local), change its password")
	}
}
