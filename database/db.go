package database

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"licensing-backend/models"
)

var DB *gorm.DB

// Connect opens the shared GORM handle from DB_* environment variables.
// A .env file is loaded when present.
func Connect(log *zap.Logger) error {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file loaded, using process environment")
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "db"
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Europe/Warsaw",
		host, os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"), port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	DB = db
	return nil
}

// AutoMigrate creates/updates all tables.
func AutoMigrate() error {
	return DB.AutoMigrate(
		&models.AppUser{},
		&models.Product{},
		&models.Discount{},
		&models.PhysicalClient{},
		&models.CompanyClient{},
		&models.Agreement{},
		&models.Payment{},
		&models.IdempotencyKey{},
	)
}
