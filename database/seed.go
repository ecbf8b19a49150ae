package database

import (
	"time"

	"gorm.io/gorm"

	"licensing-backend/models"
)

// SeedCatalog inserts demo products and discounts when the catalog is empty.
// Enabled with SEED_DATA=true; useful for local development.
func SeedCatalog() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		springSale := models.Discount{
			Name:     "Spring sale",
			Amount:   10,
			DateFrom: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			DateTo:   time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		}
		blackWeek := models.Discount{
			Name:     "Black week",
			Amount:   25,
			DateFrom: time.Date(2024, 11, 25, 0, 0, 0, 0, time.UTC),
			DateTo:   time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		}
		// Insert discounts first so products share the same rows.
		if err := tx.Create(&springSale).Error; err != nil {
			return err
		}
		if err := tx.Create(&blackWeek).Error; err != nil {
			return err
		}

		products := []models.Product{
			{
				Name:        "FinanceSuite",
				Description: "Accounting and invoicing package",
				VersionInfo: "4.2.1",
				Category:    "finance",
				Price:       5000,
				Discounts:   []models.Discount{springSale},
			},
			{
				Name:        "EduPlanner",
				Description: "Course scheduling for schools",
				VersionInfo: "2.0.0",
				Category:    "education",
				Price:       3200,
				Discounts:   []models.Discount{springSale, blackWeek},
			},
			{
				Name:        "WarehouseOps",
				Description: "Stock and logistics management",
				VersionInfo: "1.7.3",
				Category:    "logistics",
				Price:       7800,
			},
		}
		return tx.Create(&products).Error
	})
}
