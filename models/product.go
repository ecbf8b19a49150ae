package models

import "time"

// Product is a software product from the sales catalog. Catalog data is
// read-only from the agreement ledger's perspective.
type Product struct {
	Id          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description"`
	VersionInfo string  `json:"version_info" gorm:"not null"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" gorm:"type:numeric(12,2)"`

	Discounts []Discount `json:"discounts" gorm:"many2many:product_discounts"`
}

// Discount is a percentage reduction that can be linked to any number of
// products. DateFrom/DateTo describe its advertised validity window; pricing
// applies the highest linked percentage regardless of that window.
type Discount struct {
	Id       uint      `json:"id" gorm:"primaryKey"`
	Name     string    `json:"name" gorm:"not null"`
	Amount   int       `json:"amount" gorm:"not null"`
	DateFrom time.Time `json:"date_from"`
	DateTo   time.Time `json:"date_to"`

	Products []Product `json:"-" gorm:"many2many:product_discounts"`
}
