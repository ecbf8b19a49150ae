package models

import "time"

// Agreement is one proposed or executed purchase of a product by a client.
// CalculatedPrice is computed once at creation and never recomputed;
// ProductVersionInfo is a snapshot of the product version at that moment.
type Agreement struct {
	Id         uint       `json:"id" gorm:"primaryKey"`
	ClientId   uint       `json:"client_id" gorm:"not null;index:idx_agreements_client_product,priority:1"`
	ClientType ClientType `json:"client_type" gorm:"type:varchar(10);not null"`

	ProductId          uint    `json:"product_id" gorm:"not null;index:idx_agreements_client_product,priority:2"`
	Product            Product `json:"-" gorm:"foreignKey:ProductId;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	ProductVersionInfo string  `json:"product_version_info"`

	AgreementDateFrom time.Time `json:"agreement_date_from"`
	AgreementDateTo   time.Time `json:"agreement_date_to"`

	CalculatedPrice         float64 `json:"calculated_price" gorm:"type:numeric(12,2)"`
	ProductUpdatesToInYears int     `json:"product_updates_to_in_years"`
	IsSigned                bool    `json:"is_signed"`

	Payment *Payment `json:"-" gorm:"foreignKey:AgreementId;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`

	CreatedAt time.Time `json:"created_at"`
}

// ClientRef returns the polymorphic client reference stored on the agreement.
func (a *Agreement) ClientRef() ClientRef {
	return ClientRef{ID: a.ClientId, Type: a.ClientType}
}

// Payment tracks cumulative money received against one agreement. At most
// one Payment exists per agreement; it is created lazily on the first
// payment attempt. MoneyOwedFull snapshots the agreement's CalculatedPrice
// at that moment; MoneyPaid is the running installment total.
type Payment struct {
	Id            uint    `json:"id" gorm:"primaryKey"`
	AgreementId   uint    `json:"agreement_id" gorm:"not null;uniqueIndex"`
	MoneyOwedFull float64 `json:"money_owed_full" gorm:"type:numeric(12,2)"`
	MoneyPaid     float64 `json:"money_paid" gorm:"type:numeric(12,2)"`

	CreatedAt time.Time `json:"created_at"`
}
