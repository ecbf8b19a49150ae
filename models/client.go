package models

// ClientType discriminates the two client directories an agreement can
// reference.
type ClientType string

const (
	ClientTypePhysical ClientType = "physical"
	ClientTypeCompany  ClientType = "company"
)

// Valid reports whether t is one of the known client kinds.
func (t ClientType) Valid() bool {
	return t == ClientTypePhysical || t == ClientTypeCompany
}

// ClientRef identifies a client polymorphically: the id is only meaningful
// together with the type, since physical and company clients live in
// separate tables.
type ClientRef struct {
	ID   uint
	Type ClientType
}

// PhysicalClient is an individual customer, keyed by Pesel (11-digit
// national identifier). Deletion is soft: the row is kept with IsDeleted set.
type PhysicalClient struct {
	Id          uint   `json:"id" gorm:"primaryKey"`
	Pesel       string `json:"pesel" gorm:"size:11;uniqueIndex;not null"`
	Name        string `json:"name" gorm:"not null"`
	Surname     string `json:"surname" gorm:"not null"`
	Email       string `json:"email" gorm:"not null"`
	PhoneNumber string `json:"phone_number" gorm:"size:9;not null"`
	IsDeleted   bool   `json:"-"`
}

// CompanyClient is a corporate customer, keyed by KRS number (9 or 14
// digits). Company clients are never deleted.
type CompanyClient struct {
	Id          uint   `json:"id" gorm:"primaryKey"`
	KrsNumber   string `json:"krs_number" gorm:"size:14;uniqueIndex;not null"`
	Address     string `json:"address" gorm:"not null"`
	Email       string `json:"email" gorm:"not null"`
	PhoneNumber string `json:"phone_number" gorm:"size:9;not null"`
}
