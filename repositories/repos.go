// Package repositories defines per-aggregate repository interfaces consumed
// by the services, plus their GORM implementations. A Store bundles the
// repositories behind a single transactional unit of work, so that every
// multi-statement operation commits or rolls back as a whole.
package repositories

import (
	"context"

	"licensing-backend/models"
)

// Repos is the set of repositories bound to one transaction.
type Repos struct {
	Agreements AgreementRepository
	Payments   PaymentRepository
	Clients    ClientDirectory
	Catalog    CatalogStore
}

// Store runs a function against a transactional set of repositories.
// If fn returns an error the transaction is rolled back, otherwise committed.
type Store interface {
	Transact(ctx context.Context, fn func(Repos) error) error
}

// AgreementRepository owns Agreement rows.
// Lookup methods return (nil, nil) when no row matches.
type AgreementRepository interface {
	// FindForClient locates an agreement by its id together with the
	// polymorphic client reference it was created for.
	FindForClient(ctx context.Context, agreementID uint, ref models.ClientRef) (*models.Agreement, error)
	// HasUnsignedForProduct reports whether the client already holds a yet
	// unsigned agreement for the product.
	HasUnsignedForProduct(ctx context.Context, clientID, productID uint) (bool, error)
	// CountForClient counts all agreements (signed or not) held by the client.
	CountForClient(ctx context.Context, clientID uint) (int64, error)
	Create(ctx context.Context, agreement *models.Agreement) error
	Save(ctx context.Context, agreement *models.Agreement) error
	Delete(ctx context.Context, agreement *models.Agreement) error
	// SumCalculatedPrice sums CalculatedPrice over agreements, optionally
	// scoped to a product and optionally restricted to signed agreements.
	SumCalculatedPrice(ctx context.Context, productID *uint, signedOnly bool) (float64, error)
}

// PaymentRepository owns Payment rows (at most one per agreement).
type PaymentRepository interface {
	// FindByAgreement returns (nil, nil) when the agreement has no payment yet.
	FindByAgreement(ctx context.Context, agreementID uint) (*models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Save(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, payment *models.Payment) error
}

// ClientDirectory resolves polymorphic client references and manages the
// two client tables. The agreement ledger only ever calls Exists; the
// remaining methods serve client management.
type ClientDirectory interface {
	Exists(ctx context.Context, ref models.ClientRef) (bool, error)

	PhysicalByPesel(ctx context.Context, pesel string) (*models.PhysicalClient, error)
	CreatePhysical(ctx context.Context, client *models.PhysicalClient) error
	SavePhysical(ctx context.Context, client *models.PhysicalClient) error

	CompanyByKrs(ctx context.Context, krsNumber string) (*models.CompanyClient, error)
	CreateCompany(ctx context.Context, client *models.CompanyClient) error
	SaveCompany(ctx context.Context, client *models.CompanyClient) error
}

// CatalogStore reads product and discount data. Read-only.
type CatalogStore interface {
	// ProductByID returns the product with its discounts preloaded,
	// or (nil, nil) when it does not exist.
	ProductByID(ctx context.Context, id uint) (*models.Product, error)
	ProductExists(ctx context.Context, id uint) (bool, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
}
