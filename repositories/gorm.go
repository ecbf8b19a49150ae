package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"licensing-backend/models"
)

// GormStore implements Store on top of a *gorm.DB.
type GormStore struct {
	db *gorm.DB
}

// NewStore wraps db in a transactional Store.
func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Transact runs fn inside a single database transaction.
func (s *GormStore) Transact(ctx context.Context, fn func(Repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos{
			Agreements: &gormAgreements{db: tx},
			Payments:   &gormPayments{db: tx},
			Clients:    &gormClients{db: tx},
			Catalog:    &gormCatalog{db: tx},
		})
	})
}

type gormAgreements struct {
	db *gorm.DB
}

func (r *gormAgreements) FindForClient(ctx context.Context, agreementID uint, ref models.ClientRef) (*models.Agreement, error) {
	var agreement models.Agreement
	err := r.db.WithContext(ctx).
		Where("id = ? AND client_id = ? AND client_type = ?", agreementID, ref.ID, ref.Type).
		First(&agreement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agreement, nil
}

func (r *gormAgreements) HasUnsignedForProduct(ctx context.Context, clientID, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Agreement{}).
		Where("client_id = ? AND product_id = ? AND is_signed = ?", clientID, productID, false).
		Count(&count).Error
	return count > 0, err
}

func (r *gormAgreements) CountForClient(ctx context.Context, clientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Agreement{}).
		Where("client_id = ?", clientID).
		Count(&count).Error
	return count, err
}

func (r *gormAgreements) Create(ctx context.Context, agreement *models.Agreement) error {
	return r.db.WithContext(ctx).Create(agreement).Error
}

func (r *gormAgreements) Save(ctx context.Context, agreement *models.Agreement) error {
	return r.db.WithContext(ctx).Save(agreement).Error
}

func (r *gormAgreements) Delete(ctx context.Context, agreement *models.Agreement) error {
	return r.db.WithContext(ctx).Delete(agreement).Error
}

func (r *gormAgreements) SumCalculatedPrice(ctx context.Context, productID *uint, signedOnly bool) (float64, error) {
	query := r.db.WithContext(ctx).Model(&models.Agreement{})
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}
	if signedOnly {
		query = query.Where("is_signed = ?", true)
	}
	var sum float64
	err := query.Select("COALESCE(SUM(calculated_price), 0)").Scan(&sum).Error
	return sum, err
}

type gormPayments struct {
	db *gorm.DB
}

func (r *gormPayments) FindByAgreement(ctx context.Context, agreementID uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("agreement_id = ?", agreementID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormPayments) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *gormPayments) Save(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *gormPayments) Delete(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Delete(payment).Error
}

type gormClients struct {
	db *gorm.DB
}

// Exists counts by surrogate id in whichever table the reference points at.
// Soft-deleted physical clients still count; an agreement can reference them.
func (r *gormClients) Exists(ctx context.Context, ref models.ClientRef) (bool, error) {
	var count int64
	switch ref.Type {
	case models.ClientTypePhysical:
		if err := r.db.WithContext(ctx).Model(&models.PhysicalClient{}).
			Where("id = ?", ref.ID).Count(&count).Error; err != nil {
			return false, err
		}
	case models.ClientTypeCompany:
		if err := r.db.WithContext(ctx).Model(&models.CompanyClient{}).
			Where("id = ?", ref.ID).Count(&count).Error; err != nil {
			return false, err
		}
	default:
		return false, nil
	}
	return count == 1, nil
}

func (r *gormClients) PhysicalByPesel(ctx context.Context, pesel string) (*models.PhysicalClient, error) {
	var client models.PhysicalClient
	err := r.db.WithContext(ctx).Where("pesel = ?", pesel).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *gormClients) CreatePhysical(ctx context.Context, client *models.PhysicalClient) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *gormClients) SavePhysical(ctx context.Context, client *models.PhysicalClient) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *gormClients) CompanyByKrs(ctx context.Context, krsNumber string) (*models.CompanyClient, error) {
	var client models.CompanyClient
	err := r.db.WithContext(ctx).Where("krs_number = ?", krsNumber).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *gormClients) CreateCompany(ctx context.Context, client *models.CompanyClient) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *gormClients) SaveCompany(ctx context.Context, client *models.CompanyClient) error {
	return r.db.WithContext(ctx).Save(client).Error
}

type gormCatalog struct {
	db *gorm.DB
}

func (r *gormCatalog) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Discounts").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *gormCatalog) ProductExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error
	return count == 1, err
}

func (r *gormCatalog) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Preload("Discounts").Order("id").Find(&products).Error
	return products, err
}
