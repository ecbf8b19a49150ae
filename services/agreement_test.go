package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"licensing-backend/apperrors"
	"licensing-backend/models"
	"licensing-backend/repositories"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Discount{},
		&models.PhysicalClient{},
		&models.CompanyClient{},
		&models.Agreement{},
		&models.Payment{},
	))
	return db
}

func newAgreementService(t *testing.T, db *gorm.DB) *AgreementService {
	t.Helper()
	return NewAgreementService(repositories.NewStore(db), zap.NewNop())
}

func insertPhysicalClient(t *testing.T, db *gorm.DB) models.PhysicalClient {
	t.Helper()
	client := models.PhysicalClient{
		Pesel:       "90010112345",
		Name:        "Jan",
		Surname:     "Kowalski",
		Email:       "jan.kowalski@example.com",
		PhoneNumber: "123456789",
	}
	require.NoError(t, db.Create(&client).Error)
	return client
}

func insertProduct(t *testing.T, db *gorm.DB, price float64, discountPercents ...int) models.Product {
	t.Helper()
	product := models.Product{
		Name:        "FinanceSuite",
		VersionInfo: "4.2.1",
		Category:    "finance",
		Price:       price,
	}
	for _, p := range discountPercents {
		product.Discounts = append(product.Discounts, models.Discount{
			Name:   "promo",
			Amount: p,
		})
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func validCreateRequest(client models.PhysicalClient, product models.Product) CreateAgreementRequest {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return CreateAgreementRequest{
		ClientID:                client.Id,
		ClientType:              "physical",
		ProductID:               product.Id,
		AgreementDateFrom:       from,
		AgreementDateTo:         from.AddDate(0, 0, 10),
		ProductUpdatesToInYears: 1,
	}
}

func validationCode(t *testing.T, err error) apperrors.Code {
	t.Helper()
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr.Code
}

func stateCode(t *testing.T, err error) apperrors.Code {
	t.Helper()
	var serr *apperrors.StateError
	require.True(t, errors.As(err, &serr), "expected state error, got %v", err)
	return serr.Code
}

func TestCreateAgreementPricingWithDiscountAndSurcharge(t *testing.T) {
	db := setupTestDB(t)
	svc := newAgreementService(t, db)
	client := insertPhysicalClient(t, db)
	product := insertProduct(t, db, 5000, 10)

	req := validCreateRequest(client, product)
	req.ProductUpdatesToInYears = 3

	resp, err := svc.CreateAgreement(context.Background(), req)
	require.NoError(t, err)

	// 5000 * 0.9 = 4500, + 3 * 1000 surcharge
	assert.Equal(t, 7500.0, resp.CalculatedPrice)
	assert.False(t, resp.IsSigned)
	assert.Equal(t, "4.2.1", resp.ProductVersionInfo)
}

func TestCreateAgreementAppliesHighestDiscountOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newAgreementService(t, db)
	client := insertPhysicalClient(t, db)
	product := insertProduct(t, db, 1000, 5, 20, 10)

	resp, err := svc.CreateAgreement(context.Background(), validCreateRequest(client, product))
	require.NoError(t, err)

	// 1000 * 0.8 + 1000
	assert.Equal(t, 1800.0, resp.CalculatedPrice)
}

func TestCreateAgreementWithoutDiscount(t *testing.T) {
	db := setupTestDB(t)
	svc := newAgreementService(t, db)
	client := insertPhysicalClient(t, db)
	product := insertProduct(t, db, 1000)

	resp, err := svc.CreateAgreement(context.Background(), validCreateRequest(client, product))
	require.NoError(t, err)
	assert.Equal(t, 2000.0, resp.CalculatedPrice)
}

func TestCreateAgreementLoyaltyMultiplier(t *testing.T) {
	db := setupTestDB(t)
	svc := newAgreementService(t, db)
	client := insertPhysicalClient(t, db)
	first := insertProduct(t, db, 1000)
	second := insertProduct(t, db, 1000)

	_, err := svc.CreateAgreement(context.Background(), validCreateRequest(client, first))
	require.NoError(t, err)

	// Any prior agreement row counts, signed or not.
	resp, err := svc.CreateAgreement(context.Background(), validCreateRequest(client, second))
	require.NoError(t, err)
	assert.Equal(t, 1950.0, resp.CalculatedPrice) // 1000 * 0.95 + 1000
}

func TestCreateAgreementDateWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := newAgreementService(t, db)
	client := insertPhysicalClient(t, db)
	product := insertProduct(t, db, 1000)

	cases := []struct {
		days int
		ok   bool
	}{
		{2, false},
		{3, true},
		{30, true},
		{31, false},
	}
	for _, tc := range cases {
		// Fresh product per accepted case, so the duplicate-unsigned rule
		// does not interfere.
		p := product
		if tc.ok {
			p = insertProduct(t, db, 1000)
		}
		req := validCreateRequest(client, p)
		req.AgreementDateTo = req.AgreementDateFrom.AddDate(0, 0, tc.days)

		_, err := svc.CreateAgreement(context.Background(), req)
		if tc.ok {
			assert.NoError(t, err, "days=%d", tc.days)
		} else {
			assert.Equal(t, apperrors.CodeDateRangeInvalid, validationCode(t, err), "days=%d", tc.days)
		}
	}
}

func TestCreateAgreementInputValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newAgreementService(t, db)
	client := insertPhysicalClient(t, db)
	product := insertProduct(t, db, 1000)

	t.Run("client type", func(t *testing.T) {
		req := validCreateRequest(client, product)
		req.ClientType = "government"
		_, err := svc.CreateAgreement(context.Background(), req)
		assert.Equal(t, apperrors.CodeClientTypeInvalid, validationCode(t, err))
	})

	t.Run("update years", func(t *testing.T) {
		for _, years := range []int{0, 4} {
			req := validCreateRequest(client, product)
			req.ProductUpdatesToInYears = years
			_, err := svc.CreateAgreement(context.Background(), req)
			assert.Equal(t, apperrors.CodeUpdateYearsInvalid, validationCode(t, err))
		}
	})

	t.Run("unknown client", func(t *testing.T) {
		req := validCreateRequest(client, product)
		req.ClientID = 9999
		_, err := svc.CreateAgreement(context.Background(), req)
		assert.Equal(t, apperrors.CodeClientNotFound, validationCode(t, err))
	})

	t.Run("client id from the other directory", func(t *testing.T) {
		req := validCreateRequest(client, product)
		req.ClientType = "company"
		_, err := svc.CreateAgreement(context.Background(), req)
		assert.Equal(t, apperrors.CodeClientNotFound, validationCode(t, err))
	})

	t.Run("unknown product", func(t *testing.T) {
		req := validCreateRequest(client, product)
		req.ProductID = 9999
		_, err := svc.CreateAgreement(context.Background(), req)
		assert.Equal(t, apperrors.CodeProductNotFound, validationCode(t, err))
	})
}

func TestCreateAgreementDuplicateUnsigned(t *testing.T) {
	db := setupTestDB(t)
	svc := newAgreementService(t, db)
	client := insertPhysicalClient(t, db)
	product := insertProduct(t, db, 1000)

	first, err := svc.CreateAgreement(context.Background(), validCreateRequest(client, product))
	require.NoError(t, err)

	_, err = svc.CreateAgreement(context.Background(), validCreateRequest(client, product))
	assert.Equal(t, apperrors.CodeDuplicateUnsignedAgreement, validationCode(t, err))

	// A signed agreement for the same pair does not block a new one.
	require.NoError(t, db.Model(&models.Agreement{}).
		Where("id = ?", first.Id).Update("is_signed", true).Error)
	_, err = svc.CreateAgreement(context.Background(), validCreateRequest(client, product))
	assert.NoError(t, err)
}

// insertAgreement seeds an unsigned agreement active between from and to.
func insertAgreement(t *testing.T, db *gorm.DB, client models.PhysicalClient, product models.Product, price float64, from, to time.Time) models.Agreement {
	t.Helper()
	agreement := models.Agreement{
		ClientId:                client.Id,
		ClientType:              models.ClientTypePhysical,
		ProductId:               product.Id,
		ProductVersionInfo:      product.VersionInfo,
		AgreementDateFrom:       from,
		AgreementDateTo:         to,
		CalculatedPrice:         price,
		ProductUpdatesToInYears: 1,
	}
	require.NoError(t, db.Create(&agreement).Error)
	return agreement
}

func payRequest(agreement models.Agreement, amount float64) PayForAgreementRequest {
	return PayForAgreementRequest{
		AgreementID: agreement.Id,
		ClientID:    agreement.ClientId,
		ClientType:  string(agreement.ClientType),
		Amount:      amount,
	}
}

func TestPayForAgreementInstallments(t *testing.T) {
	db := setupTestDB(t)
	svc := newAgreementService(t, db)
	client := insertPhysicalClient(t, db)
	product := insertProduct(t, db, 1000)

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	agreement := insertAgreement(t, db, client, product, 7500, from, from.AddDate(0, 0, 20))
	svc.now = func() time.Time { return from.AddDate(0, 0, 5) }

	resp, err := svc.PayForAgreement(context.Background(), payRequest(agreement, 500))
	require.NoError(t, err)
	assert.Equal(t, 500.0, resp.MoneyPaid)
	assert.Equal(t, 7500.0, resp.MoneyOwedFull)

	resp, err = svc.PayForAgreement(context.Background(), payRequest(agreement, 2000))
	require.NoError(t, err)
	assert.Equal(t, 2500.0, resp.MoneyPaid)

	var stored models.Agreement
	require.NoError(t, db.First(&stored, agreement.Id).Error)
	assert.False(t, stored.IsSigned)

	resp, err = svc.PayForAgreement(context.Background(), payRequest(agreement, 5000))
	require.NoError(t, err)
	assert.Equal(t, 7500.0, resp.MoneyPaid)

	require.NoError(t, db.First(&stored, agreement.Id).Error)
	assert.True(t, stored.IsSigned)
}

func TestPayForAgreementExactCentPayoff(t *testing.T) {
	db := setupTestDB(t)
	svc := newAgreementService(t, db)
	client := insertPhysicalClient(t, db)
	product := insertProduct(t, db, 1000)

	// 4087.45 + 5677.18 sums to 9764.630000000001 in float64; the exact
	// remainder must still reach equality and sign the agreement.
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	agreement := insertAgreement(t, db, client, product, 9764.63, from, from.AddDate(0, 0, 20))
	svc.now = func() time.Time { return from.AddDate(0, 0, 5) }

	_, err := svc.PayForAgreement(context.Background(), payRequest(agreement, 4087.45))
	require.NoError(t, err)

	resp, err := svc.PayForAgreement(context.Background(), payRequest(agreement, 5677.18))
	require.NoError(t, err)
	assert.Equal(t, 9764.63, resp.MoneyPaid)

	var stored models.Agreement
	require.NoError(t, db.First(&stored, agreement.Id).Error)
	assert.True(t, stored.IsSigned)
}

func TestPayForAgreementAlreadySigned(t *testing.T) {
	db := setupTestDB(t)
	svc := newAgreementService(t, db)
	client := insertPhysicalClient(t, db)
	product := insertProduct(t, db, 1000)

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	agreement := insertAgreement(t, db, client, product, 2000, from, from.AddDate(0, 0, 20))
	svc.now = func() time.Time { return from.AddDate(0, 0, 5) }

	_, err := svc.PayForAgreement(context.Background(), payRequest(agreement, 2000))
	require.NoError(t, err)

	_, err = svc.PayForAgreement(context.Background(), payRequest(agreement, 1))
	assert.Equal(t, apperrors.CodeAlreadySigned, validationCode(t, err))
}

func TestPayForAgreementOverpaymentGuards(t *testing.T) {
	db := setupTestDB(t)
	svc := newAgreementService(t, db)
	client := insertPhysicalClient(t, db)
	product := insertProduct(t, db, 1000)

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	agreement := insertAgreement(t, db, client, product, 7500, from, from.AddDate(0, 0, 20))
	svc.now = func() time.Time { return from.AddDate(0, 0, 5) }

	// Single payment above the full price: rejected before any Payment row
	// exists.
	_, err := svc.PayForAgreement(context.Background(), payRequest(agreement, 8000))
	assert.Equal(t, apperrors.CodeOverpaymentFullPrice, validationCode(t, err))

	var paymentCount int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&paymentCount).Error)
	assert.Zero(t, paymentCount)

	// Cumulative overpay across installments.
	_, err = svc.PayForAgreement(context.Background(), payRequest(agreement, 5000))
	require.NoError(t, err)
	_, err = svc.PayForAgreement(context.Background(), payRequest(agreement, 3000))
	assert.Equal(t, apperrors.CodeOverpaymentFraction, validationCode(t, err))

	var payment models.Payment
	require.NoError(t, db.Where("agreement_id = ?", agreement.Id).First(&payment).Error)
	assert.Equal(t, 5000.0, payment.MoneyPaid)
}

func TestPayForAgreementBeforeWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := newAgreementService(t, db)
	client := insertPhysicalClient(t, db)
	product := insertProduct(t, db, 1000)

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	agreement := insertAgreement(t, db, client, product, 2000, from, from.AddDate(0, 0, 20))
	svc.now = func() time.Time { return from.AddDate(0, 0, -1) }

	_, err := svc.PayForAgreement(context.Background(), payRequest(agreement, 500))
	assert.Equal(t, apperrors.CodeNotYetActive, stateCode(t, err))

	// No Payment row is created for a premature attempt.
	var paymentCount int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&paymentCount).Error)
	assert.Zero(t, paymentCount)
}

func TestPayForAgreementAfterWindowDismisses(t *testing.T) {
	db := setupTestDB(t)
	svc := newAgreementService(t, db)
	client := insertPhysicalClient(t, db)
	product := insertProduct(t, db, 1000)

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 20)
	agreement := insertAgreement(t, db, client, product, 2000, from, to)

	// Record an installment inside the window first.
	svc.now = func() time.Time { return from.AddDate(0, 0, 5) }
	_, err := svc.PayForAgreement(context.Background(), payRequest(agreement, 500))
	require.NoError(t, err)

	// A late attempt deletes the agreement and its payment, and reports it.
	svc.now = func() time.Time { return to.AddDate(0, 0, 1) }
	_, err = svc.PayForAgreement(context.Background(), payRequest(agreement, 500))
	assert.Equal(t, apperrors.CodePaymentWindowExpired, stateCode(t, err))

	var agreementCount, paymentCount int64
	require.NoError(t, db.Model(&models.Agreement{}).Count(&agreementCount).Error)
	require.NoError(t, db.Model(&models.Payment{}).Count(&paymentCount).Error)
	assert.Zero(t, agreementCount)
	assert.Zero(t, paymentCount)
}

func TestPayForAgreementUnknownTuple(t *testing.T) {
	db := setupTestDB(t)
	svc := newAgreementService(t, db)
	client := insertPhysicalClient(t, db)
	product := insertProduct(t, db, 1000)

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	agreement := insertAgreement(t, db, client, product, 2000, from, from.AddDate(0, 0, 20))
	svc.now = func() time.Time { return from.AddDate(0, 0, 5) }

	req := payRequest(agreement, 500)
	req.ClientType = "company"
	_, err := svc.PayForAgreement(context.Background(), req)
	assert.Equal(t, apperrors.CodeAgreementNotFound, validationCode(t, err))

	req = payRequest(agreement, 500)
	req.ClientID = 9999
	_, err = svc.PayForAgreement(context.Background(), req)
	assert.Equal(t, apperrors.CodeAgreementNotFound, validationCode(t, err))
}
