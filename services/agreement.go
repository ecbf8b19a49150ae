// Package services holds the business logic behind the HTTP controllers:
// the agreement ledger (creation, pricing and payment reconciliation),
// client management and revenue reporting.
package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"licensing-backend/apperrors"
	"licensing-backend/models"
	"licensing-backend/repositories"
	"licensing-backend/utils"
)

const (
	minAgreementDays = 3
	maxAgreementDays = 30

	minUpdateYears = 1
	maxUpdateYears = 3

	// Flat yearly surcharge for extended product updates.
	updateYearSurcharge = 1000

	// Multiplier applied when the client already holds any agreement.
	loyaltyMultiplier = 0.95
)

// AgreementService implements the agreement lifecycle: creation with price
// calculation, and installment payment reconciliation.
type AgreementService struct {
	store repositories.Store
	now   func() time.Time
	log   *zap.Logger
}

// NewAgreementService builds an AgreementService over the given store.
func NewAgreementService(store repositories.Store, log *zap.Logger) *AgreementService {
	return &AgreementService{
		store: store,
		now:   time.Now,
		log:   log.Named("agreements"),
	}
}

// CreateAgreementRequest carries validated-for-shape creation input;
// business validation happens inside CreateAgreement.
type CreateAgreementRequest struct {
	ClientID                uint
	ClientType              string
	ProductID               uint
	AgreementDateFrom       time.Time
	AgreementDateTo         time.Time
	ProductUpdatesToInYears int
}

// AgreementResponse is the full projection of a created agreement.
type AgreementResponse struct {
	Id                      uint              `json:"id"`
	ClientId                uint              `json:"client_id"`
	ClientType              models.ClientType `json:"client_type"`
	ProductId               uint              `json:"product_id"`
	ProductVersionInfo      string            `json:"product_version_info"`
	AgreementDateFrom       time.Time         `json:"agreement_date_from"`
	AgreementDateTo         time.Time         `json:"agreement_date_to"`
	CalculatedPrice         float64           `json:"calculated_price"`
	ProductUpdatesToInYears int               `json:"product_updates_to_in_years"`
	IsSigned                bool              `json:"is_signed"`
}

// CreateAgreement validates the request, computes the price and persists a
// new unsigned agreement. No partial state survives a failed call.
//
// Price = basePrice, reduced by the single highest discount percentage
// linked to the product (if any), multiplied by 0.95 when the client already
// holds any agreement, plus a flat 1000-per-update-year surcharge.
func (s *AgreementService) CreateAgreement(ctx context.Context, req CreateAgreementRequest) (*AgreementResponse, error) {
	days := int(req.AgreementDateTo.Sub(req.AgreementDateFrom).Hours() / 24)
	if days < minAgreementDays || days > maxAgreementDays {
		return nil, apperrors.Validation(apperrors.CodeDateRangeInvalid,
			"agreement duration has to be between 3 and 30 days")
	}

	clientType := models.ClientType(req.ClientType)
	if !clientType.Valid() {
		return nil, apperrors.Validation(apperrors.CodeClientTypeInvalid,
			`client type has to be either "physical" or "company"`)
	}

	if req.ProductUpdatesToInYears < minUpdateYears || req.ProductUpdatesToInYears > maxUpdateYears {
		return nil, apperrors.Validation(apperrors.CodeUpdateYearsInvalid,
			"product updates period has to be between 1 and 3 years")
	}

	var resp *AgreementResponse
	err := s.store.Transact(ctx, func(repos repositories.Repos) error {
		exists, err := repos.Clients.Exists(ctx, models.ClientRef{ID: req.ClientID, Type: clientType})
		if err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "client lookup", err)
		}
		if !exists {
			return apperrors.Validation(apperrors.CodeClientNotFound,
				"client with the provided id does not exist")
		}

		product, err := repos.Catalog.ProductByID(ctx, req.ProductID)
		if err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "product lookup", err)
		}
		if product == nil {
			return apperrors.Validation(apperrors.CodeProductNotFound,
				"product with the provided id does not exist")
		}

		duplicate, err := repos.Agreements.HasUnsignedForProduct(ctx, req.ClientID, req.ProductID)
		if err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "duplicate check", err)
		}
		if duplicate {
			return apperrors.Validation(apperrors.CodeDuplicateUnsignedAgreement,
				"client already has a yet unsigned agreement for the specified product")
		}

		price := product.Price
		// The highest linked discount applies; discount date windows are
		// stored but not consulted here.
		if best := maxDiscountPercent(product.Discounts); best > 0 {
			price = utils.Round2(price * (1 - float64(best)/100))
		}

		// Loyalty: any prior agreement row counts, signed or not.
		prior, err := repos.Agreements.CountForClient(ctx, req.ClientID)
		if err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "loyalty check", err)
		}
		if prior >= 1 {
			price = utils.Round2(price * loyaltyMultiplier)
		}

		price += float64(updateYearSurcharge * req.ProductUpdatesToInYears)

		agreement := models.Agreement{
			ClientId:                req.ClientID,
			ClientType:              clientType,
			ProductId:               req.ProductID,
			ProductVersionInfo:      product.VersionInfo,
			AgreementDateFrom:       req.AgreementDateFrom,
			AgreementDateTo:         req.AgreementDateTo,
			CalculatedPrice:         price,
			ProductUpdatesToInYears: req.ProductUpdatesToInYears,
			IsSigned:                false,
		}
		if err := repos.Agreements.Create(ctx, &agreement); err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "agreement insert", err)
		}

		resp = &AgreementResponse{
			Id:                      agreement.Id,
			ClientId:                agreement.ClientId,
			ClientType:              agreement.ClientType,
			ProductId:               agreement.ProductId,
			ProductVersionInfo:      agreement.ProductVersionInfo,
			AgreementDateFrom:       agreement.AgreementDateFrom,
			AgreementDateTo:         agreement.AgreementDateTo,
			CalculatedPrice:         agreement.CalculatedPrice,
			ProductUpdatesToInYears: agreement.ProductUpdatesToInYears,
			IsSigned:                agreement.IsSigned,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("agreement created",
		zap.Uint("agreement_id", resp.Id),
		zap.Uint("client_id", resp.ClientId),
		zap.String("client_type", string(resp.ClientType)),
		zap.Uint("product_id", resp.ProductId),
		zap.Float64("calculated_price", resp.CalculatedPrice))
	return resp, nil
}

func maxDiscountPercent(discounts []models.Discount) int {
	best := 0
	for _, d := range discounts {
		if d.Amount > best {
			best = d.Amount
		}
	}
	return best
}

// PayForAgreementRequest identifies the agreement by the full
// (agreement, client, client type) tuple and carries the installment amount.
type PayForAgreementRequest struct {
	AgreementID uint
	ClientID    uint
	ClientType  string
	Amount      float64
}

// PaymentResponse reports the payment state after a successful installment.
type PaymentResponse struct {
	IdPayment     uint    `json:"id_payment"`
	IdAgreement   uint    `json:"id_agreement"`
	MoneyOwedFull float64 `json:"money_owed_full"`
	MoneyPaid     float64 `json:"money_paid"`
}

// PayForAgreement records one installment against an agreement.
//
// The agreement is signed exactly when the cumulative paid amount equals the
// full price; overpaying, paying before the validity window opens, or paying
// an already signed agreement are rejected without mutation. Paying after
// the window closed dismisses the agreement: the agreement and its payment
// are deleted, the deletion is committed, and a payment_window_expired state
// error is returned.
func (s *AgreementService) PayForAgreement(ctx context.Context, req PayForAgreementRequest) (*PaymentResponse, error) {
	amount := utils.Round2(req.Amount)
	now := s.now()

	var (
		resp    *PaymentResponse
		lateErr *apperrors.StateError
	)
	err := s.store.Transact(ctx, func(repos repositories.Repos) error {
		ref := models.ClientRef{ID: req.ClientID, Type: models.ClientType(req.ClientType)}
		agreement, err := repos.Agreements.FindForClient(ctx, req.AgreementID, ref)
		if err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "agreement lookup", err)
		}
		if agreement == nil {
			return apperrors.Validation(apperrors.CodeAgreementNotFound,
				"agreement with the provided id, client id and client type does not exist")
		}

		if agreement.IsSigned {
			return apperrors.Validation(apperrors.CodeAlreadySigned,
				"the agreement has already been paid for in full (it is signed)")
		}

		if amount > agreement.CalculatedPrice {
			return apperrors.Validation(apperrors.CodeOverpaymentFullPrice,
				"payment exceeds the full agreement price")
		}

		if now.Before(agreement.AgreementDateFrom) {
			return apperrors.State(apperrors.CodeNotYetActive,
				"the agreement has not begun yet, it cannot be paid for")
		}

		payment, err := repos.Payments.FindByAgreement(ctx, agreement.Id)
		if err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "payment lookup", err)
		}
		if payment == nil {
			payment = &models.Payment{
				AgreementId:   agreement.Id,
				MoneyOwedFull: agreement.CalculatedPrice,
				MoneyPaid:     0,
			}
			if err := repos.Payments.Create(ctx, payment); err != nil {
				return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "payment insert", err)
			}
		}

		// Late payment dismisses the agreement. The cleanup must commit even
		// though the call fails, so the state error is surfaced only after
		// the transaction closes.
		if now.After(agreement.AgreementDateTo) {
			if err := repos.Payments.Delete(ctx, payment); err != nil {
				return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "payment delete", err)
			}
			if err := repos.Agreements.Delete(ctx, agreement); err != nil {
				return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "agreement delete", err)
			}
			lateErr = apperrors.State(apperrors.CodePaymentWindowExpired,
				"the payment is late: the money already paid will be returned and the agreement is dismissed")
			return nil
		}

		// Compare the rounded sum so an exact cent-valued payoff is not
		// rejected by float noise a hair above the owed amount.
		if utils.Round2(amount+payment.MoneyPaid) > payment.MoneyOwedFull {
			return apperrors.Validation(apperrors.CodeOverpaymentFraction,
				"payment would exceed the remaining amount owed")
		}

		payment.MoneyPaid = utils.Round2(payment.MoneyPaid + amount)
		if payment.MoneyPaid == payment.MoneyOwedFull {
			agreement.IsSigned = true
			if err := repos.Agreements.Save(ctx, agreement); err != nil {
				return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "agreement sign", err)
			}
		}
		if err := repos.Payments.Save(ctx, payment); err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "payment update", err)
		}

		resp = &PaymentResponse{
			IdPayment:     payment.Id,
			IdAgreement:   payment.AgreementId,
			MoneyOwedFull: payment.MoneyOwedFull,
			MoneyPaid:     payment.MoneyPaid,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if lateErr != nil {
		s.log.Info("agreement dismissed after late payment",
			zap.Uint("agreement_id", req.AgreementID),
			zap.Uint("client_id", req.ClientID))
		return nil, lateErr
	}

	s.log.Info("payment recorded",
		zap.Uint("agreement_id", resp.IdAgreement),
		zap.Float64("money_paid", resp.MoneyPaid),
		zap.Float64("money_owed_full", resp.MoneyOwedFull))
	return resp, nil
}
