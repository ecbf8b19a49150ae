package services

import (
	"context"

	"go.uber.org/zap"

	"licensing-backend/apperrors"
	"licensing-backend/fxrates"
	"licensing-backend/repositories"
	"licensing-backend/utils"
)

// RevenueService aggregates agreement prices into revenue figures,
// converted into the requested currency.
type RevenueService struct {
	store repositories.Store
	rates fxrates.RateSource
	log   *zap.Logger
}

// NewRevenueService builds a RevenueService.
func NewRevenueService(store repositories.Store, rates fxrates.RateSource, log *zap.Logger) *RevenueService {
	return &RevenueService{
		store: store,
		rates: rates,
		log:   log.Named("revenue"),
	}
}

// ActualRevenue sums CalculatedPrice over signed agreements, optionally
// scoped to one product, converted at the given currency's rate.
func (s *RevenueService) ActualRevenue(ctx context.Context, productID *uint, currencyCode string) (float64, error) {
	return s.revenue(ctx, productID, currencyCode, true)
}

// ExpectedRevenue is the same sum over all agreements regardless of whether
// they are signed.
func (s *RevenueService) ExpectedRevenue(ctx context.Context, productID *uint, currencyCode string) (float64, error) {
	return s.revenue(ctx, productID, currencyCode, false)
}

func (s *RevenueService) revenue(ctx context.Context, productID *uint, currencyCode string, signedOnly bool) (float64, error) {
	rate, err := s.rates.Rate(ctx, currencyCode)
	if err != nil {
		return 0, err
	}

	var sum float64
	err = s.store.Transact(ctx, func(repos repositories.Repos) error {
		if productID != nil {
			exists, err := repos.Catalog.ProductExists(ctx, *productID)
			if err != nil {
				return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "product lookup", err)
			}
			if !exists {
				return apperrors.Validation(apperrors.CodeProductNotFound,
					"product with the provided id does not exist")
			}
		}
		sum, err = repos.Agreements.SumCalculatedPrice(ctx, productID, signedOnly)
		if err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "revenue sum", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return utils.Round2(sum * rate), nil
}
