// Package fxrates looks up currency exchange rates for revenue reporting.
// Prices are stored in PLN; a report in another currency is converted with
// the latest PLN-based rate from exchangerate-api.com.
package fxrates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"licensing-backend/apperrors"
)

// BaseCurrency is the currency all prices are stored in.
const BaseCurrency = "PLN"

const defaultBaseURL = "https://v6.exchangerate-api.com/v6"

// RateSource yields the conversion rate from the base currency to
// currencyCode.
type RateSource interface {
	Rate(ctx context.Context, currencyCode string) (float64, error)
}

// RateFunc adapts a function to the RateSource interface.
type RateFunc func(ctx context.Context, currencyCode string) (float64, error)

func (f RateFunc) Rate(ctx context.Context, currencyCode string) (float64, error) {
	return f(ctx, currencyCode)
}

// Client fetches rates over HTTP.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient builds a rate client for the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type latestRatesResponse struct {
	Result          string             `json:"result"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// Rate returns the base→currencyCode conversion rate. The base currency
// short-circuits to 1 without a network call. An unknown code is a
// validation error; transport or upstream failures are infrastructure
// errors.
func (c *Client) Rate(ctx context.Context, currencyCode string) (float64, error) {
	if currencyCode == BaseCurrency {
		return 1, nil
	}

	url := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, c.apiKey, BaseCurrency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, apperrors.Infrastructure(apperrors.CodeRateServiceUnavailable, "build rate request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, apperrors.Infrastructure(apperrors.CodeRateServiceUnavailable, "fetch rates", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, apperrors.Infrastructure(apperrors.CodeRateServiceUnavailable, "fetch rates",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, apperrors.Infrastructure(apperrors.CodeRateServiceUnavailable, "read rate response", err)
	}

	var parsed latestRatesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, apperrors.Infrastructure(apperrors.CodeRateServiceUnavailable, "decode rate response", err)
	}

	rate, ok := parsed.ConversionRates[currencyCode]
	if !ok {
		return 0, apperrors.Validation(apperrors.CodeUnknownCurrency,
			"the provided currency code is incorrect")
	}
	return rate, nil
}
