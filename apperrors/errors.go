// Package apperrors defines the error taxonomy shared by services and the
// HTTP error handler: validation errors (bad caller input), state errors
// (temporal preconditions on the agreement lifecycle) and infrastructure
// errors (storage or upstream service failures).
package apperrors

import "fmt"

// Code is a stable machine-readable error identifier.
type Code string

const (
	// Agreement creation.
	CodeDateRangeInvalid           Code = "date_range_invalid"
	CodeClientTypeInvalid          Code = "client_type_invalid"
	CodeUpdateYearsInvalid         Code = "update_years_invalid"
	CodeClientNotFound             Code = "client_not_found"
	CodeProductNotFound            Code = "product_not_found"
	CodeDuplicateUnsignedAgreement Code = "duplicate_unsigned_agreement"

	// Agreement payment.
	CodeAgreementNotFound    Code = "agreement_not_found"
	CodeAlreadySigned        Code = "already_signed"
	CodeOverpaymentFullPrice Code = "overpayment_full_price"
	CodeOverpaymentFraction  Code = "overpayment_fraction"
	CodeNotYetActive         Code = "not_yet_active"
	CodePaymentWindowExpired Code = "payment_window_expired"

	// Client directory.
	CodePeselInvalid   Code = "pesel_invalid"
	CodeKrsInvalid     Code = "krs_invalid"
	CodePhoneInvalid   Code = "phone_invalid"
	CodeEmailInvalid   Code = "email_invalid"
	CodeNameInvalid    Code = "name_invalid"
	CodeAddressInvalid Code = "address_invalid"
	CodeClientExists   Code = "client_exists"

	// Revenue / FX.
	CodeUnknownCurrency        Code = "unknown_currency"
	CodeRateServiceUnavailable Code = "rate_service_unavailable"

	// Storage.
	CodeStorageUnavailable Code = "storage_unavailable"
)

// ValidationError means the caller supplied invalid or inconsistent input.
// It is never retried and always carries a specific human-readable message.
type ValidationError struct {
	Code    Code
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation builds a ValidationError.
func Validation(code Code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// StateError means a temporal precondition on the agreement lifecycle
// failed: the payment window has not opened yet, or has already elapsed.
type StateError struct {
	Code    Code
	Message string
}

func (e *StateError) Error() string { return e.Message }

// State builds a StateError.
func State(code Code, message string) *StateError {
	return &StateError{Code: code, Message: message}
}

// InfrastructureError wraps a storage or upstream failure. It is propagated
// to the caller unchanged; no automatic retry is performed.
type InfrastructureError struct {
	Code Code
	Op   string
	Err  error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error { return e.Err }

// Infrastructure wraps err as an InfrastructureError for operation op.
func Infrastructure(code Code, op string, err error) *InfrastructureError {
	return &InfrastructureError{Code: code, Op: op, Err: err}
}
