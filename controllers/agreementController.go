package controllers

import (
	"github.com/gofiber/fiber/v2"

	"licensing-backend/middlewares"
	"licensing-backend/services"
)

// AgreementController exposes the agreement ledger over HTTP.
type AgreementController struct {
	svc *services.AgreementService
}

// NewAgreementController wires the controller to its service.
func NewAgreementController(svc *services.AgreementService) *AgreementController {
	return &AgreementController{svc: svc}
}

type createAgreementRequest struct {
	ClientID                uint   `json:"client_id" validate:"required"`
	ClientType              string `json:"client_type" validate:"required"`
	ProductID               uint   `json:"product_id" validate:"required"`
	AgreementDateFrom       string `json:"agreement_date_from" validate:"required"`
	AgreementDateTo         string `json:"agreement_date_to" validate:"required"`
	ProductUpdatesToInYears int    `json:"product_updates_to_in_years" validate:"required"`
}

// Create handles POST /api/agreements.
func (ct *AgreementController) Create(c *fiber.Ctx) error {
	var req createAgreementRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	dateFrom, err := middlewares.ParseDate("agreement_date_from", req.AgreementDateFrom)
	if err != nil {
		return err
	}
	dateTo, err := middlewares.ParseDate("agreement_date_to", req.AgreementDateTo)
	if err != nil {
		return err
	}

	resp, err := ct.svc.CreateAgreement(c.Context(), services.CreateAgreementRequest{
		ClientID:                req.ClientID,
		ClientType:              req.ClientType,
		ProductID:               req.ProductID,
		AgreementDateFrom:       dateFrom,
		AgreementDateTo:         dateTo,
		ProductUpdatesToInYears: req.ProductUpdatesToInYears,
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

type payForAgreementRequest struct {
	AgreementID uint    `json:"agreement_id" validate:"required"`
	ClientID    uint    `json:"client_id" validate:"required"`
	ClientType  string  `json:"client_type" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
}

// Pay handles POST /api/agreements/pay.
func (ct *AgreementController) Pay(c *fiber.Ctx) error {
	var req payForAgreementRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := ct.svc.PayForAgreement(c.Context(), services.PayForAgreementRequest{
		AgreementID: req.AgreementID,
		ClientID:    req.ClientID,
		ClientType:  req.ClientType,
		Amount:      req.Amount,
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
