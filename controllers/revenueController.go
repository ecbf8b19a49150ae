package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"licensing-backend/services"
)

// RevenueController exposes the revenue reports over HTTP.
type RevenueController struct {
	svc *services.RevenueService
}

// NewRevenueController wires the controller to its service.
func NewRevenueController(svc *services.RevenueService) *RevenueController {
	return &RevenueController{svc: svc}
}

// CompanyActual handles GET /api/revenues/company/actual/:currencyCode.
func (ct *RevenueController) CompanyActual(c *fiber.Ctx) error {
	revenue, err := ct.svc.ActualRevenue(c.Context(), nil, c.Params("currencyCode"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"revenue": revenue, "currency": c.Params("currencyCode")})
}

// CompanyExpected handles GET /api/revenues/company/expected/:currencyCode.
func (ct *RevenueController) CompanyExpected(c *fiber.Ctx) error {
	revenue, err := ct.svc.ExpectedRevenue(c.Context(), nil, c.Params("currencyCode"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"revenue": revenue, "currency": c.Params("currencyCode")})
}

// ProductActual handles GET /api/revenues/products/:productId/actual/:currencyCode.
func (ct *RevenueController) ProductActual(c *fiber.Ctx) error {
	productID, err := parseProductID(c)
	if err != nil {
		return err
	}
	revenue, err := ct.svc.ActualRevenue(c.Context(), &productID, c.Params("currencyCode"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"revenue": revenue, "currency": c.Params("currencyCode"), "product_id": productID})
}

// ProductExpected handles GET /api/revenues/products/:productId/expected/:currencyCode.
func (ct *RevenueController) ProductExpected(c *fiber.Ctx) error {
	productID, err := parseProductID(c)
	if err != nil {
		return err
	}
	revenue, err := ct.svc.ExpectedRevenue(c.Context(), &productID, c.Params("currencyCode"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"revenue": revenue, "currency": c.Params("currencyCode"), "product_id": productID})
}

func parseProductID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("productId"), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}
	return uint(id), nil
}
