package controllers

import (
	"github.com/gofiber/fiber/v2"

	"licensing-backend/models"
	"licensing-backend/repositories"
)

// ProductController is a read-only surface over the product catalog.
type ProductController struct {
	store repositories.Store
}

// NewProductController wires the controller to the store.
func NewProductController(store repositories.Store) *ProductController {
	return &ProductController{store: store}
}

// List handles GET /api/products.
func (ct *ProductController) List(c *fiber.Ctx) error {
	ctx := c.Context()
	var products []models.Product
	err := ct.store.Transact(ctx, func(repos repositories.Repos) error {
		var err error
		products, err = repos.Catalog.ListProducts(ctx)
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"products": products})
}
