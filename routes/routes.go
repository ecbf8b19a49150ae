package routes

import (
	"github.com/gofiber/fiber/v2"

	"licensing-backend/controllers"
	"licensing-backend/middlewares"
	"licensing-backend/models"
)

// Controllers bundles the wired controllers the router needs.
type Controllers struct {
	Agreements *controllers.AgreementController
	Clients    *controllers.ClientController
	Revenues   *controllers.RevenueController
	Products   *controllers.ProductController
}

// Register wires all HTTP routes.
func Register(app *fiber.App, ctrls Controllers) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/auth/register", controllers.Register)
	api.Post("/auth/login", controllers.Login)
	api.Post("/auth/refresh", controllers.Refresh)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard first, so replayed mutations short-circuit
	protected.Use(middlewares.Idempotency())

	// Catalog (read-only)
	protected.Get("/products", ctrls.Products.List)

	// Clients (modification and deletion are admin-only)
	protected.Post("/clients/physical", ctrls.Clients.AddPhysical)
	protected.Put("/clients/physical/:pesel", middlewares.RequireRoles(models.RoleAdmin), ctrls.Clients.ModifyPhysical)
	protected.Delete("/clients/physical/:pesel", middlewares.RequireRoles(models.RoleAdmin), ctrls.Clients.DeletePhysical)
	protected.Post("/clients/company", ctrls.Clients.AddCompany)
	protected.Put("/clients/company/:krs", middlewares.RequireRoles(models.RoleAdmin), ctrls.Clients.ModifyCompany)

	// Agreements (creation, installment payments)
	protected.Post("/agreements", ctrls.Agreements.Create)
	protected.Post("/agreements/pay", ctrls.Agreements.Pay)

	// Revenue reports
	protected.Get("/revenues/company/actual/:currencyCode", ctrls.Revenues.CompanyActual)
	protected.Get("/revenues/company/expected/:currencyCode", ctrls.Revenues.CompanyExpected)
	protected.Get("/revenues/products/:productId/actual/:currencyCode", ctrls.Revenues.ProductActual)
	protected.Get("/revenues/products/:productId/expected/:currencyCode", ctrls.Revenues.ProductExpected)
}
