package controllers

import (
	"github.com/gofiber/fiber/v2"

	"licensing-backend/middlewares"
	"licensing-backend/services"
	"licensing-backend/utils"
)

// ClientController exposes physical/company client management over HTTP.
type ClientController struct {
	svc *services.ClientService
}

// NewClientController wires the controller to its service.
func NewClientController(svc *services.ClientService) *ClientController {
	return &ClientController{svc: svc}
}

type physicalClientRequest struct {
	Pesel       string `json:"pesel"`
	Name        string `json:"name" validate:"required"`
	Surname     string `json:"surname" validate:"required"`
	Email       string `json:"email" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}

// AddPhysical handles POST /api/clients/physical.
func (ct *ClientController) AddPhysical(c *fiber.Ctx) error {
	var req physicalClientRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	utils.NormalizeDTO(&req)

	client, err := ct.svc.AddPhysicalClient(c.Context(), services.PhysicalClientInput{
		Pesel:       req.Pesel,
		Name:        req.Name,
		Surname:     req.Surname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(client)
}

// ModifyPhysical handles PUT /api/clients/physical/:pesel.
func (ct *ClientController) ModifyPhysical(c *fiber.Ctx) error {
	var req physicalClientRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	utils.NormalizeDTO(&req)

	client, err := ct.svc.ModifyPhysicalClient(c.Context(), c.Params("pesel"), services.PhysicalClientInput{
		Name:        req.Name,
		Surname:     req.Surname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(client)
}

// DeletePhysical handles DELETE /api/clients/physical/:pesel (soft delete).
func (ct *ClientController) DeletePhysical(c *fiber.Ctx) error {
	if err := ct.svc.DeletePhysicalClient(c.Context(), c.Params("pesel")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "client deleted"})
}

type companyClientRequest struct {
	KrsNumber   string `json:"krs_number"`
	Address     string `json:"address" validate:"required"`
	Email       string `json:"email" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}

// AddCompany handles POST /api/clients/company.
func (ct *ClientController) AddCompany(c *fiber.Ctx) error {
	var req companyClientRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	utils.NormalizeDTO(&req)

	client, err := ct.svc.AddCompanyClient(c.Context(), services.CompanyClientInput{
		KrsNumber:   req.KrsNumber,
		Address:     req.Address,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(client)
}

// ModifyCompany handles PUT /api/clients/company/:krs.
func (ct *ClientController) ModifyCompany(c *fiber.Ctx) error {
	var req companyClientRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	utils.NormalizeDTO(&req)

	client, err := ct.svc.ModifyCompanyClient(c.Context(), c.Params("krs"), services.CompanyClientInput{
		Address:     req.Address,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(client)
}
