package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"licensing-backend/database"
	"licensing-backend/middlewares"
	"licensing-backend/models"
)

type registerRequest struct {
	Login           string `json:"login" validate:"required,min=3,max=64"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	Role            string `json:"role" validate:"required,oneof=admin regular"`
}

// Register creates a new API account with a bcrypt-hashed password and a
// fresh refresh token.
func Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Password != req.PasswordConfirm {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "passwords do not match"})
	}

	var existing models.AppUser
	err := database.DB.Where("login = ?", req.Login).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "login already exists, choose another username"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user := models.AppUser{
		Login: req.Login,
		Role:  req.Role,
	}
	user.SetPassword(req.Password)
	user.RotateRefreshToken(time.Now())

	if err := database.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create user",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"id":    user.Id,
		"login": user.Login,
		"role":  user.Role,
	})
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login checks credentials and returns an access token plus a rotating
// refresh token.
func Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	var user models.AppUser
	if err := database.DB.Where("login = ?", req.Login).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid credentials"})
		}
		return err
	}

	if err := user.ComparePassword(req.Password); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid credentials"})
	}

	accessToken, err := middlewares.GenerateJWT(user.Login, user.Role)
	if err != nil {
		return err
	}

	user.RotateRefreshToken(time.Now())
	if err := database.DB.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": user.RefreshToken,
		"user": fiber.Map{
			"id":    user.Id,
			"login": user.Login,
			"role":  user.Role,
		},
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh exchanges a valid refresh token for a new access/refresh pair.
func Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	var user models.AppUser
	if err := database.DB.Where("refresh_token = ?", req.RefreshToken).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "refresh token not recognized"})
		}
		return err
	}

	if time.Now().After(user.RefreshTokenExp) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "refresh token has expired"})
	}

	accessToken, err := middlewares.GenerateJWT(user.Login, user.Role)
	if err != nil {
		return err
	}

	user.RotateRefreshToken(time.Now())
	if err := database.DB.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": user.RefreshToken,
	})
}
