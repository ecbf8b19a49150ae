package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "admin"
	RoleRegular = "regular"
)

// AppUser is an API account. Role is either "admin" or "regular".
type AppUser struct {
	Id              string    `json:"id" gorm:"primaryKey"`
	Login           string    `json:"login" gorm:"unique;not null"`
	Password        []byte    `json:"-" gorm:"not null"`
	Role            string    `json:"role" gorm:"type:varchar(10);not null"`
	RefreshToken    string    `json:"-" gorm:"uniqueIndex"`
	RefreshTokenExp time.Time `json:"-"`
}

func (user *AppUser) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	user.Id = uuid.NewString()
	return
}

func (user *AppUser) SetPassword(password string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	user.Password = hashedPassword
}

func (user *AppUser) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(user.Password, []byte(password))
}

// RotateRefreshToken issues a fresh refresh token valid for 24 hours.
func (user *AppUser) RotateRefreshToken(now time.Time) {
	user.RefreshToken = uuid.NewString()
	user.RefreshTokenExp = now.Add(24 * time.Hour)
}
