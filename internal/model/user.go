package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User role constants
const (
	UserRoleAdmin = "admin"
	UserRoleUser  = "user"
)

// User is an administrative account, separate from Professional.
type User struct {
	Base
	Email        string     `json:"email" db:"email"`
	Name         string     `json:"name" db:"name"`
	NationalID   string     `json:"national_id" db:"national_id"`
	Phone        string     `json:"phone" db:"phone"`
	UnitID       *uuid.UUID `json:"unit_id,omitempty" db:"unit_id"`
	Role         string     `json:"role" db:"role"`
	Status       string     `json:"status" db:"status"`
	Password     string     `json:"password,omitempty" db:"-"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Settings     JSONMap    `json:"settings,omitempty" db:"-"`
	SettingsJSON string     `json:"-" db:"settings"`
}

// EncodeSettings serializes Settings into the column representation.
func (u *User) EncodeSettings() error {
	if u.Settings == nil {
		u.SettingsJSON = ""
		return nil
	}
	data, err := json.Marshal(u.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode user settings: %w", err)
	}
	u.SettingsJSON = string(data)
	return nil
}

// DecodeSettings populates Settings from the scanned column value.
func (u *User) DecodeSettings() error {
	if u.SettingsJSON == "" {
		u.Settings = nil
		return nil
	}
	if err := json.Unmarshal([]byte(u.SettingsJSON), &u.Settings); err != nil {
		return fmt.Errorf("failed to decode user settings: %w", err)
	}
	return nil
}

type CreateUserRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name" binding:"required"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
	UnitID     string `json:"unit_id" binding:"omitempty,uuid"`
	Role       string `json:"role" binding:"required,oneof=admin user"`
	Password   string `json:"password" binding:"required,min=8"`
}

type UpdateUserRequest struct {
	Email      *string `json:"email" binding:"omitempty,email"`
	Name       *string `json:"name"`
	NationalID *string `json:"national_id"`
	Phone      *string `json:"phone"`
	UnitID     *string `json:"unit_id" binding:"omitempty,uuid"`
	Role       *string `json:"role" binding:"omitempty,oneof=admin user"`
	Status     *string `json:"status" binding:"omitempty,oneof=active inactive"`
	Settings   JSONMap `json:"settings"`
}

type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
