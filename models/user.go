// models/user.go
package models

import (
	"time"
)

type Role string

const (
	RoleAdmin          Role = "admin"
	RoleRepresentative Role = "representative"
	RoleCustomer       Role = "customer"
)

// DefaultCommissionRate applies when a representative is created without one.
var DefaultCommissionRate = MustMoney("10.00")

// User covers admins and representatives. Representatives form the sponsor
// forest through UplineID; a nil UplineID marks a root.
type User struct {
	ID               string    `json:"id" bson:"_id"`
	Username         string    `json:"username" bson:"username"`
	Password         string    `json:"-" bson:"password"`
	Email            string    `json:"email" bson:"email"`
	FullName         string    `json:"fullName" bson:"fullName"`
	Role             Role      `json:"role" bson:"role"`
	Phone            *string   `json:"phone" bson:"phone,omitempty"`
	UplineID         *string   `json:"uplineId" bson:"uplineId,omitempty"`
	CommissionRate   Money     `json:"commissionRate" bson:"commissionRate"`
	TotalSales       Money     `json:"totalSales" bson:"totalSales"`
	TotalCommissions Money     `json:"totalCommissions" bson:"totalCommissions"`
	IsActive         bool      `json:"isActive" bson:"isActive"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
}

func (u *User) IsRepresentative() bool {
	return u.Role == RoleRepresentative
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasUpline() bool {
	return u.UplineID != nil && *u.UplineID != ""
}

type CreateUserRequest struct {
	Username       string  `json:"username" validate:"required,min=3,max=50"`
	Password       string  `json:"password" validate:"required,min=6"`
	Email          string  `json:"email" validate:"required,email"`
	FullName       string  `json:"fullName" validate:"required"`
	Role           Role    `json:"role" validate:"omitempty,oneof=admin representative"`
	Phone          *string `json:"phone"`
	UplineID       *string `json:"uplineId"`
	CommissionRate *Money  `json:"commissionRate"`
	IsActive       *bool   `json:"isActive"`
}

// UpdateUserRequest is a partial update; nil fields are left unchanged.
// ClearUpline detaches the representative from its sponsor.
type UpdateUserRequest struct {
	Username       *string `json:"username" validate:"omitempty,min=3,max=50"`
	Password       *string `json:"password" validate:"omitempty,min=6"`
	Email          *string `json:"email" validate:"omitempty,email"`
	FullName       *string `json:"fullName" validate:"omitempty,min=1"`
	Phone          *string `json:"phone"`
	UplineID       *string `json:"uplineId"`
	ClearUpline    bool    `json:"clearUpline"`
	CommissionRate *Money  `json:"commissionRate"`
	IsActive       *bool   `json:"isActive"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
