package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleDesigner  UserRole = "DESIGNER"
	RoleDeveloper UserRole = "DEVELOPER"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleDesigner, RoleDeveloper:
		return true
	}
	return false
}

type UserStatus string

const (
	UserPending  UserStatus = "PENDING"
	UserApproved UserStatus = "APPROVED"
	UserRejected UserStatus = "REJECTED"
	UserBanned   UserStatus = "BANNED"
)

type User struct {
	ID           int64           `json:"id"`
	FullName     string          `json:"full_name"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Role         UserRole        `json:"role"`
	Status       UserStatus      `json:"status"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// RegisterReq represents user registration payload
// swagger:model RegisterReq
type RegisterReq struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=DESIGNER DEVELOPER"`
}

// LoginReq represents login payload
// swagger:model LoginReq
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserStatusReq is the admin user-status administration payload.
type UserStatusReq struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED BANNED"`
}
