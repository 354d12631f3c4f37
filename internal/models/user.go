package models

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

const (
	RoleCustomer = "customer"
	RoleSteward  = "steward"
	RoleAdmin    = "admin"
)

type User struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Password   string     `json:"password,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Location   string     `json:"location,omitempty"`
	Role       string     `json:"role"`
	IsVerified bool       `json:"is_verified"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// StewardProfile belongs to exactly one user with the steward role.
type StewardProfile struct {
	ID             int        `json:"id"`
	UserID         int        `json:"user_id"`
	Skills         string     `json:"skills"`
	Bio            string     `json:"bio"`
	HourlyRate     float64    `json:"hourly_rate"`
	Rating         float64    `json:"rating"`
	CompletedTasks int        `json:"completed_tasks"`
	KYCStatus      string     `json:"kyc_status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Session struct {
	UserID       int       `json:"user_id"`
	Role         string    `json:"role"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type StewardApplicationRequest struct {
	Skills     string  `json:"skills"`
	Bio        string  `json:"bio"`
	HourlyRate float64 `json:"hourly_rate"`
}
