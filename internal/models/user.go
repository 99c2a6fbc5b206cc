package models

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

const (
	RoleCustomer  = "customer"
	RoleTradesman = "tradesman"
)

type User struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	Password     string     `json:"password,omitempty"`
	Role         string     `json:"role"`
	CompanyName  *string    `json:"company_name,omitempty"`
	Trade        *string    `json:"trade,omitempty"`
	ServiceArea  *string    `json:"service_area,omitempty"`
	Location     *string    `json:"location,omitempty"`
	HourlyRate   *float64   `json:"hourly_rate,omitempty"`
	Availability *string    `json:"availability,omitempty"`
	YearsOfExp   *int       `json:"years_of_exp,omitempty"`
	Bio          *string    `json:"bio,omitempty"`
	ContactEmail *string    `json:"contact_email,omitempty"`
	PhotoPath    *string    `json:"photo_path,omitempty"`
	ReviewRating *float64   `json:"review_rating,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// DisplayName prefers the company name for tradesmen, falling back to
// the personal name shown everywhere else.
func (u User) DisplayName() string {
	if u.CompanyName != nil && *u.CompanyName != "" {
		return *u.CompanyName
	}
	return u.Name
}

type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

type Tokens struct {
	AccessToken  string
	RefreshToken string
}

type Session struct {
	UserID       int       `json:"user_id"`
	Role         string    `json:"role"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
