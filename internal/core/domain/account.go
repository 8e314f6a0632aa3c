package domain

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

type (
	Credentials struct {
		Email    string
		Password string
		Role     Role
	}

	SignUp struct {
		Name            string
		Email           string
		Phone           string
		Password        string
		ConfirmPassword string
	}

	Session struct {
		ID        string
		Role      Role
		Email     string
		Name      string
		IssuedAt  time.Time
		ExpiresAt time.Time
		Token     string
	}
)

type SiteSettings struct {
	CompanyName  string `json:"companyName"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	HeroTitle    string `json:"heroTitle"`
	HeroSubtitle string `json:"heroSubtitle"`
}

func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		CompanyName:  "FitFeet",
		Phone:        "+1 (555) 123-4567",
		Email:        "contact@fitfeet.com",
		Address:      "123 Fashion Street, Style City, SC 12345",
		HeroTitle:    "Find Your Perfect Fit",
		HeroSubtitle: "Discover comfort and style with our premium footwear collection",
	}
}
