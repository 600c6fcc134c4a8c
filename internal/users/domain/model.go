package domain

import (
	"errors"
	"time"
)

// Roles are trust levels, not permissions. Only "admin" unlocks privileged
// operations, and it can never be assigned through the public create path.
const (
	RoleParticulier   = "particulier"
	RoleProfessionnel = "professionnel"
	RoleAdmin         = "admin"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("forbidden")
)

// User is a persisted account row. StripeCustomerID is a lazily cached
// external identifier, populated on first payment activity.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Role             string    `json:"role"`
	CompanyName      string    `json:"companyName,omitempty"`
	StreetAddress    string    `json:"streetAddress,omitempty"`
	City             string    `json:"city,omitempty"`
	PostalCode       string    `json:"postalCode,omitempty"`
	StripeCustomerID *string   `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// DisplayName is what billing records are labelled with.
func (u *User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		name = u.Email
	}
	return name
}

// CreateUserRequest carries signup data synced from the auth provider.
type CreateUserRequest struct {
	ID            string
	Email         string
	FirstName     string
	LastName      string
	Role          string
	CompanyName   string
	StreetAddress string
	City          string
	PostalCode    string
}
