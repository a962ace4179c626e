// Package models defines the client-side copies of backend entities.
// The backend owns all of them; values here are transient read copies.
package models

// UserType distinguishes candidate accounts from company accounts.
type UserType string

const (
	UserTypeCandidate UserType = "candidate"
	UserTypeCompany   UserType = "company"
)

// User is the authenticated identity returned by auth endpoints.
type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Role      string   `json:"role"`
	UserType  UserType `json:"userType,omitempty"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Language  string   `json:"language,omitempty"`
	Position  string   `json:"position,omitempty"`
}

// DisplayName returns "First Last" when known, otherwise the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}

// Company is the employer account attached to company users.
type Company struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	DefaultLocale string `json:"defaultLocale,omitempty"`
	Status        string `json:"status,omitempty"`
}
