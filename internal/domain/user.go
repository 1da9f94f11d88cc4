package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Role grants access to a functional area of the admin panel.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSales    Role = "sales"
	RoleAccounts Role = "accounts"
	RoleFieldRep Role = "field_rep"
)

// GSTLookupRoles are the roles allowed to call the GSTIN verification
// gateway.
var GSTLookupRoles = []Role{RoleAdmin, RoleSales, RoleAccounts}

// User is an operator of the admin panel.
type User struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        string
	Email     string
	Name      string
	Roles     []Role
	Active    bool
}

// HasAnyRole reports whether roles intersects allowed.
func HasAnyRole(roles []Role, allowed ...Role) bool {
	for _, r := range roles {
		for _, a := range allowed {
			if r == a {
				return true
			}
		}
	}
	return false
}

var ErrInvalidEmail = errors.New("invalid email format")

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks basic email syntax.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return nil
}

// EmailDomainAllowed checks the email against an organizational domain
// allowlist. An empty allowlist permits every domain.
func EmailDomainAllowed(email string, domains []string) bool {
	if len(domains) == 0 {
		return true
	}

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])

	for _, d := range domains {
		if domain == strings.ToLower(d) {
			return true
		}
	}
	return false
}
