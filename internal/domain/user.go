package domain

import (
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the fields a client can set directly.
func (u *User) Validate() error {
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if u.Name == "" {
		return fmt.Errorf("user name is required")
	}
	if u.Role != "" && !ValidUserRoles[string(u.Role)] {
		return fmt.Errorf("unknown user role %q", u.Role)
	}
	return nil
}
