package user

import (
	"cv-forge/internal/domain/validation"
)

type User struct {
	ID       int64
	Username string
	Email    string
	Password string
}

// Validate covers the registration fields. The credential itself is carried
// as-is; hardening the storage format is a deliberate behavior change and is
// not made here.
func (u User) Validate() error {
	if u.Username == "" {
		return validation.Errorf("username", "required")
	}
	if !validation.ValidEmail(u.Email) {
		return validation.Errorf("email", "invalid format")
	}
	if u.Password == "" {
		return validation.Errorf("password", "required")
	}
	return nil
}
