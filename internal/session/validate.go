package session

import (
	"errors"
	"net/mail"
	"strings"
)

// RegisterData is the raw registration form input before normalization.
type RegisterData struct {
	FirstName       string
	LastName        string
	Phone           string
	Country         string
	Email           string
	Password        string
	ConfirmPassword string
	Description     string
}

// ValidateEmail rejects anything that does not parse as a mail address.
func ValidateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("Invalid email address")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("Password must be at least 6 characters")
	}
	return nil
}

// ValidateLogin checks login input locally. Invalid input never reaches the
// network.
func ValidateLogin(email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}

// ValidateRegister checks the registration form locally and returns the
// first failing field's message.
func ValidateRegister(d RegisterData) error {
	if strings.TrimSpace(d.FirstName) == "" {
		return errors.New("First name is required")
	}
	if strings.TrimSpace(d.LastName) == "" {
		return errors.New("Last name is required")
	}
	if countDigits(d.Phone) < 10 {
		return errors.New("Phone number must be at least 10 digits")
	}
	if strings.TrimSpace(d.Country) == "" {
		return errors.New("Country is required")
	}
	if strings.TrimSpace(d.Email) == "" {
		return errors.New("Email is required")
	}
	if len(d.Password) < 6 {
		return errors.New("Password must be at least 6 characters")
	}
	if len(d.ConfirmPassword) < 6 {
		return errors.New("Confirm password must be at least 6 characters")
	}
	if strings.TrimSpace(d.Description) == "" {
		return errors.New("Description is required")
	}
	if d.Password != d.ConfirmPassword {
		return errors.New("Passwords don't match")
	}
	return nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
