// Package validation holds the explicit form validators: plain functions
// returning a list of field errors, invoked by handlers on submit.
package validation

import (
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Result []FieldError

func (r Result) Valid() bool {
	return len(r) == 0
}

func (r Result) Error() string {
	if len(r) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(r))
	for _, fe := range r {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, "; ")
}

func validEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

type LoginInput struct {
	Email    string
	Password string
}

func Login(in LoginInput) Result {
	var r Result
	if in.Email == "" {
		r = append(r, FieldError{"email", "Email is required"})
	} else if !validEmail(in.Email) {
		r = append(r, FieldError{"email", "Invalid email address"})
	}
	if in.Password == "" {
		r = append(r, FieldError{"password", "Password is required"})
	} else if len(in.Password) < 6 {
		r = append(r, FieldError{"password", "Password must be at least 6 characters"})
	}
	return r
}

type ProductInput struct {
	Name       string
	Price      decimal.Decimal
	CategoryID string
}

func Product(in ProductInput) Result {
	var r Result
	if in.Name == "" {
		r = append(r, FieldError{"name", "Product name is required"})
	}
	if !in.Price.IsPositive() {
		r = append(r, FieldError{"price", "Price must be positive"})
	}
	if in.CategoryID == "" {
		r = append(r, FieldError{"category_id", "Category is required"})
	}
	return r
}

func Category(name string) Result {
	var r Result
	if name == "" {
		r = append(r, FieldError{"name", "Category name is required"})
	}
	return r
}

type CheckoutInput struct {
	Note        string
	PaymentType string
}

// Checkout mirrors the order dialog schema: note optional, payment type
// required and in-set.
func Checkout(in CheckoutInput) Result {
	var r Result
	switch in.PaymentType {
	case "":
		r = append(r, FieldError{"payment_type", "Payment type is required"})
	case "CASH", "CARD":
	default:
		r = append(r, FieldError{"payment_type", "Payment type must be CASH or CARD"})
	}
	return r
}

type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

func NewUser(in UserInput) Result {
	r := editUserChecks(in)
	if in.Password == "" {
		r = append(r, FieldError{"password", "Password is required"})
	} else if len(in.Password) < 6 {
		r = append(r, FieldError{"password", "Password must be at least 6 characters"})
	}
	return r
}

// EditUser skips the password: edits never change it.
func EditUser(in UserInput) Result {
	return editUserChecks(in)
}

func editUserChecks(in UserInput) Result {
	var r Result
	if in.Name == "" {
		r = append(r, FieldError{"name", "Name is required"})
	}
	if in.Email == "" {
		r = append(r, FieldError{"email", "Email is required"})
	} else if !validEmail(in.Email) {
		r = append(r, FieldError{"email", "Invalid email address"})
	}
	switch in.Role {
	case "":
		r = append(r, FieldError{"role", "Role is required"})
	case "ADMIN", "STAFF":
	default:
		r = append(r, FieldError{"role", "Role must be ADMIN or STAFF"})
	}
	return r
}

func ResetPassword(newPassword string) Result {
	var r Result
	if newPassword == "" {
		r = append(r, FieldError{"new_password", "Password is required"})
	} else if len(newPassword) < 6 {
		r = append(r, FieldError{"new_password", "Password must be at least 6 characters"})
	}
	return r
}
