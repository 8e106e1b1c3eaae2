// Package validation checks membership request inputs against the user store
// before they are forwarded to assessment-core.
package validation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/flickit-platform/assessment-api/internal/models"
)

const (
	// MinLimit is the smallest page size accepted by list endpoints
	MinLimit = 1
	// MaxLimit is the largest page size accepted by list endpoints
	MaxLimit = 100
	// DefaultLimit is used when the caller does not ask for a page size
	DefaultLimit = 20
)

const (
	invalidInputMessage  = "Invalid input."
	accountExistsMessage = "An account exists with this email"
)

var validate = validator.New()

// ValidationError is a rejected input. It is reported to the caller and never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is or wraps a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UserFinder looks up accounts by email. A nil user with a nil error means no
// account exists.
type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// EmailInput is the body of the grant and invite endpoints
type EmailInput struct {
	Email string `json:"email" validate:"required,email"`
}

// Normalize trims the address and checks its format
func (in *EmailInput) Normalize() error {
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		return fieldError(err)
	}
	return nil
}

// AccessGrantValidator accepts an email only when an active account owns it
type AccessGrantValidator struct {
	users UserFinder
}

// NewAccessGrantValidator creates an AccessGrantValidator
func NewAccessGrantValidator(users UserFinder) *AccessGrantValidator {
	return &AccessGrantValidator{users: users}
}

// Validate returns the account the access would be granted to
func (v *AccessGrantValidator) Validate(ctx context.Context, in EmailInput) (*models.User, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}

	user, err := v.users.FindUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, &ValidationError{Field: "email", Message: invalidInputMessage}
	}

	return user, nil
}

// InviteValidator accepts an email only when no account owns it yet
type InviteValidator struct {
	users UserFinder
}

// NewInviteValidator creates an InviteValidator
func NewInviteValidator(users UserFinder) *InviteValidator {
	return &InviteValidator{users: users}
}

// Validate fails when any account, active or not, already uses the email
func (v *InviteValidator) Validate(ctx context.Context, in EmailInput) error {
	if err := in.Normalize(); err != nil {
		return err
	}

	user, err := v.users.FindUserByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if user != nil {
		return &ValidationError{Field: "email", Message: accountExistsMessage}
	}

	return nil
}

// Pagination is the limit/offset window of list endpoints
type Pagination struct {
	Limit  int `validate:"min=1,max=100"`
	Offset int `validate:"min=0"`
}

// ParsePagination reads a window from raw query values. Empty values fall
// back to DefaultLimit and a zero offset.
func ParsePagination(limit, offset string) (Pagination, error) {
	p := Pagination{Limit: DefaultLimit}

	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return p, &ValidationError{Field: "limit", Message: "A valid integer is required."}
		}
		p.Limit = n
	}

	if offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil {
			return p, &ValidationError{Field: "offset", Message: "A valid integer is required."}
		}
		p.Offset = n
	}

	return p, p.Validate()
}

// Validate checks the window bounds
func (p Pagination) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fieldError(err)
	}
	return nil
}

// fieldError turns the first validator failure into a ValidationError
func fieldError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}

	fe := errs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Message: "This field is required."}
	case "email":
		return &ValidationError{Field: field, Message: "Enter a valid email address."}
	case "min":
		return &ValidationError{Field: field, Message: fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())}
	case "max":
		return &ValidationError{Field: field, Message: fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())}
	default:
		return &ValidationError{Field: field, Message: invalidInputMessage}
	}
}
