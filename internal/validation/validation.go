package validation

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/shreyannandanwar/CrewAI/internal/models"
)

// RegisterRequest is the payload for new user registration.
type RegisterRequest struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Role         string   `json:"role"`
	Skills       []string `json:"skills"`
	Availability string   `json:"availability"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdateRequest is the payload for partial profile updates. Nil
// fields were absent from the request and are left untouched.
type ProfileUpdateRequest struct {
	Name         *string   `json:"name"`
	Email        *string   `json:"email"`
	Skills       *[]string `json:"skills"`
	Availability *string   `json:"availability"`
}

// notBlank fails values that are empty or whitespace-only. Required alone
// lets "   " through.
func notBlank(msg string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

// emailAddress checks the address grammar on the trimmed value, since
// surrounding whitespace is stripped before storage anyway.
func emailAddress(msg string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if err := is.Email.Validate(strings.TrimSpace(s)); err != nil {
			return errors.New(msg)
		}
		return nil
	}
}

var (
	nameRules = []validation.Rule{
		validation.Required.Error("Name is required"),
		validation.By(notBlank("Name is required")),
		validation.RuneLength(0, 100).Error("Name cannot exceed 100 characters"),
	}
	emailRules = []validation.Rule{
		validation.Required.Error("Email is required"),
		validation.By(notBlank("Email is required")),
		validation.By(emailAddress("Please provide a valid email address")),
	}
	passwordRules = []validation.Rule{
		validation.Required.Error("Password is required"),
		validation.RuneLength(6, 0).Error("Password must be at least 6 characters long"),
	}
	roleRules = []validation.Rule{
		validation.In(models.RoleUser, models.RoleAdmin).Error("Role must be either user or admin"),
	}
	availabilityRules = []validation.Rule{
		validation.In(
			models.AvailabilityAvailable,
			models.AvailabilityUnavailable,
			models.AvailabilityPartiallyAvailable,
		).Error("Invalid availability status"),
	}
)

// ValidateRegistration checks a registration payload. All field violations
// are collected in one pass; an empty map means the payload is valid.
func ValidateRegistration(req RegisterRequest) validation.Errors {
	errs := validation.Errors{}
	if err := validation.Validate(req.Name, nameRules...); err != nil {
		errs["name"] = err
	}
	if err := validation.Validate(req.Email, emailRules...); err != nil {
		errs["email"] = err
	}
	if err := validation.Validate(req.Password, passwordRules...); err != nil {
		errs["password"] = err
	}
	if err := validation.Validate(req.Role, roleRules...); err != nil {
		errs["role"] = err
	}
	if err := validation.Validate(req.Availability, availabilityRules...); err != nil {
		errs["availability"] = err
	}
	return errs
}

// ValidateLogin checks a login payload. The password only has to be
// present; its length is not revisited at login time.
func ValidateLogin(req LoginRequest) validation.Errors {
	errs := validation.Errors{}
	if err := validation.Validate(req.Email, emailRules...); err != nil {
		errs["email"] = err
	}
	if err := validation.Validate(req.Password, validation.Required.Error("Password is required")); err != nil {
		errs["password"] = err
	}
	return errs
}

// ValidateProfileUpdate checks a partial update. Absent (nil) fields are
// skipped entirely; present fields follow the registration rules.
func ValidateProfileUpdate(req ProfileUpdateRequest) validation.Errors {
	errs := validation.Errors{}
	if req.Name != nil {
		if err := validation.Validate(*req.Name, nameRules...); err != nil {
			errs["name"] = err
		}
	}
	if req.Email != nil {
		if err := validation.Validate(*req.Email, emailRules...); err != nil {
			errs["email"] = err
		}
	}
	if req.Availability != nil {
		if err := validation.Validate(*req.Availability, availabilityRules...); err != nil {
			errs["availability"] = err
		}
	}
	return errs
}
