package service

import (
	"errors"
	"strings"

	"github.com/dukerupert/numlookup/internal/domain"
	"github.com/go-playground/validator/v10"
)

// MaxPhoneLength bounds what is forwarded to the lookup API. It leaves room
// for formatted input such as "+1 (202) 555-0123 ext. 4567" after trimming.
// Keep the max tag on PhoneForm in step.
const MaxPhoneLength = 64

// PhoneForm is the submitted form.
type PhoneForm struct {
	Phone string `validate:"required,max=64"`
}

// NewPhoneForm trims the raw input.
func NewPhoneForm(raw string) PhoneForm {
	return PhoneForm{Phone: strings.TrimSpace(raw)}
}

// formValidator checks PhoneForm against its tags.
type formValidator struct {
	v *validator.Validate
}

func newFormValidator() *formValidator {
	return &formValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Check returns ErrEmptyPhone for a blank number, a ValidationError for other
// tag failures, and nil for a usable number.
func (f *formValidator) Check(form PhoneForm) error {
	err := f.v.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Internal(err, opValidate, "form validation failed")
	}

	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			return ErrEmptyPhone
		case "max":
			return domain.NewValidationError(opValidate, "phone", "Phone number is too long")
		}
	}
	return domain.NewValidationError(opValidate, "phone", "Phone number is invalid")
}
