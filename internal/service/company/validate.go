package company

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	cifPattern     = regexp.MustCompile(`^[A-Z0-9]{9}$`)
	phonePattern   = regexp.MustCompile(`^\+?[0-9]{8,15}$`)
	websitePattern = regexp.MustCompile(`^(https?://)?([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}(/\S*)?$`)
)

// Input carries the company form fields. Validation runs before any network
// call; a failing form never reaches the upstream API.
type Input struct {
	CIF         string `json:"cif" validate:"required,cif"`
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Address     string `json:"address" validate:"omitempty,max=200"`
	Phone       string `json:"phone" validate:"required,intl_phone"`
	Email       string `json:"email" validate:"required,email"`
	Website     string `json:"website" validate:"omitempty,web_url"`
	LogoURL     string `json:"logo_url" validate:"omitempty,web_url"`
}

// FieldErrors maps form field names to one inline message each.
type FieldErrors map[string]string

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// CIF: exactly 9 uppercase alphanumeric characters.
	_ = v.RegisterValidation("cif", func(fl validator.FieldLevel) bool {
		return cifPattern.MatchString(fl.Field().String())
	})
	// International phone: 8-15 digits, optional leading +.
	_ = v.RegisterValidation("intl_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("web_url", func(fl validator.FieldLevel) bool {
		return websitePattern.MatchString(fl.Field().String())
	})
	return v
}

// fieldMessages holds the per-field inline messages shown next to the form
// controls.
var fieldMessages = map[string]string{
	"CIF":         "CIF must be exactly 9 uppercase letters or digits",
	"Name":        "name must be at least 2 characters",
	"Description": "description is too long",
	"Address":     "address is too long",
	"Phone":       "phone must be 8 to 15 digits, optionally starting with +",
	"Email":       "a valid email address is required",
	"Website":     "website must be a valid URL",
	"LogoURL":     "logo URL must be a valid URL",
}

var jsonFieldNames = map[string]string{
	"CIF":         "cif",
	"Name":        "name",
	"Description": "description",
	"Address":     "address",
	"Phone":       "phone",
	"Email":       "email",
	"Website":     "website",
	"LogoURL":     "logo_url",
}

// validateInput returns nil when the form is acceptable.
func validateInput(v *validator.Validate, in Input) FieldErrors {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"form": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		name := jsonFieldNames[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		msg := fieldMessages[fe.Field()]
		if msg == "" {
			msg = "invalid value"
		}
		out[name] = msg
	}
	return out
}
