package reservation

import (
	"errors"
	"fastpark/models"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// newValidator registers the "parkemail" tag and reports fields by their
// JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("parkemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("reservation: register parkemail validation: %v", err))
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// normalizeUser trims every field the way the booking form does.
func normalizeUser(d models.UserDetails) models.UserDetails {
	return models.UserDetails{
		Name:         strings.TrimSpace(d.Name),
		Email:        strings.TrimSpace(d.Email),
		Phone:        strings.TrimSpace(d.Phone),
		VehiclePlate: strings.TrimSpace(d.VehiclePlate),
	}
}

func normalizePayment(p models.PaymentDetails) models.PaymentDetails {
	return models.PaymentDetails{
		CardNumber: strings.TrimSpace(p.CardNumber),
		NameOnCard: strings.TrimSpace(p.NameOnCard),
		Expiry:     strings.TrimSpace(p.Expiry),
		CVV:        strings.TrimSpace(p.CVV),
	}
}

// toValidationError converts the first validator failure into a
// models.ValidationError.
func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return models.NewValidationError(fe.Field(), "is required")
	case "parkemail":
		return models.NewValidationError(fe.Field(), "must be a valid email address")
	default:
		return models.NewValidationError(fe.Field(), "is invalid")
	}
}
