package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/showtime-booking/internal/domain"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validator.RegisterValidation("payment_mode", validatePaymentMode)
	validator.RegisterValidation("seat_category", validateSeatCategory)

	return validator
}

func validatePaymentMode(fl validator.FieldLevel) bool {
	return domain.PaymentMode(fl.Field().String()).Valid()
}

func validateSeatCategory(fl validator.FieldLevel) bool {
	return domain.SeatCategory(fl.Field().String()).Valid()
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		if err.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", err.Param())
		}
		return fmt.Sprintf("must be at least %s characters long", err.Param())
	case "max":
		if err.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s item(s)", err.Param())
		}
		return fmt.Sprintf("must be at most %s characters long", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "unique":
		return "must not contain duplicates"
	case "payment_mode":
		return "must be one of card, upi, net_banking or wallet"
	case "seat_category":
		return "must be one of premium, gold, silver or standard"
	default:
		return "is invalid"
	}
}
