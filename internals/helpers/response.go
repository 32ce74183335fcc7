package helper

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Validate dipakai bersama oleh semua controller.
var Validate = validator.New()

// ✅ Khusus error validasi (validator.v10)
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, "Input tidak valid")
	}

	errorsMap := make(map[string]string, len(ve))
	for _, fieldErr := range ve {
		errorsMap[fieldErr.Field()] = validationMessage(fieldErr)
	}
	return JsonValidationError(c, errorsMap)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " wajib diisi."
	case "email":
		return "Format email tidak valid."
	case "min":
		return fe.Field() + " minimal " + fe.Param() + "."
	case "max":
		return fe.Field() + " maksimal " + fe.Param() + "."
	case "oneof":
		return fe.Field() + " harus salah satu dari " + fe.Param() + "."
	case "gte":
		return fe.Field() + " harus >= " + fe.Param() + "."
	default:
		return "Format tidak valid."
	}
}
