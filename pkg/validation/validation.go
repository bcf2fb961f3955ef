package validation

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/maquipos/maquipos-api/internal/domain"
)

var validate = newValidator()

// newValidator construye el validador y registra las reglas propias.
func newValidator() *validator.Validate {
	v := validator.New()
	// serial: formato de número de serie de máquina (ej. SN-100, MX-2024-001)
	serialRe := regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]*$`)
	_ = v.RegisterValidation("serial", func(fl validator.FieldLevel) bool {
		return serialRe.MatchString(fl.Field().String())
	})
	return v
}

// Struct valida un DTO con sus tags `validate` y devuelve un
// domain.ValidationError con TODAS las violaciones, nunca solo la primera.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	violations := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, describe(fe))
	}
	return domain.NewValidationError(violations)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es requerido", fe.Field())
	case "serial":
		return fmt.Sprintf("%s no es un número de serie válido", fe.Field())
	case "min":
		return fmt.Sprintf("%s debe tener al menos %s elementos", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s supera el máximo de %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s no cumple la regla %s", fe.Field(), fe.Tag())
	}
}
