package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pic-backend/internal/auth"
	apperrors "github.com/spec-kit/pic-backend/pkg/util/errorutil"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON name so messages match the payload.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindJSON parses the body into out and runs its validate tags.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("Dados JSON são obrigatórios", nil)
	}
	if err := validate.Struct(out); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return apperrors.NewValidationError("Dados inválidos", nil)
		}
		field := fieldErrs[0].Field()
		details := map[string]any{"campo": field}
		if fieldErrs[0].Tag() == "required" {
			return apperrors.NewValidationError(fmt.Sprintf("Campo obrigatório ausente: %s", field), details)
		}
		return apperrors.NewValidationError(fmt.Sprintf("Campo inválido: %s", field), details)
	}
	return nil
}

func currentUserID(c *fiber.Ctx) (int64, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.UserID <= 0 {
		return 0, auth.TokenError(auth.ErrTokenMissing)
	}
	return principal.UserID, nil
}
