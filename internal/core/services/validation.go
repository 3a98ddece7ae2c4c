package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mafujur-rahman/cash-plus-server/internal/apperrors"
)

// requestValidator checks DTOs with the same `binding` tags gin uses at the HTTP boundary,
// so services reject the same inputs when called directly.
var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	return v
}

// validateRequest validates req and wraps failures as apperrors.ErrValidation.
func validateRequest(req any) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(fields, "; "))
	}
	return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
}
