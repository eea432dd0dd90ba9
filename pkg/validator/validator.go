package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/wordkeeper/pkg/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// exactly one whitespace-separated token
	_ = validate.RegisterValidation("singleword", func(fl validator.FieldLevel) bool {
		return models.IsSingleWord(fl.Field().String())
	})
}

func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("validation failed: %v", err)
		}
		var errMsgs []string
		for _, err := range verrs {
			errMsgs = append(errMsgs, fmt.Sprintf(
				"Field: %s, Tag: %s, Param: %s", err.Field(), err.Tag(), err.Param(),
			))
		}
		return fmt.Errorf("validation failed: %s", strings.Join(errMsgs, "; "))
	}
	return nil
}

// Var validates a single value against tag
func Var(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
