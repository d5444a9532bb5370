package validation

import (
	"strings"

	"tasksapi/internal/core/model/response"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}
}

func FormatValidationErrors(err error) []response.ValidationError {
	var errors []response.ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			errors = append(errors, response.ValidationError{
				Field:   strings.ToLower(fieldError.Field()),
				Message: fieldError.Translate(Translator),
			})
		}
	}

	return errors
}
