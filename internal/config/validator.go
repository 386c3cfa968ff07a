package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var requiredFieldKeys = []string{FieldText, FieldTranslation, FieldContext, FieldContextTranslation}

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate, trans, nil
}

func (s *Store) validate(cfg *Config) error {
	if err := s.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return &Error{Op: "validate", Err: err}
		}
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			msgs = append(msgs, e.Translate(s.translator))
		}
		return &Error{Op: "validate", Err: errors.New(strings.Join(msgs, ", "))}
	}

	for _, key := range requiredFieldKeys {
		if _, ok := cfg.Anki.Fields[key]; !ok {
			return &Error{Op: "validate", Err: fmt.Errorf("anki.fields is missing the %s mapping", key)}
		}
	}
	return nil
}
