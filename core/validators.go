package core

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

var (
	// custom validation tags & texts
	notBlankTag  = "notblank"
	notBlankText = "{0} is required"

	// overridden default texts; {0} is the field label, {1} the tag param
	defaultTexts = map[string]string{
		"required": "{0} is required",
		"min":      "{0} must be at least {1} characters",
		"max":      "{0} must be less than {1} characters",
		"email":    "Invalid email address",
		"oneof":    "{0} must be one of: {1}",
		"gte":      "{0} cannot be negative",
		"datetime": "{0} must be a valid date",
	}

	labelsMu    sync.RWMutex
	fieldLabels = make(map[string]string) // {json name: human label}
)

// NewTranslator returns the english translator used for validation messages.
func NewTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(validate, translator, notBlankTag, notBlankText)

	for tag, text := range defaultTexts {
		RegisterCustomTranslation(validate, translator, tag, text, true)
	}
}

// RegisterFieldLabel sets the human readable label used in messages for a JSON field name.
func RegisterFieldLabel(field, label string) {
	labelsMu.Lock()
	defer labelsMu.Unlock()
	fieldLabels[field] = label
}

func fieldLabel(fe validator.FieldError) string {
	labelsMu.RLock()
	defer labelsMu.RUnlock()
	if label, ok := fieldLabels[fe.Field()]; ok {
		return label
	}
	return fe.Field()
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fieldLabel(fe), fe.Param())
			return s
		},
	)
}

// Validate runs struct validation and converts failures into a *ValidationError
// whose message is the first violated rule.
func Validate(validate *validator.Validate, translator ut.Translator, s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return errors.Wrap(err, "validating struct")
	}

	flds := make([]FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		flds = append(flds, FieldError{Field: fe.Field(), Error: fe.Translate(translator)})
	}
	return NewValidationError(errors.New(flds[0].Error), flds...)
}

// Custom Global Validators

// notBlankValidation rejects whitespace-only strings.
func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}
