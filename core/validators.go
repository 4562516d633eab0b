package core

import (
	"reflect"
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const requiredText = "this field is required"

var personNameRegex = regexp.MustCompile(`^\p{L}[\p{L}\s'.-]*$`)

// customValidators are the tags shared by every domain package.
var customValidators = []struct {
	tag  string
	text string
	fn   validator.Func
}{
	{
		tag:  "personname",
		text: "only letters, spaces, apostrophes, dots and hyphens are allowed",
		fn:   func(fl validator.FieldLevel) bool { return personNameRegex.MatchString(fl.Field().String()) },
	},
	{
		tag:  "grade",
		text: "{0} must be one of A, B, C or D",
		fn: func(fl validator.FieldLevel) bool {
			_, ok := GradeValue(fl.Field().String())
			return ok
		},
	},
}

// InitValidators registers the English translations, JSON field names and the custom tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for _, cv := range customValidators {
		_ = validate.RegisterValidation(cv.tag, cv.fn)
		RegisterCustomTranslation(validate, translator, cv.tag, cv.text)
	}
	RegisterCustomTranslation(validate, translator, "required", requiredText, true)
}

// RegisterCustomTranslation sets the message of tag; "{0}" is replaced by the field name.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	ovrd := len(override) > 0 && override[0]
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}
