package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ncobase/ncrud/token"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(fieldName)
	if err := validate.RegisterValidation("cursor", isCursor); err != nil {
		panic(err)
	}
}

// errorMessages maps languages to validation tags to messages.
var errorMessages = map[string]map[string]string{
	"en": {
		"required": "The field '%s' is required.",
		"min":      "The field '%s' must be at least %s.",
		"max":      "The field '%s' must be no greater than %s.",
		"lte":      "The field '%s' must be less than or equal to %s.",
		"gte":      "The field '%s' must be greater than or equal to %s.",
		"gt":       "The field '%s' must be greater than %s.",
		"lt":       "The field '%s' must be less than %s.",
		"oneof":    "The field '%s' must be one of %s.",
		"cursor":   "The field '%s' must be a continuation token.",
	},
	"zh": {
		"required": "字段 '%s' 为必填项。",
		"min":      "字段 '%s' 不能小于 %s。",
		"max":      "字段 '%s' 不能大于 %s。",
		"lte":      "字段 '%s' 的值必须小于或等于 %s。",
		"gte":      "字段 '%s' 的值必须大于或等于 %s。",
		"gt":       "字段 '%s' 的值必须大于 %s。",
		"lt":       "字段 '%s' 的值必须小于 %s。",
		"oneof":    "字段 '%s' 的值必须是 %s 之一。",
		"cursor":   "字段 '%s' 必须是有效的续页令牌。",
	},
}

// fieldName prefers the json name, then the form name, then the Go name.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.Split(f.Tag.Get(key), ",")[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// isCursor accepts empty strings and anything that decodes as unpadded
// base64url.
func isCursor(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := token.DecodeBase64URL(s)
	return err == nil
}

// parseMessage constructs a friendly error message based on the validation tag and custom messages.
func parseMessage(name string, e validator.FieldError, lang ...string) string {
	msgLang := "en"
	if len(lang) > 0 {
		msgLang = lang[0]
	}
	if msgs, exists := errorMessages[msgLang]; exists {
		if msg, exists := msgs[e.Tag()]; exists {
			switch strings.Count(msg, "%s") {
			case 1:
				return fmt.Sprintf(msg, name)
			case 2:
				return fmt.Sprintf(msg, name, e.Param())
			}
		}
	}
	return fmt.Sprintf("Field '%s' is invalid: %s", name, e.Tag())
}

// ValidateStruct validates a struct and returns a map of field names to friendly error messages.
func ValidateStruct(s any, lang ...string) map[string]string {
	validationErrors := make(map[string]string)

	err := validate.Struct(s)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, e := range validationErrs {
				validationErrors[e.Field()] = parseMessage(e.Field(), e, lang...)
			}
		}
	}

	return validationErrors
}
