package validator

import (
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate

	menuKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param"`
}

// ValidationErrors collects multiple validation failures.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	parts := make([]string, len(v))
	for i, err := range v {
		if err.Param != "" {
			parts[i] = err.Field + " failed on " + err.Tag + "=" + err.Param
		} else {
			parts[i] = err.Field + " failed on " + err.Tag
		}
	}
	return strings.Join(parts, "; ")
}

// ValidateStruct validates a struct using registered rules.
func ValidateStruct(s interface{}) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	if ve, ok := err.(validator.ValidationErrors); ok {
		failures := make(ValidationErrors, 0, len(ve))
		for _, fe := range ve {
			failures = append(failures, ValidationError{
				Field: fe.Field(),
				Tag:   fe.Tag(),
				Param: fe.Param(),
			})
		}
		return failures
	}

	return err
}

// RegisterValidation exposes underlying validator custom rules.
func RegisterValidation(tag string, fn validator.Func) error {
	return getValidator().RegisterValidation(tag, fn)
}

// IsMenuKey reports whether value is usable as a menu slug or item key.
func IsMenuKey(value string) bool {
	return menuKeyPattern.MatchString(value)
}

// IsMenuLink reports whether value can be the target of a menu link: a
// site-relative path, a fragment, or an absolute http, https or mailto URL.
func IsMenuLink(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if strings.HasPrefix(value, "/") {
		return !strings.HasPrefix(value, "//")
	}
	if strings.HasPrefix(value, "#") {
		return true
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return parsed.Host != ""
	case "mailto":
		return parsed.Opaque != ""
	}
	return false
}

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := fld.Tag.Get("json")
			if name == "" {
				return fld.Name
			}

			comma := strings.Index(name, ",")
			if comma != -1 {
				name = name[:comma]
			}

			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		// menu_key: lower-case slug used for menu slugs and item ids.
		_ = validate.RegisterValidation("menu_key", func(fl validator.FieldLevel) bool {
			return IsMenuKey(fl.Field().String())
		})
		_ = validate.RegisterValidation("menu_link", func(fl validator.FieldLevel) bool {
			return IsMenuLink(fl.Field().String())
		})
	})
	return validate
}
