// Package validation wraps go-playground/validator with the project's
// custom rules and turns failures into domain.ValidationError values keyed
// by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"credit-organization-api/internal/core/domain"
)

var (
	phonePattern    = regexp.MustCompile(`^\+?\d{7,21}$`)
	loanTypePattern = regexp.MustCompile(`^[\p{L}\s\-]+$`)
	upperPattern    = regexp.MustCompile(`[A-Z]`)
	digitPattern    = regexp.MustCompile(`\d`)
	symbolPattern   = regexp.MustCompile(`\W`)
)

// Validator validates request DTOs.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// New returns a Validator with every custom rule registered.
func New() *Validator {
	val := &Validator{v: validator.New(), now: time.Now}

	val.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	val.v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(val.v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(val.v, "strongpassword", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return upperPattern.MatchString(s) && digitPattern.MatchString(s) && symbolPattern.MatchString(s)
	})
	mustRegister(val.v, "capitalized", func(fl validator.FieldLevel) bool {
		r, _ := utf8.DecodeRuneInString(fl.Field().String())
		return r != utf8.RuneError && unicode.IsUpper(r)
	})
	mustRegister(val.v, "lettersonly", func(fl validator.FieldLevel) bool {
		return loanTypePattern.MatchString(fl.Field().String())
	})
	mustRegister(val.v, "notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && !t.IsZero() && !t.After(val.now())
	})

	return val
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Struct validates s and returns a *domain.ValidationError on failure.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &domain.ValidationError{Errors: make(map[string]string, len(ve))}
	for _, fe := range ve {
		key := fe.Field()
		if _, seen := out.Errors[key]; !seen {
			out.Errors[key] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	name := displayName(fe.StructField())
	switch fe.Tag() {
	case "required":
		return name + " is required."
	case "email":
		return name + " must be a valid email address."
	case "phone":
		return name + " must contain 7 to 21 digits and may start with '+'."
	case "strongpassword":
		return name + " must contain an uppercase letter, a digit and a special character."
	case "capitalized":
		return name + " must start with a capital letter."
	case "lettersonly":
		return name + " can only contain letters, spaces and hyphens."
	case "notfuture":
		return name + " cannot be in the future."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long.", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters.", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s.", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s.", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid.", name)
	}
}

// displayName turns a Go field name like LoanTypeID into "Loan type ID".
func displayName(field string) string {
	runes := []rune(field)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		if !unicode.IsUpper(runes[i]) {
			continue
		}
		prevLower := unicode.IsLower(runes[i-1])
		nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	words = append(words, string(runes[start:]))

	for i := 1; i < len(words); i++ {
		if strings.ToUpper(words[i]) != words[i] || len(words[i]) == 1 {
			words[i] = strings.ToLower(words[i])
		}
	}
	return strings.Join(words, " ")
}
