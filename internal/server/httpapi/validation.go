package httpapi

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/dmitrijs2005/deckexc/internal/common"
	"github.com/dmitrijs2005/deckexc/internal/server/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	cvcPattern        = regexp.MustCompile(`^[1-9][0-9]{2,3}$`)
	expirationPattern = regexp.MustCompile(`^(\d{4})/(0[1-9]|1[0-2])$`)

	// now is replaced in tests.
	now = time.Now

	registerOnce sync.Once
)

// registerValidators installs the custom rules on gin's validator engine and
// makes field errors report JSON names.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("luhn", func(fl validator.FieldLevel) bool { return luhnValid(fl.Field().String()) })
		_ = v.RegisterValidation("cvc", func(fl validator.FieldLevel) bool { return cvcPattern.MatchString(fl.Field().String()) })
		_ = v.RegisterValidation("expiration", func(fl validator.FieldLevel) bool { return expirationValid(fl.Field().String(), now()) })
		_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool { return passwordStrong(fl.Field().String()) })
		_ = v.RegisterValidation("question", func(fl validator.FieldLevel) bool {
			return models.SecurityQuestion(fl.Field().String()).Valid()
		})
	})
}

func luhnValid(number string) bool {
	if number == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// expirationValid accepts YYYY/MM not earlier than the current month.
func expirationValid(s string, at time.Time) bool {
	m := expirationPattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])

	if year != at.Year() {
		return year > at.Year()
	}
	return month >= int(at.Month())
}

// passwordStrong wants an upper-case letter, a lower-case letter and a digit
// or a symbol.
func passwordStrong(s string) bool {
	var upper, lower, other bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r), unicode.IsPunct(r), unicode.IsSymbol(r):
			other = true
		}
	}
	return upper && lower && other
}

// bindingError converts gin binding failures into a ValidationError keyed by
// JSON field name.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return &common.ValidationError{Fields: fields}
	}
	return &common.ValidationError{Fields: map[string]string{"body": "malformed request body"}}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a UUID"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "numeric":
		return "must contain digits only"
	case "luhn":
		return "is not a valid card number"
	case "cvc":
		return "must be 3 or 4 digits, not starting with 0"
	case "expiration":
		return "must be YYYY/MM and not in the past"
	case "password":
		return "must contain upper and lower case letters and a number or symbol"
	case "question":
		return "must be one of comida, cantante, pais"
	}
	return "is invalid"
}
