// Package validation wraps go-playground/validator with the clinic's
// custom tags and turns field errors into short messages.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/clinic/clinic/internal/platform/availability"
)

// ErrInvalid wraps every validation failure returned by Struct.
var ErrInvalid = errors.New("validation failed")

var validate *validator.Validate

var messages = map[string]string{
	"required":   "is required",
	"min":        "must be at least %s",
	"max":        "must be at most %s",
	"gte":        "must be greater than or equal to %s",
	"oneof":      "must be one of: %s",
	"email":      "must be a valid email address",
	"timeofday":  "must be a time in HH:MM or HH:MM:SS format",
	"weekday":    "must be a week day between 0 and 6",
	"avatar_url": "must be an absolute http(s) URL or a path starting with /",
}

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	validate.RegisterValidation("timeofday", validateTimeOfDay)
	validate.RegisterValidation("weekday", validateWeekDay)
	validate.RegisterValidation("avatar_url", validateAvatarURL)
}

// Struct validates s and returns an ErrInvalid-wrapped error listing every
// failing field.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return fmt.Errorf("%w: %s", ErrInvalid, format(verrs))
}

// Message strips the ErrInvalid prefix, leaving the user-facing text.
func Message(err error) string {
	return strings.TrimPrefix(err.Error(), ErrInvalid.Error()+": ")
}

func format(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		if strings.Contains(msg, "%s") {
			param := fe.Param()
			if fe.Tag() == "oneof" {
				param = strings.Join(strings.Fields(param), ", ")
			}
			msg = fmt.Sprintf(msg, param)
		}
		parts = append(parts, fe.Field()+" "+msg)
	}
	return strings.Join(parts, ", ")
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, err := availability.ParseTimeOfDay(fl.Field().String())
	return err == nil
}

func validateWeekDay(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return availability.WeekDay(fl.Field().Int()).Valid()
	}
	return false
}

// An avatar is either an absolute http(s) URL or a rooted path such as
// /uploads/a.png. Empty values are left to "required".
func validateAvatarURL(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return true
	}
	if strings.HasPrefix(s, "/") {
		return len(s) > 1
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
