// README: Field-level validation of search criteria using go-playground/validator tags.
package activity

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	cityPattern    = regexp.MustCompile(`^[a-zA-Z\s\-'.]+$`)
	zipPattern     = regexp.MustCompile(`^\d{5}$`)
	datePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	criteriaChecks = newValidator()
)

// ValidationError is a user-facing rejection of one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "cityname", func(fl validator.FieldLevel) bool {
		return cityPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "usstate", func(fl validator.FieldLevel) bool {
		return IsUSState(fl.Field().String())
	})
	mustRegister(v, "zipcode5", func(fl validator.FieldLevel) bool {
		return zipPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "datefmt", func(fl validator.FieldLevel) bool {
		return datePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "calendardate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateLayout, fl.Field().String())
		return err == nil
	})
	mustRegister(v, "timeslot", func(fl validator.FieldLevel) bool {
		return TimeSlot(fl.Field().String()).Valid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Validate checks every field against the search constraints and normalizes the
// state code to upper case. now anchors the allowed date window.
func (c *SearchCriteria) Validate(now time.Time) error {
	if err := criteriaChecks.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return translate(fieldErrs[0])
		}
		return &ValidationError{Message: "Invalid search criteria"}
	}
	if !dateInRange(c.Date, now) {
		return &ValidationError{
			Field:   "date",
			Message: fmt.Sprintf("Date must be within %d year in the past and %d year in the future", yearsBack, yearsForward),
		}
	}
	c.State = strings.ToUpper(c.State)
	return nil
}

func translate(fe validator.FieldError) *ValidationError {
	field := fe.Field()
	// Ages[2] style namespaces belong to the ages field.
	if strings.HasPrefix(field, "Ages[") {
		field = "Ages"
	}
	msg := "Invalid value for " + field
	switch field {
	case "City":
		switch fe.Tag() {
		case "required":
			msg = "City is required and must be a string"
		case "notblank":
			msg = "City cannot be empty"
		case "max":
			msg = fmt.Sprintf("City must be %d characters or less", MaxCityLength)
		case "cityname":
			msg = "City contains invalid characters (only letters, spaces, hyphens, apostrophes, and periods allowed)"
		}
	case "State":
		if fe.Tag() == "required" {
			msg = "State is required and must be a string"
		} else {
			msg = "State must be a valid US state code (e.g., CA, NY, TX)"
		}
	case "ZipCode":
		msg = "Zip code must be exactly 5 digits"
	case "Ages":
		switch {
		case fe.Tag() == "required" || (fe.Tag() == "min" && fe.Kind() == reflect.Slice):
			msg = "At least one age is required"
		case fe.Tag() == "max" && fe.Kind() == reflect.Slice:
			msg = fmt.Sprintf("Cannot specify more than %d ages", MaxAgeCount)
		default:
			msg = fmt.Sprintf("All ages must be between %d and %d", MinAge, MaxAge)
		}
	case "Date":
		switch fe.Tag() {
		case "required":
			msg = "Date is required and must be a string"
		case "datefmt":
			msg = "Date must be in YYYY-MM-DD format"
		case "calendardate":
			msg = "Date is not a valid calendar date"
		}
	case "TimeSlot":
		if fe.Tag() == "required" {
			msg = "Time slot is required and must be a string"
		} else {
			msg = "Time slot must be one of: all_day, morning, afternoon, evening, night"
		}
	case "Distance":
		if fe.Tag() == "required" {
			msg = "Distance is required and must be a number"
		} else {
			msg = fmt.Sprintf("Distance must be between %d and %d miles", MinDistance, MaxDistance)
		}
	case "Preferences":
		msg = fmt.Sprintf("Preferences must be %d characters or less", MaxPreferencesLength)
	}
	return &ValidationError{Field: jsonName(field), Message: msg}
}

func jsonName(field string) string {
	switch field {
	case "ZipCode":
		return "zipCode"
	case "TimeSlot":
		return "timeSlot"
	}
	return strings.ToLower(field)
}
