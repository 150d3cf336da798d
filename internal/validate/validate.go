// Package validate holds the pure, synchronous field rules for the
// registration wizard. Functions here have no side effects; callers own
// error display and clearing.
package validate

import (
	"regexp"
	"strconv"
	"time"

	"github.com/lankaspa/portal/internal/model"
)

// TotalSteps is the number of wizard pages.
const TotalSteps = 4

// Age window applied to date of birth.
const (
	MinAge = 18
	MaxAge = 65
)

var (
	// Old-format Sri Lankan NIC: nine digits plus a V or X check letter.
	nicPattern = regexp.MustCompile(`^[0-9]{9}[VXvx]$`)
	// Country-code prefixed mobile number: +94 followed by nine digits.
	phonePattern = regexp.MustCompile(`^\+94[0-9]{9}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

const dateLayout = "2006-01-02"

// StepFields returns the required fields for a wizard step. The final review
// step has no required fields of its own; attachment completeness is checked
// by the submission assembler.
func StepFields(step int) []string {
	switch step {
	case 1:
		return []string{model.FieldFullName, model.FieldNIC, model.FieldDateOfBirth, model.FieldGender}
	case 2:
		return []string{model.FieldPhone, model.FieldEmail, model.FieldAddress, model.FieldCity}
	case 3:
		return []string{model.FieldSpaID, model.FieldExperienceYears}
	default:
		return nil
	}
}

// Step checks one step's fields and returns a mapping of field name to
// human-readable message. An empty map means the step is valid.
func Step(fields *model.RegistrationFields, step int) map[string]string {
	errs := map[string]string{}

	for _, name := range StepFields(step) {
		value, _ := fields.Get(name)
		if value == "" {
			errs[name] = "This field is required"
			continue
		}
		if msg := checkFormat(name, value); msg != "" {
			errs[name] = msg
		}
	}

	return errs
}

func checkFormat(name, value string) string {
	switch name {
	case model.FieldNIC:
		if !nicPattern.MatchString(value) {
			return "NIC must be 9 digits followed by V or X"
		}
	case model.FieldPhone:
		if !phonePattern.MatchString(value) {
			return "Phone must be in +94XXXXXXXXX format"
		}
	case model.FieldEmail:
		if !emailPattern.MatchString(value) {
			return "Enter a valid email address"
		}
	case model.FieldDateOfBirth:
		return checkDateOfBirth(value)
	case model.FieldExperienceYears:
		years, err := strconv.Atoi(value)
		if err != nil || years < 0 {
			return "Experience must be a non-negative number of years"
		}
	}
	return ""
}

func checkDateOfBirth(value string) string {
	dob, err := time.Parse(dateLayout, value)
	if err != nil {
		return "Date of birth must be in YYYY-MM-DD format"
	}

	now := time.Now()
	if !dob.Before(now) {
		return "Date of birth must be in the past"
	}

	age := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		age--
	}
	if age < MinAge {
		return "Applicants must be at least 18 years old"
	}
	if age > MaxAge {
		return "Applicants must be 65 or younger"
	}
	return ""
}
