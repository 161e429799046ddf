// Package validate holds the pure field validators behind document
// acceptance. Every function is total: it returns either a normalized value
// or a coded error, never panics, and touches no shared state, so callers may
// run them with unbounded concurrency.
package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"docseva/internal/verification/registry"
	dErrors "docseva/pkg/domain-errors"
)

// DateLayout is the wire format for all date fields.
const DateLayout = "2006-01-02"

var (
	panPattern       = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	separatorPattern = regexp.MustCompile(`[^0-9A-Za-z]`)
)

// Aadhaar strips separators (hyphens, spaces) and requires exactly 12 digits.
func Aadhaar(raw string) (string, error) {
	cleaned := separatorPattern.ReplaceAllString(raw, "")
	if len(cleaned) != 12 {
		return "", dErrors.New(dErrors.CodeInvalidFormat, "Aadhaar number must be exactly 12 digits")
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", dErrors.New(dErrors.CodeInvalidFormat, "Aadhaar number must be exactly 12 digits")
		}
	}
	return cleaned, nil
}

// PAN uppercases the input and requires 5 letters + 4 digits + 1 letter.
func PAN(raw string) (string, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	if !panPattern.MatchString(cleaned) {
		return "", dErrors.New(dErrors.CodeInvalidFormat, "PAN must be 5 letters, 4 digits and a letter, e.g. ABCDE1234F")
	}
	return cleaned, nil
}

// Date parses a calendar date in wire format.
func Date(raw string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", dErrors.New(dErrors.CodeInvalidDate, "date must be a valid calendar date in YYYY-MM-DD form")
	}
	return t.Format(DateLayout), nil
}

// DateOfBirth parses a date and rejects values after the capture time.
func DateOfBirth(raw string, now time.Time) (string, error) {
	normalized, err := Date(raw)
	if err != nil {
		return "", err
	}
	t, _ := time.Parse(DateLayout, normalized)
	if t.After(now) {
		return "", dErrors.New(dErrors.CodeInvalidDate, "date of birth cannot be in the future")
	}
	return normalized, nil
}

// FutureDate parses a date and requires it to be strictly after the capture
// time. Used for license and passport expiry.
func FutureDate(raw string, now time.Time) (string, error) {
	normalized, err := Date(raw)
	if err != nil {
		return "", err
	}
	t, _ := time.Parse(DateLayout, normalized)
	if !t.After(now) {
		return "", dErrors.New(dErrors.CodeExpiredDocument, "document has expired; expiry date must be in the future")
	}
	return normalized, nil
}

// RequiredText trims the input and rejects empty values.
func RequiredText(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "", dErrors.New(dErrors.CodeRequiredFieldMissing, "this field is required")
	}
	return cleaned, nil
}

// UppercaseID trims, uppercases and rejects empty identifier values (license,
// passport, ration card and voter numbers).
func UppercaseID(raw string) (string, error) {
	cleaned, err := RequiredText(raw)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(cleaned), nil
}

// Count parses an integer that must be at least 1 (family member count).
func Count(raw string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return "", dErrors.New(dErrors.CodeInvalidValue, "must be a whole number")
	}
	if n < 1 {
		return "", dErrors.New(dErrors.CodeInvalidValue, "must be at least 1")
	}
	return strconv.Itoa(n), nil
}

// Field validates one value against its spec at the given capture time.
func Field(spec registry.FieldSpec, raw string, now time.Time) (string, error) {
	switch spec.Constraint {
	case registry.ConstraintAadhaar:
		return Aadhaar(raw)
	case registry.ConstraintPAN:
		return PAN(raw)
	case registry.ConstraintUppercase:
		return UppercaseID(raw)
	case registry.ConstraintPastDate:
		return DateOfBirth(raw, now)
	case registry.ConstraintFuture:
		return FutureDate(raw, now)
	case registry.ConstraintMinOne:
		return Count(raw)
	}
	switch spec.Kind {
	case registry.KindDate:
		return Date(raw)
	case registry.KindNumber:
		return Count(raw)
	default:
		return RequiredText(raw)
	}
}

// Apply validates officer input against a document schema. On success it
// returns the normalized field map; on failure a CodeValidationFailed error
// carrying one reason per offending field. Optional fields left blank are
// omitted from the output; unknown input fields are ignored.
func Apply(schema []registry.FieldSpec, input map[string]string, now time.Time) (map[string]string, error) {
	normalized := make(map[string]string, len(schema))
	failures := map[string]string{}

	for _, spec := range schema {
		raw, present := input[spec.Name]
		if strings.TrimSpace(raw) == "" {
			present = false
		}
		if !present {
			if spec.Required {
				failures[spec.Name] = spec.Name + " is required"
			}
			continue
		}
		value, err := Field(spec, raw, now)
		if err != nil {
			var coded *dErrors.Error
			if errors.As(err, &coded) {
				failures[spec.Name] = coded.Message()
			} else {
				failures[spec.Name] = err.Error()
			}
			continue
		}
		normalized[spec.Name] = value
	}

	if len(failures) > 0 {
		return nil, dErrors.NewValidation(failures)
	}
	return normalized, nil
}
