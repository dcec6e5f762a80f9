package validation

import (
	"math"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/bazaar/internal/pkg/apperrors"
)

var (
	EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

	NameMaxLength  = 100
	TitleMaxLength = 200
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// StringValidation checks a single text input after trimming surrounding whitespace.
type StringValidation struct {
	Field    string
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a required string validation for field
func NewStringValidation(field, value string) *StringValidation {
	return &StringValidation{
		Field:    field,
		Value:    strings.TrimSpace(value),
		Required: true,
	}
}

func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Valid reports whether the trimmed value passes every configured rule.
func (v *StringValidation) Valid() bool {
	return v.Validate() == nil
}

// Validate returns a field-scoped validation error, or nil.
func (v *StringValidation) Validate() error {
	if v.Value == "" {
		if v.Required {
			return apperrors.NewFieldError(v.Field, v.Field+" is required")
		}
		return nil
	}
	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return apperrors.NewFieldError(v.Field, v.Field+" is too short")
	}
	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return apperrors.NewFieldError(v.Field, v.Field+" is too long")
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return apperrors.NewFieldError(v.Field, v.Field+" is malformed")
	}
	return nil
}

// Trimmed returns the normalized value
func (v *StringValidation) Trimmed() string {
	return v.Value
}

// IsPositiveFinite reports whether f is a usable price or size.
func IsPositiveFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}

// PositiveNumber validates a required strictly positive finite number.
func PositiveNumber(field string, f float64) error {
	if !IsPositiveFinite(f) {
		return apperrors.NewFieldError(field, field+" must be a positive number")
	}
	return nil
}

// ParseID validates that raw is a well-formed identifier before any lookup.
func ParseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperrors.NewCustomError(apperrors.ErrInvalidID, "Invalid "+field).
			WithDetails(map[string]interface{}{"field": field})
	}
	return id, nil
}
