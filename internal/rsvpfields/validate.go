package rsvpfields

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"wedding-invitation/internal/models"
)

// ValidationErrors maps a field name to the message shown next to that field
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e[name]))
	}
	return "invalid rsvp data: " + strings.Join(parts, "; ")
}

var telPattern = regexp.MustCompile(`^\+?[0-9 ()\-.]{6,20}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("tel", func(fl validator.FieldLevel) bool {
		return telPattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
	return v
}

var formatTags = map[models.FieldType]string{
	models.FieldEmail:         "email",
	models.FieldNumber:        "numeric",
	models.FieldTel:           "tel",
	models.FieldDate:          "datetime=2006-01-02",
	models.FieldTime:          "datetime=15:04",
	models.FieldDateTimeLocal: "datetime=2006-01-02T15:04",
}

var formatMessages = map[models.FieldType]string{
	models.FieldEmail:         "must be a valid email address",
	models.FieldNumber:        "must be a number",
	models.FieldTel:           "must be a valid phone number",
	models.FieldDate:          "must be a date (YYYY-MM-DD)",
	models.FieldTime:          "must be a time (HH:MM)",
	models.FieldDateTimeLocal: "must be a date and time (YYYY-MM-DDTHH:MM)",
}

// Validate checks guest answers against fields. It returns nil when every field
// is acceptable. Answers for unknown field names are ignored.
func Validate(fields []models.CustomField, data map[string]any) error {
	errs := ValidationErrors{}
	for _, f := range fields {
		if msg := validateField(f, data[f.FieldName]); msg != "" {
			errs[f.FieldName] = msg
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateField(f models.CustomField, value any) string {
	if f.FieldType == models.FieldCheckbox {
		if f.IsRequired && !truthy(value) {
			return "is required"
		}
		return ""
	}

	s := strings.TrimSpace(answer(value))
	if s == "" {
		if f.IsRequired {
			return "is required"
		}
		return ""
	}

	if f.MaxLength > 0 {
		if err := validate.Var(s, "max="+strconv.Itoa(f.MaxLength)); err != nil {
			return fmt.Sprintf("must be at most %d characters", f.MaxLength)
		}
	}

	if f.FieldType == models.FieldSelect && len(f.FieldOptions) > 0 {
		for _, o := range f.FieldOptions {
			if o.Value == s {
				return ""
			}
		}
		return "must be one of the listed options"
	}

	if tag, ok := formatTags[f.FieldType]; ok {
		if err := validate.Var(s, tag); err != nil {
			return formatMessages[f.FieldType]
		}
	}
	return ""
}

func answer(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
