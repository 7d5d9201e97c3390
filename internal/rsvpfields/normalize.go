// Package rsvpfields turns the platform's loosely typed custom-field descriptors
// into canonical form fields and validates guest answers against them.
package rsvpfields

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"wedding-invitation/internal/models"
)

// unordered sinks fields without a display order below every ordered field.
const unordered = math.MaxInt32

var aliases = map[string]models.FieldType{
	"text":       models.FieldText,
	"string":     models.FieldText,
	"short text": models.FieldText,
	"short_text": models.FieldText,
	"input":      models.FieldText,

	"textarea":  models.FieldTextarea,
	"long text": models.FieldTextarea,
	"long_text": models.FieldTextarea,
	"paragraph": models.FieldTextarea,
	"multiline": models.FieldTextarea,

	"select":   models.FieldSelect,
	"dropdown": models.FieldSelect,
	"choice":   models.FieldSelect,
	"options":  models.FieldSelect,
	"radio":    models.FieldSelect,

	"email":         models.FieldEmail,
	"e-mail":        models.FieldEmail,
	"email address": models.FieldEmail,

	"number":  models.FieldNumber,
	"numeric": models.FieldNumber,
	"integer": models.FieldNumber,
	"int":     models.FieldNumber,

	"tel":          models.FieldTel,
	"phone":        models.FieldTel,
	"telephone":    models.FieldTel,
	"phone number": models.FieldTel,
	"mobile":       models.FieldTel,

	"checkbox": models.FieldCheckbox,
	"boolean":  models.FieldCheckbox,
	"bool":     models.FieldCheckbox,
	"toggle":   models.FieldCheckbox,
	"yes/no":   models.FieldCheckbox,

	"date": models.FieldDate,
	"time": models.FieldTime,

	"datetime-local": models.FieldDateTimeLocal,
	"datetime":       models.FieldDateTimeLocal,
	"date & time":    models.FieldDateTimeLocal,
	"date and time":  models.FieldDateTimeLocal,
	"date_time":      models.FieldDateTimeLocal,
}

// Aliases returns a copy of the alias table
func Aliases() map[string]models.FieldType {
	out := make(map[string]models.FieldType, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}

// NormalizeFieldType maps raw to a canonical type, ignoring case and surrounding
// or repeated whitespace. Anything unknown is text.
func NormalizeFieldType(raw string) models.FieldType {
	key := strings.Join(strings.Fields(cases.Fold().String(raw)), " ")
	if t, ok := aliases[key]; ok {
		return t
	}
	return models.FieldText
}

// NormalizeFields decodes raw descriptors into canonical fields. Descriptors
// without a name are dropped, the first of duplicate names wins, and the result
// is stable-sorted by display order with unordered fields last.
func NormalizeFields(raw []json.RawMessage) []models.CustomField {
	fields := make([]models.CustomField, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		var desc map[string]any
		if err := json.Unmarshal(r, &desc); err != nil {
			continue
		}
		f, ok := fromDescriptor(desc)
		if !ok || seen[f.FieldName] {
			continue
		}
		seen[f.FieldName] = true
		fields = append(fields, f)
	}
	SortFields(fields)
	return fields
}

// SortFields stable-sorts fields in place by display order
func SortFields(fields []models.CustomField) {
	sort.SliceStable(fields, func(i, j int) bool {
		return order(fields[i]) < order(fields[j])
	})
}

func order(f models.CustomField) int {
	if f.DisplayOrder == nil {
		return unordered
	}
	return *f.DisplayOrder
}

func fromDescriptor(d map[string]any) (models.CustomField, bool) {
	name := strings.TrimSpace(str(pick(d, "field_name", "name", "key", "id")))
	if name == "" {
		return models.CustomField{}, false
	}
	f := models.CustomField{
		FieldName:       name,
		FieldLabel:      str(pick(d, "field_label", "label", "title")),
		FieldType:       NormalizeFieldType(str(pick(d, "field_type", "type"))),
		IsRequired:      truthy(pick(d, "is_required", "required")),
		PlaceholderText: str(pick(d, "placeholder_text", "placeholder")),
		FieldOptions:    options(pick(d, "field_options", "options")),
	}
	if f.FieldLabel == "" {
		f.FieldLabel = name
	}
	if n, ok := integer(pick(d, "max_length", "maxLength")); ok && n > 0 {
		f.MaxLength = n
	}
	if n, ok := integer(pick(d, "display_order", "displayOrder", "order")); ok {
		f.DisplayOrder = &n
	}
	return f, true
}

func pick(d map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := d[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "y":
			return true
		}
	}
	return false
}

func integer(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	}
	return 0, false
}

// options accepts a list of bare strings or {label, value} objects, a JSON
// array encoded as a string, or a comma separated string.
func options(v any) []models.FieldOption {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case string:
		if err := json.Unmarshal([]byte(t), &items); err != nil {
			for _, part := range strings.Split(t, ",") {
				items = append(items, part)
			}
		}
	default:
		return nil
	}

	out := make([]models.FieldOption, 0, len(items))
	for _, item := range items {
		switch o := item.(type) {
		case string:
			o = strings.TrimSpace(o)
			if o != "" {
				out = append(out, models.FieldOption{Label: o, Value: o})
			}
		case float64, bool:
			s := str(o)
			out = append(out, models.FieldOption{Label: s, Value: s})
		case map[string]any:
			opt := models.FieldOption{Label: str(o["label"]), Value: str(o["value"])}
			if opt.Value == "" {
				opt.Value = opt.Label
			}
			if opt.Label == "" {
				opt.Label = opt.Value
			}
			if opt.Value != "" {
				out = append(out, opt)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
