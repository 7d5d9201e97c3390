package models

// FieldType is the canonical custom-field type the form renderer dispatches on
type FieldType string

const (
	FieldText          FieldType = "text"
	FieldTextarea      FieldType = "textarea"
	FieldSelect        FieldType = "select"
	FieldEmail         FieldType = "email"
	FieldNumber        FieldType = "number"
	FieldTel           FieldType = "tel"
	FieldCheckbox      FieldType = "checkbox"
	FieldDate          FieldType = "date"
	FieldTime          FieldType = "time"
	FieldDateTimeLocal FieldType = "datetime-local"
)

// CustomField is a platform-defined field of the detailed RSVP form
type CustomField struct {
	FieldName       string        `json:"field_name"`
	FieldLabel      string        `json:"field_label"`
	FieldType       FieldType     `json:"field_type"`
	IsRequired      bool          `json:"is_required"`
	PlaceholderText string        `json:"placeholder_text,omitempty"`
	MaxLength       int           `json:"max_length,omitempty"`
	DisplayOrder    *int          `json:"display_order,omitempty"`
	FieldOptions    []FieldOption `json:"field_options,omitempty"`
}

type FieldOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
