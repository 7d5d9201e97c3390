package rsvpfields

import (
	"errors"
	"strings"
	"testing"

	"wedding-invitation/internal/models"
)

func TestValidate(t *testing.T) {
	fields := []models.CustomField{
		{FieldName: "email", FieldType: models.FieldEmail, IsRequired: true},
		{FieldName: "guests", FieldType: models.FieldNumber},
		{FieldName: "phone", FieldType: models.FieldTel},
		{FieldName: "arrival", FieldType: models.FieldDate},
		{FieldName: "eta", FieldType: models.FieldTime},
		{FieldName: "when", FieldType: models.FieldDateTimeLocal},
		{FieldName: "diet", FieldType: models.FieldSelect, FieldOptions: []models.FieldOption{{Label: "Veg", Value: "veg"}}},
		{FieldName: "note", FieldType: models.FieldTextarea, MaxLength: 5},
		{FieldName: "consent", FieldType: models.FieldCheckbox, IsRequired: true},
	}

	t.Run("valid", func(t *testing.T) {
		err := Validate(fields, map[string]any{
			"email":   "guest@example.com",
			"guests":  2.0,
			"phone":   "+91 98765 43210",
			"arrival": "2025-08-23",
			"eta":     "18:30",
			"when":    "2025-08-23T18:30",
			"diet":    "veg",
			"note":    "hi",
			"consent": true,
			"extra":   "ignored",
		})
		if err != nil {
			t.Fatalf("Validate() = %v", err)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		err := Validate(fields, map[string]any{
			"guests":  "two",
			"phone":   "call me",
			"arrival": "23/08/2025",
			"eta":     "6pm",
			"when":    "tomorrow",
			"diet":    "vegan",
			"note":    "too long",
			"consent": false,
		})
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("Validate() error = %v, want ValidationErrors", err)
		}
		for _, name := range []string{"email", "guests", "phone", "arrival", "eta", "when", "diet", "note", "consent"} {
			if verrs[name] == "" {
				t.Errorf("expected an error for %q, got %v", name, verrs)
			}
		}
		if verrs["email"] != "is required" {
			t.Errorf("email error = %q", verrs["email"])
		}
		if !strings.HasPrefix(err.Error(), "invalid rsvp data: arrival:") {
			t.Errorf("Error() should list fields in name order, got %q", err.Error())
		}
	})

	t.Run("optional empty fields pass", func(t *testing.T) {
		err := Validate(fields[1:8], map[string]any{"guests": "", "phone": nil})
		if err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})
}

func TestTelValidatorRegistered(t *testing.T) {
	v := newValidator()
	if err := v.Var("+91 98765-43210", "tel"); err != nil {
		t.Errorf("valid number rejected: %v", err)
	}
	if err := v.Var("call me", "tel"); err == nil {
		t.Error("text accepted as a phone number")
	}
}
