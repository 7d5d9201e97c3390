package rsvpfields

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"wedding-invitation/internal/models"
)

func TestNormalizeFieldTypeAliases(t *testing.T) {
	for alias, want := range Aliases() {
		if got := NormalizeFieldType(alias); got != want {
			t.Errorf("NormalizeFieldType(%q) = %q, want %q", alias, got, want)
		}
	}
}

func TestNormalizeFieldTypeLooseInput(t *testing.T) {
	tests := []struct {
		raw  string
		want models.FieldType
	}{
		{"  Date & Time ", models.FieldDateTimeLocal},
		{"DATETIME", models.FieldDateTimeLocal},
		{"date   and   time", models.FieldDateTimeLocal},
		{"DropDown", models.FieldSelect},
		{"Choice", models.FieldSelect},
		{"Boolean", models.FieldCheckbox},
		{"toggle", models.FieldCheckbox},
		{"Phone Number", models.FieldTel},
		{"banana", models.FieldText},
		{"", models.FieldText},
		{"   ", models.FieldText},
	}
	for _, tt := range tests {
		if got := NormalizeFieldType(tt.raw); got != tt.want {
			t.Errorf("NormalizeFieldType(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeFieldTypeUnknownIsText(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("unlisted strings map to text", prop.ForAll(
		func(s string) bool {
			return NormalizeFieldType("zz"+s) == models.FieldText
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func raws(t *testing.T, docs ...string) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		out[i] = json.RawMessage(d)
	}
	return out
}

func TestNormalizeFields(t *testing.T) {
	fields := NormalizeFields(raws(t,
		`{"field_name":"diet","field_label":"Diet","field_type":"Dropdown","field_options":["Veg",{"label":"Non veg","value":"nonveg"}],"display_order":2}`,
		`{"name":"song","label":"Song request","type":"text"}`,
		`{"field_name":"guests","field_type":"integer","is_required":"true","display_order":"1","max_length":3}`,
		`{"field_name":"note","field_type":"paragraph"}`,
		`{"field_name":"diet","field_type":"text"}`,
		`{"field_label":"no name"}`,
		`not json`,
	))

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.FieldName
	}
	want := []string{"guests", "diet", "song", "note"}
	if len(names) != len(want) {
		t.Fatalf("got fields %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got fields %v, want %v", names, want)
		}
	}

	guests := fields[0]
	if guests.FieldType != models.FieldNumber || !guests.IsRequired || guests.MaxLength != 3 {
		t.Errorf("guests field = %+v", guests)
	}
	if guests.FieldLabel != "guests" {
		t.Errorf("label should default to the name, got %q", guests.FieldLabel)
	}

	diet := fields[1]
	if diet.FieldType != models.FieldSelect {
		t.Errorf("diet type = %q, want the first descriptor's type", diet.FieldType)
	}
	wantOpts := []models.FieldOption{{Label: "Veg", Value: "Veg"}, {Label: "Non veg", Value: "nonveg"}}
	if len(diet.FieldOptions) != len(wantOpts) || diet.FieldOptions[0] != wantOpts[0] || diet.FieldOptions[1] != wantOpts[1] {
		t.Errorf("diet options = %+v, want %+v", diet.FieldOptions, wantOpts)
	}

	if fields[2].DisplayOrder != nil || fields[3].DisplayOrder != nil {
		t.Error("unordered fields should keep a nil display order")
	}
}

func TestSortFieldsIsStable(t *testing.T) {
	one, zero := 1, 0
	fields := []models.CustomField{
		{FieldName: "a", DisplayOrder: &one},
		{FieldName: "b"},
		{FieldName: "c", DisplayOrder: &one},
		{FieldName: "d", DisplayOrder: &zero},
		{FieldName: "e"},
	}
	SortFields(fields)
	got := ""
	for _, f := range fields {
		got += f.FieldName
	}
	if got != "dacbe" {
		t.Errorf("sorted order = %q, want %q", got, "dacbe")
	}
}

func TestOptionsFromStrings(t *testing.T) {
	got := options(`["x","y"]`)
	if len(got) != 2 || got[1].Value != "y" {
		t.Errorf("json string options = %+v", got)
	}
	got = options("red, green ,")
	if len(got) != 2 || got[0].Value != "red" || got[1].Value != "green" {
		t.Errorf("comma options = %+v", got)
	}
	if got := options(42.0); got != nil {
		t.Errorf("number options = %+v, want nil", got)
	}
}
