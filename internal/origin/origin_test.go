package origin

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestIsTrusted(t *testing.T) {
	allow := []string{"https://platform.example.com", "https://admin.example.com"}
	tests := []struct {
		name    string
		origin  string
		current string
		want    bool
	}{
		{"current origin", "https://invite.example.com", "https://invite.example.com", true},
		{"allow-listed", "https://platform.example.com", "https://invite.example.com", true},
		{"second allow-listed", "https://admin.example.com", "https://invite.example.com", true},
		{"unknown", "https://evil.example.com", "https://invite.example.com", false},
		{"suffix is not a match", "https://evil.platform.example.com", "https://invite.example.com", false},
		{"trailing slash is not a match", "https://platform.example.com/", "https://invite.example.com", false},
		{"empty origin", "", "", false},
		{"null origin", "null", "https://invite.example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTrusted(tt.origin, tt.current, allow); got != tt.want {
				t.Errorf("IsTrusted(%q, %q) = %v, want %v", tt.origin, tt.current, got, tt.want)
			}
		})
	}
}

func TestIsTrustedProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	const current = "https://invite.example.com"

	properties.Property("origins outside the allow list are rejected", prop.ForAll(
		func(allow []string, candidate string) bool {
			if candidate == current || slices.Contains(allow, candidate) {
				return true
			}
			return !IsTrusted(candidate, current, allow)
		},
		gen.SliceOf(gen.AlphaString()),
		gen.AlphaString(),
	))

	properties.Property("every allow-listed origin is accepted", prop.ForAll(
		func(allow []string) bool {
			for _, o := range allow {
				if o != "" && !IsTrusted(o, current, allow) {
					return false
				}
			}
			return IsTrusted(current, current, allow)
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

func TestValidator(t *testing.T) {
	list := []string{"https://platform.example.com"}
	v := NewValidator(list)
	list[0] = "https://changed.example.com"

	if !v.Trusted("https://platform.example.com", "") {
		t.Error("validator should keep its own copy of the allow list")
	}
	if got := v.Target(); got != "https://platform.example.com" {
		t.Errorf("Target() = %q", got)
	}
	if got := NewValidator(nil).Target(); got != "*" {
		t.Errorf("Target() with empty list = %q, want *", got)
	}

	var nilValidator *Validator
	if nilValidator.Trusted("https://platform.example.com", "https://invite.example.com") {
		t.Error("nil validator should only trust the current origin")
	}
}
