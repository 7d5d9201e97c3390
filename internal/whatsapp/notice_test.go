package whatsapp

import (
	"bytes"
	"strings"
	"testing"

	"wedding-invitation/internal/models"
	"wedding-invitation/internal/platform"
)

func TestNormalizePhoneNumber(t *testing.T) {
	tests := map[string]string{
		"0521234567":       "972521234567",
		"+972 52-123-4567": "972521234567",
		"9720521234567":    "972521234567",
		"(91) 98765 43210": "919876543210",
		"":                 "",
	}
	for in, want := range tests {
		if got := NormalizePhoneNumber(in); got != want {
			t.Errorf("NormalizePhoneNumber(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJID(t *testing.T) {
	if got := JID("+91 98765 43210").String(); got != "919876543210@s.whatsapp.net" {
		t.Errorf("JID = %q", got)
	}
}

func TestFormatRSVPNotice(t *testing.T) {
	got := FormatRSVPNotice(platform.RSVPNotice{
		GuestName: "Asha",
		Status:    models.GuestAccepted,
		BrideName: "Simran",
		GroomName: "Raj",
	})
	if want := "🎉 Asha accepted the invitation for the wedding of Simran & Raj."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = FormatRSVPNotice(platform.RSVPNotice{
		Status: models.GuestSubmitted,
		Data:   map[string]any{"guests": 2.0, "diet": "veg"},
	})
	want := "📝 A guest sent their RSVP details.\n\n• diet: veg\n• guests: 2"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderQR(t *testing.T) {
	var buf bytes.Buffer
	renderQR(&buf, "2@abc,def,ghi")
	out := buf.String()
	if !strings.Contains(out, "Linked Devices") || strings.Contains(out, "Pairing code:") {
		t.Errorf("unexpected QR output:\n%s", out)
	}
}
