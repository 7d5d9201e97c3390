package whatsapp

import (
	"fmt"
	"sort"
	"strings"

	"wedding-invitation/internal/models"
	"wedding-invitation/internal/platform"
)

// FormatRSVPNotice renders the text the couple receives
func FormatRSVPNotice(n platform.RSVPNotice) string {
	guest := n.GuestName
	if guest == "" {
		guest = "A guest"
	}

	var b strings.Builder
	switch n.Status {
	case models.GuestAccepted:
		fmt.Fprintf(&b, "🎉 %s accepted the invitation", guest)
	case models.GuestSubmitted:
		fmt.Fprintf(&b, "📝 %s sent their RSVP details", guest)
	default:
		fmt.Fprintf(&b, "%s updated their RSVP (%s)", guest, n.Status)
	}
	if n.BrideName != "" && n.GroomName != "" {
		fmt.Fprintf(&b, " for the wedding of %s & %s", n.BrideName, n.GroomName)
	}
	b.WriteString(".")

	if len(n.Data) > 0 {
		keys := make([]string, 0, len(n.Data))
		for k := range n.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "\n• %s: %v", k, n.Data[k])
		}
	}
	return b.String()
}
