package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Guest is a guest as seen by the invitation: who they are and where they are in the RSVP flow
type Guest struct {
	ID          string         `json:"guest_id"`
	Name        string         `json:"name"`
	Status      GuestStatus    `json:"status"`
	RSVPData    map[string]any `json:"rsvp_data,omitempty"`
	RespondedAt time.Time      `json:"responded_at,omitempty"`
	ViewedAt    time.Time      `json:"viewed_at,omitempty"`
}

// GuestStatus represents an invitee's progress through the RSVP flow
type GuestStatus string

const (
	GuestPending   GuestStatus = "pending"
	GuestViewed    GuestStatus = "viewed"
	GuestAccepted  GuestStatus = "accepted"
	GuestSubmitted GuestStatus = "submitted"
	// GuestDeclined is only ever set locally in demo mode.
	GuestDeclined GuestStatus = "declined"
)

// ParseGuestStatus maps a loosely typed status to a GuestStatus. Empty, null and
// unknown values are pending.
func ParseGuestStatus(raw string) GuestStatus {
	switch GuestStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case GuestViewed:
		return GuestViewed
	case GuestAccepted:
		return GuestAccepted
	case GuestSubmitted:
		return GuestSubmitted
	case GuestDeclined:
		return GuestDeclined
	default:
		return GuestPending
	}
}

// RSVPMode is the RSVP configuration type
type RSVPMode string

const (
	RSVPSimple   RSVPMode = "simple"
	RSVPDetailed RSVPMode = "detailed"
)

// ParseRSVPMode treats "simple" (any casing) as simple and every other non-empty
// token as detailed. Empty input is simple.
func ParseRSVPMode(raw string) RSVPMode {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == string(RSVPSimple) {
		return RSVPSimple
	}
	return RSVPDetailed
}

// RSVPConfig is the resolved RSVP configuration. On the wire it is either a bare
// string or an object with a type and optional custom fields.
type RSVPConfig struct {
	Type                 RSVPMode          `json:"type"`
	CustomFields         []json.RawMessage `json:"custom_fields,omitempty"`
	AllowEditAfterSubmit bool              `json:"allow_edit_after_submit,omitempty"`
}

// UnmarshalJSON accepts "simple", "detailed" or {"type": ...}. Anything it cannot
// read resolves to simple rather than failing the enclosing document.
func (c *RSVPConfig) UnmarshalJSON(b []byte) error {
	*c = RSVPConfig{Type: RSVPSimple}

	var token string
	if err := json.Unmarshal(b, &token); err == nil {
		c.Type = ParseRSVPMode(token)
		return nil
	}

	var obj struct {
		Type                 string            `json:"type"`
		CustomFields         []json.RawMessage `json:"custom_fields"`
		AllowEditAfterSubmit bool              `json:"allow_edit_after_submit"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil
	}
	c.Type = ParseRSVPMode(obj.Type)
	c.CustomFields = obj.CustomFields
	c.AllowEditAfterSubmit = obj.AllowEditAfterSubmit
	return nil
}

// PlatformData is the draft platform state assembled from the URL and from messages
type PlatformData struct {
	EventID          string               `json:"eventId,omitempty"`
	GuestID          string               `json:"guestId,omitempty"`
	GuestName        string               `json:"guestName,omitempty"`
	GuestStatus      GuestStatus          `json:"guestStatus,omitempty"`
	RSVPConfig       RSVPConfig           `json:"rsvpConfig"`
	CanSubmitRSVP    bool                 `json:"canSubmitRsvp"`
	CanEditRSVP      bool                 `json:"canEditRsvp"`
	ShowSubmitButton bool                 `json:"showSubmitButton"`
	ShowEditButton   bool                 `json:"showEditButton"`
	ExistingRSVPData map[string]any       `json:"existingRsvpData,omitempty"`
	CustomFields     []CustomField        `json:"customFields,omitempty"`
	StructuredData   *StructuredEventData `json:"structuredData,omitempty"`
	TemplateID       string               `json:"templateId,omitempty"`
}

// Clone returns a copy whose maps and slices are not shared with p.
func (p PlatformData) Clone() PlatformData {
	out := p
	if p.ExistingRSVPData != nil {
		out.ExistingRSVPData = make(map[string]any, len(p.ExistingRSVPData))
		for k, v := range p.ExistingRSVPData {
			out.ExistingRSVPData[k] = v
		}
	}
	if p.CustomFields != nil {
		out.CustomFields = append([]CustomField(nil), p.CustomFields...)
	}
	if p.RSVPConfig.CustomFields != nil {
		out.RSVPConfig.CustomFields = append([]json.RawMessage(nil), p.RSVPConfig.CustomFields...)
	}
	return out
}
