package messaging

import (
	"fmt"

	"wedding-invitation/internal/models"
)

type field struct {
	name  string
	value string
}

func missing(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingCorrelation, name)
}

// TemplateReady is the TEMPLATE_READY payload
type TemplateReady struct {
	TemplateVersion string `json:"templateVersion"`
}

// GuestRef is the payload of INVITATION_VIEWED, RSVP_ACCEPTED and
// REQUEST_INITIAL_WISHES_DATA
type GuestRef struct {
	EventID string `json:"eventId"`
	GuestID string `json:"guestId,omitempty"`
}

// RSVPData is the payload of RSVP_SUBMITTED and RSVP_UPDATED
type RSVPData struct {
	EventID  string         `json:"eventId"`
	GuestID  string         `json:"guestId"`
	RSVPData map[string]any `json:"rsvpData"`
}

// WishSubmission is the SUBMIT_NEW_WISH payload
type WishSubmission struct {
	EventID       string `json:"event_id"`
	GuestID       string `json:"guest_id"`
	GuestName     string `json:"guest_name"`
	Content       string `json:"content"`
	ImageData     string `json:"image_data,omitempty"`
	ImageFilename string `json:"image_filename,omitempty"`
	ImageType     string `json:"image_type,omitempty"`
}

// WishLike is the TOGGLE_WISH_LIKE payload
type WishLike struct {
	WishID    string `json:"wishId"`
	GuestID   string `json:"guestId"`
	GuestName string `json:"guestName,omitempty"`
}

func (c *Channel) SendInvitationViewed(eventID, guestID string) error {
	return c.send(models.MsgInvitationViewed, GuestRef{EventID: eventID, GuestID: guestID},
		field{"eventId", eventID}, field{"guestId", guestID})
}

func (c *Channel) SendRSVPAccepted(eventID, guestID string) error {
	return c.send(models.MsgRSVPAccepted, GuestRef{EventID: eventID, GuestID: guestID},
		field{"eventId", eventID}, field{"guestId", guestID})
}

func (c *Channel) SendRSVPSubmitted(eventID, guestID string, data map[string]any) error {
	return c.send(models.MsgRSVPSubmitted, RSVPData{EventID: eventID, GuestID: guestID, RSVPData: nonNil(data)},
		field{"eventId", eventID}, field{"guestId", guestID})
}

func (c *Channel) SendRSVPUpdated(eventID, guestID string, data map[string]any) error {
	return c.send(models.MsgRSVPUpdated, RSVPData{EventID: eventID, GuestID: guestID, RSVPData: nonNil(data)},
		field{"eventId", eventID}, field{"guestId", guestID})
}

// RequestInitialWishes asks the platform for the wishes wall. Admin previews
// have no guest, so only the event id is required.
func (c *Channel) RequestInitialWishes(eventID, guestID string) error {
	return c.send(models.MsgRequestInitialWishes, GuestRef{EventID: eventID, GuestID: guestID},
		field{"eventId", eventID})
}

func (c *Channel) SubmitNewWish(w WishSubmission) error {
	return c.send(models.MsgSubmitNewWish, w,
		field{"event_id", w.EventID}, field{"guest_id", w.GuestID})
}

func (c *Channel) ToggleWishLike(l WishLike) error {
	return c.send(models.MsgToggleWishLike, l,
		field{"wishId", l.WishID}, field{"guestId", l.GuestID})
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
