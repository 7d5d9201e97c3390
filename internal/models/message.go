package models

import "encoding/json"

// MessageType discriminates postMessage payloads
type MessageType string

// Inbound, platform to template.
const (
	MsgInvitationLoaded        MessageType = "INVITATION_LOADED"
	MsgInvitationPayloadUpdate MessageType = "INVITATION_PAYLOAD_UPDATE"
	MsgLoadInvitationData      MessageType = "LOAD_INVITATION_DATA"
	MsgWeddingDataTransfer     MessageType = "WEDDING_DATA_TRANSFER"
	MsgWeddingDataReady        MessageType = "WEDDING_DATA_READY"
	MsgGuestStatusUpdate       MessageType = "GUEST_STATUS_UPDATE"
	MsgInitialWishesData       MessageType = "INITIAL_WISHES_DATA"
	MsgInitialAdminWishesData  MessageType = "INITIAL_ADMIN_WISHES_DATA"
	MsgWishSubmittedSuccess    MessageType = "WISH_SUBMITTED_SUCCESS"
	MsgWishSubmittedError      MessageType = "WISH_SUBMITTED_ERROR"
	MsgWishApproved            MessageType = "WISH_APPROVED"
	MsgWishDeleted             MessageType = "WISH_DELETED"
	MsgWishLikeUpdated         MessageType = "WISH_LIKE_UPDATED"
	MsgError                   MessageType = "ERROR"
)

// Outbound, template to platform.
const (
	MsgTemplateReady        MessageType = "TEMPLATE_READY"
	MsgInvitationViewed     MessageType = "INVITATION_VIEWED"
	MsgRSVPAccepted         MessageType = "RSVP_ACCEPTED"
	MsgRSVPSubmitted        MessageType = "RSVP_SUBMITTED"
	MsgRSVPUpdated          MessageType = "RSVP_UPDATED"
	MsgRequestInitialWishes MessageType = "REQUEST_INITIAL_WISHES_DATA"
	MsgSubmitNewWish        MessageType = "SUBMIT_NEW_WISH"
	MsgToggleWishLike       MessageType = "TOGGLE_WISH_LIKE"
)

// InboundMessage is a message accepted from the parent window. Payload is the
// "data" member when present, otherwise the whole message.
type InboundMessage struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"data,omitempty"`
	Origin    string          `json:"-"`
}

// OutboundMessage is the envelope posted to the parent window
type OutboundMessage struct {
	Type      MessageType `json:"type"`
	Data      any         `json:"data"`
	Timestamp int64       `json:"timestamp"`
}
