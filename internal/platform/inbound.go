package platform

import (
	"encoding/json"
	"slices"

	"github.com/tidwall/gjson"

	"wedding-invitation/internal/mapper"
	"wedding-invitation/internal/models"
	"wedding-invitation/internal/rsvpfields"
)

// Deliver passes a raw window message through the channel's origin and shape
// checks into the aggregator.
func (a *Aggregator) Deliver(from string, raw []byte) bool {
	return a.channel.Deliver(from, raw)
}

func (a *Aggregator) handle(msg models.InboundMessage) {
	a.update(func() bool {
		handled := a.applyLocked(msg)
		if handled {
			a.received++
		}
		return handled
	})
	a.flushDeferredView()
}

// flushDeferredView sends the INVITATION_VIEWED that was held back at mount
// once the platform has supplied both ids.
func (a *Aggregator) flushDeferredView() {
	a.mu.Lock()
	ready := a.viewDeferred && !a.closed && a.pd.EventID != "" && a.pd.GuestID != ""
	if ready {
		a.viewDeferred = false
	}
	a.mu.Unlock()
	if !ready {
		return
	}
	if err := a.MarkViewed(); err != nil {
		a.log.Warn().Err(err).Msg("Deferred INVITATION_VIEWED not sent")
	}
}

// applyLocked applies msg and reports whether it was recognised and used
func (a *Aggregator) applyLocked(msg models.InboundMessage) bool {
	p := msg.Payload
	switch msg.Type {
	case models.MsgInvitationLoaded:
		return a.applyInvitationLocked(p, true)
	case models.MsgInvitationPayloadUpdate:
		return a.applyInvitationLocked(p, false)
	case models.MsgLoadInvitationData:
		return a.applyLoadInvitationLocked(p)
	case models.MsgWeddingDataTransfer, models.MsgWeddingDataReady:
		return a.applyWeddingDataLocked(p, msg.Type)
	case models.MsgGuestStatusUpdate:
		return a.applyGuestStatusLocked(p)
	case models.MsgInitialWishesData, models.MsgInitialAdminWishesData:
		return a.applyWishListLocked(p)
	case models.MsgWishSubmittedSuccess:
		return a.applyWishSubmittedLocked(p)
	case models.MsgWishSubmittedError, models.MsgError:
		a.lastError = firstString(p, "error", "message", "data.error", "data.message")
		if a.lastError == "" {
			a.lastError = string(msg.Type)
		}
		a.log.Warn().Str("type", string(msg.Type)).Str("error", a.lastError).Msg("Platform reported an error")
		return true
	case models.MsgWishApproved:
		return a.editWishLocked(p, func(w *models.Wish) { w.IsApproved = true })
	case models.MsgWishDeleted:
		return a.deleteWishLocked(p)
	case models.MsgWishLikeUpdated:
		count, ok := firstNumber(p, "likes_count", "likesCount", "likes", "wish.likes_count")
		if !ok {
			return false
		}
		return a.editWishLocked(p, func(w *models.Wish) { w.LikesCount = count })
	default:
		a.log.Debug().Str("type", string(msg.Type)).Msg("Ignoring unknown message type")
		return false
	}
}

type invitationPayload struct {
	EventID          *string            `json:"eventId"`
	GuestID          *string            `json:"guestId"`
	ShowSubmitButton *bool              `json:"showSubmitButton"`
	ShowEditButton   *bool              `json:"showEditButton"`
	CanSubmitRSVP    *bool              `json:"canSubmitRsvp"`
	CanEditRSVP      *bool              `json:"canEditRsvp"`
	EventDetails     json.RawMessage    `json:"eventDetails"`
	RSVPFields       []json.RawMessage  `json:"rsvpFields"`
	RSVPConfig       *models.RSVPConfig `json:"rsvpConfig"`
	ExistingRSVPData map[string]any     `json:"existingRsvpData"`
	PlatformData     *struct {
		GuestName *string `json:"guestName"`
	} `json:"platformData"`
}

// applyInvitationLocked handles INVITATION_LOADED (full) and
// INVITATION_PAYLOAD_UPDATE (only the fields present are applied).
func (a *Aggregator) applyInvitationLocked(raw json.RawMessage, full bool) bool {
	var p invitationPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		a.log.Warn().Err(err).Msg("Malformed invitation payload")
		return false
	}

	pd := a.pd.Clone()
	if p.EventID != nil {
		pd.EventID = *p.EventID
	}
	if p.GuestID != nil {
		pd.GuestID = *p.GuestID
	}
	if p.PlatformData != nil && p.PlatformData.GuestName != nil {
		pd.GuestName = *p.PlatformData.GuestName
	}
	setBool(&pd.ShowSubmitButton, p.ShowSubmitButton, full)
	setBool(&pd.ShowEditButton, p.ShowEditButton, full)
	setBool(&pd.CanSubmitRSVP, p.CanSubmitRSVP, full)
	setBool(&pd.CanEditRSVP, p.CanEditRSVP, full)
	if p.RSVPConfig != nil {
		pd.RSVPConfig = *p.RSVPConfig
		if p.RSVPFields == nil && p.RSVPConfig.CustomFields != nil {
			pd.CustomFields = rsvpfields.NormalizeFields(p.RSVPConfig.CustomFields)
		}
	}
	if p.RSVPFields != nil {
		pd.CustomFields = rsvpfields.NormalizeFields(p.RSVPFields)
	}
	if p.ExistingRSVPData != nil || full {
		pd.ExistingRSVPData = p.ExistingRSVPData
	}

	if status := gjson.GetBytes(raw, "status"); status.Exists() {
		pd.GuestStatus = models.ParseGuestStatus(status.String())
		a.pending = ""
	} else if full {
		pd.GuestStatus = models.GuestPending
		a.pending = ""
	}

	if len(p.EventDetails) > 0 {
		if s, ok := eventDetails(p.EventDetails, pd.EventID); ok {
			wd := mapper.MapToWeddingData(*s)
			pd.StructuredData = s
			a.wedding = &wd
		} else {
			a.log.Warn().Msg("Ignoring invalid event details")
		}
	}

	a.pd = pd
	a.markDataLocked()
	return true
}

func setBool(dst *bool, v *bool, full bool) {
	switch {
	case v != nil:
		*dst = *v
	case full:
		*dst = false
	}
}

// eventDetails accepts a full StructuredEventData, or just its weddingData block
// with "photos" as an alias for the gallery.
func eventDetails(raw json.RawMessage, eventID string) (*models.StructuredEventData, bool) {
	if gjson.GetBytes(raw, "weddingData").Exists() {
		s, err := mapper.Decode(raw)
		return s, err == nil
	}
	var wd struct {
		models.EventWeddingData
		Photos []models.GalleryPhoto `json:"photos"`
	}
	if err := json.Unmarshal(raw, &wd); err != nil {
		return nil, false
	}
	if len(wd.Gallery) == 0 {
		wd.Gallery = wd.Photos
	}
	s := &models.StructuredEventData{EventID: eventID, WeddingData: wd.EventWeddingData}
	if s.EventID == "" {
		s.EventID = gjson.GetBytes(raw, "eventId").String()
	}
	return s, mapper.Validate(s)
}

func (a *Aggregator) applyLoadInvitationLocked(raw json.RawMessage) bool {
	cfg := gjson.GetBytes(raw, "event.rsvp_config")
	typ := cfg.Get("type")
	if !typ.Exists() {
		return false
	}
	pd := a.pd.Clone()
	pd.RSVPConfig.Type = models.ParseRSVPMode(typ.String())
	if edit := cfg.Get("allow_edit_after_submit"); edit.Exists() {
		pd.RSVPConfig.AllowEditAfterSubmit = edit.Bool()
	}
	if fields := cfg.Get("custom_fields"); fields.IsArray() {
		var raws []json.RawMessage
		for _, f := range fields.Array() {
			raws = append(raws, json.RawMessage(f.Raw))
		}
		pd.RSVPConfig.CustomFields = raws
		pd.CustomFields = rsvpfields.NormalizeFields(raws)
	}
	a.pd = pd
	return true
}

func (a *Aggregator) applyWeddingDataLocked(raw json.RawMessage, typ models.MessageType) bool {
	s, err := mapper.Decode(raw)
	if err != nil {
		for _, path := range []string{"structuredData", "weddingData.structuredData"} {
			if nested := gjson.GetBytes(raw, path); nested.IsObject() {
				if s, err = mapper.Decode([]byte(nested.Raw)); err == nil {
					break
				}
			}
		}
	}
	if err != nil {
		a.log.Warn().Err(err).Str("type", string(typ)).Msg("Ignoring invalid wedding data")
		return false
	}

	pd := a.pd.Clone()
	pd.StructuredData = s
	if pd.EventID == "" {
		pd.EventID = s.EventID
	}
	if pd.GuestID == "" {
		pd.GuestID = s.GuestID
	}
	if pd.GuestName == "" {
		pd.GuestName = s.GuestName
	}
	if s.RSVPConfig != nil {
		pd.RSVPConfig = *s.RSVPConfig
		pd.CustomFields = rsvpfields.NormalizeFields(s.RSVPConfig.CustomFields)
	}
	wd := mapper.MapToWeddingData(*s)
	a.pd = pd
	a.wedding = &wd
	a.markDataLocked()
	return true
}

// applyGuestStatusLocked only accepts updates addressed to this session's guest
func (a *Aggregator) applyGuestStatusLocked(raw json.RawMessage) bool {
	guestID := gjson.GetBytes(raw, "guestId").String()
	if guestID == "" || guestID != a.pd.GuestID {
		a.log.Debug().Str("guest_id", guestID).Msg("Ignoring status update for another guest")
		return false
	}
	status := gjson.GetBytes(raw, "status")
	if !status.Exists() {
		return false
	}
	pd := a.pd.Clone()
	pd.GuestStatus = models.ParseGuestStatus(status.String())
	a.pd = pd
	a.pending = ""
	return true
}

func (a *Aggregator) applyWishListLocked(raw json.RawMessage) bool {
	list := gjson.GetBytes(raw, "wishes")
	if !list.IsArray() {
		a.log.Warn().Msg("Wishes payload without a wishes list")
		return false
	}
	var wishes []models.Wish
	if err := json.Unmarshal([]byte(list.Raw), &wishes); err != nil {
		a.log.Warn().Err(err).Msg("Malformed wishes list")
		return false
	}
	a.wishes = wishes
	return true
}

func (a *Aggregator) applyWishSubmittedLocked(raw json.RawMessage) bool {
	doc := raw
	if w := gjson.GetBytes(raw, "wish"); w.IsObject() {
		doc = json.RawMessage(w.Raw)
	}
	a.lastError = ""
	var wish models.Wish
	if err := json.Unmarshal(doc, &wish); err != nil || wish.ID == "" {
		return true
	}
	wishes := slices.Clone(a.wishes)
	if i := slices.IndexFunc(wishes, func(w models.Wish) bool { return w.ID == wish.ID }); i >= 0 {
		wishes[i] = wish
	} else {
		wishes = append([]models.Wish{wish}, wishes...)
	}
	a.wishes = wishes
	return true
}

func wishID(raw json.RawMessage) string {
	return firstString(raw, "wishId", "wish_id", "id", "wish.id")
}

func (a *Aggregator) editWishLocked(raw json.RawMessage, edit func(*models.Wish)) bool {
	id := wishID(raw)
	i := slices.IndexFunc(a.wishes, func(w models.Wish) bool { return w.ID == id })
	if id == "" || i < 0 {
		return false
	}
	wishes := slices.Clone(a.wishes)
	edit(&wishes[i])
	a.wishes = wishes
	return true
}

func (a *Aggregator) deleteWishLocked(raw json.RawMessage) bool {
	id := wishID(raw)
	if id == "" || !slices.ContainsFunc(a.wishes, func(w models.Wish) bool { return w.ID == id }) {
		return false
	}
	a.wishes = slices.DeleteFunc(slices.Clone(a.wishes), func(w models.Wish) bool { return w.ID == id })
	return true
}

func firstString(raw json.RawMessage, paths ...string) string {
	for _, path := range paths {
		if v := gjson.GetBytes(raw, path); v.Exists() && v.Type != gjson.Null && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func firstNumber(raw json.RawMessage, paths ...string) (int, bool) {
	for _, path := range paths {
		if v := gjson.GetBytes(raw, path); v.Type == gjson.Number {
			return int(v.Int()), true
		}
	}
	return 0, false
}
