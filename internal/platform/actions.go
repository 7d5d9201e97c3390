package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"wedding-invitation/internal/messaging"
	"wedding-invitation/internal/models"
	"wedding-invitation/internal/rsvpfields"
)

// ErrDeclineUnsupported is returned when a guest tries to decline in platform
// mode. The platform flow is accept-and-detail only.
var ErrDeclineUnsupported = errors.New("decline is not supported in platform mode")

const notifyTimeout = 30 * time.Second

type identity struct {
	eventID, guestID, guestName string
	platform                    bool
	framed                      bool
	fields                      []models.CustomField
}

// standalone is true for the demo page: opened directly and never identified
// by the platform. Only then are actions kept locally.
func (id identity) standalone() bool {
	return !id.platform && !id.framed
}

func (a *Aggregator) identity() identity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return identity{
		eventID:   a.pd.EventID,
		guestID:   a.pd.GuestID,
		guestName: a.pd.GuestName,
		platform:  a.platformModeLocked(),
		framed:    a.channel.Framed(),
		fields:    a.pd.CustomFields,
	}
}

// SendTemplateReady announces the template to the platform at most once
func (a *Aggregator) SendTemplateReady(version string) error {
	return a.channel.SendTemplateReady(version)
}

// MarkViewed tells the platform the invitation was opened. A guest who already
// responded keeps their status.
func (a *Aggregator) MarkViewed() error {
	id := a.identity()
	if id.standalone() {
		a.local(id, models.GuestViewed, nil, true)
		return nil
	}
	if !id.platform {
		// Embedded, but the platform has not said who is looking yet.
		a.mu.Lock()
		a.viewDeferred = true
		a.mu.Unlock()
		a.log.Debug().Msg("Holding INVITATION_VIEWED until the platform sends invitation data")
		return nil
	}
	if err := a.channel.SendInvitationViewed(id.eventID, id.guestID); err != nil {
		return err
	}
	a.optimistic(models.GuestViewed, nil, true)
	return nil
}

// AcceptRSVP accepts the invitation
func (a *Aggregator) AcceptRSVP() error {
	id := a.identity()
	if id.standalone() {
		a.local(id, models.GuestAccepted, nil, false)
		return nil
	}
	if err := a.channel.SendRSVPAccepted(id.eventID, id.guestID); err != nil {
		return err
	}
	a.optimistic(models.GuestAccepted, nil, false)
	a.notify(id, models.GuestAccepted, nil)
	return nil
}

// SubmitRSVP sends the detailed RSVP form. Answers are validated against the
// custom fields first; a rsvpfields.ValidationErrors is returned on failure.
func (a *Aggregator) SubmitRSVP(data map[string]any) error {
	return a.sendForm(data, false)
}

// UpdateRSVP sends an edited RSVP form
func (a *Aggregator) UpdateRSVP(data map[string]any) error {
	return a.sendForm(data, true)
}

func (a *Aggregator) sendForm(data map[string]any, edit bool) error {
	id := a.identity()
	if err := rsvpfields.Validate(id.fields, data); err != nil {
		return err
	}
	data = copyMap(data)
	if id.standalone() {
		a.local(id, models.GuestSubmitted, data, false)
		return nil
	}

	var err error
	if edit {
		err = a.channel.SendRSVPUpdated(id.eventID, id.guestID, data)
	} else {
		err = a.channel.SendRSVPSubmitted(id.eventID, id.guestID, data)
	}
	if err != nil {
		return err
	}
	a.optimistic(models.GuestSubmitted, data, false)
	a.notify(id, models.GuestSubmitted, data)
	return nil
}

// DeclineRSVP is only available in demo mode
func (a *Aggregator) DeclineRSVP() error {
	id := a.identity()
	if !id.standalone() {
		a.log.Info().Msg("Decline requested in platform mode")
		return ErrDeclineUnsupported
	}
	a.local(id, models.GuestDeclined, nil, false)
	return nil
}

// SubmitWish posts a new wish. Outside a frame nothing is sent and the error
// is recorded as the view's LastError.
func (a *Aggregator) SubmitWish(w models.NewWish) error {
	id := a.identity()
	err := a.channel.SubmitNewWish(messaging.WishSubmission{
		EventID:       id.eventID,
		GuestID:       id.guestID,
		GuestName:     id.guestName,
		Content:       w.Content,
		ImageData:     w.ImageData,
		ImageFilename: w.ImageFilename,
		ImageType:     w.ImageType,
	})
	if err != nil {
		a.update(func() bool {
			a.lastError = fmt.Sprintf("wish submission failed: %v", err)
			return true
		})
		return err
	}
	return nil
}

// ToggleWishLike likes or unlikes a wish. The new count comes back as
// WISH_LIKE_UPDATED.
func (a *Aggregator) ToggleWishLike(wishID string) error {
	id := a.identity()
	return a.channel.ToggleWishLike(messaging.WishLike{WishID: wishID, GuestID: id.guestID, GuestName: id.guestName})
}

// RequestWishes asks the platform for the wishes wall
func (a *Aggregator) RequestWishes() error {
	id := a.identity()
	return a.channel.RequestInitialWishes(id.eventID, id.guestID)
}

// optimistic sets the pending status until the platform confirms or corrects it
func (a *Aggregator) optimistic(status models.GuestStatus, data map[string]any, onlyIfPending bool) {
	a.update(func() bool {
		if onlyIfPending && effective(a.pd.GuestStatus, a.pending) != models.GuestPending {
			return false
		}
		if data != nil {
			pd := a.pd.Clone()
			pd.ExistingRSVPData = data
			a.pd = pd
		}
		a.pending = status
		return true
	})
}

// local applies a demo-mode action directly to the confirmed status
func (a *Aggregator) local(id identity, status models.GuestStatus, data map[string]any, onlyIfPending bool) {
	changed := false
	a.update(func() bool {
		if onlyIfPending && effective(a.pd.GuestStatus, a.pending) != models.GuestPending {
			return false
		}
		pd := a.pd.Clone()
		pd.GuestStatus = status
		if data != nil {
			pd.ExistingRSVPData = data
		}
		a.pd = pd
		a.pending = ""
		changed = true
		return true
	})
	if !changed {
		return
	}
	a.log.Info().Str("status", string(status)).Msg("Demo mode, RSVP kept locally")
	if a.store == nil {
		return
	}
	guestID := id.guestID
	if guestID == "" {
		guestID = "demo-" + uuid.NewString()
		a.update(func() bool {
			pd := a.pd.Clone()
			pd.GuestID = guestID
			a.pd = pd
			return true
		})
	}
	if err := a.store.Record(guestID, id.guestName, status, data); err != nil {
		a.log.Error().Err(err).Msg("Failed to record demo RSVP")
	}
}

func (a *Aggregator) notify(id identity, status models.GuestStatus, data map[string]any) {
	if a.notifier == nil {
		return
	}
	n := RSVPNotice{EventID: id.eventID, GuestID: id.guestID, GuestName: id.guestName, Status: status, Data: data}
	n.BrideName, n.GroomName = a.coupleNames()
	a.notices.Add(1)
	go func() {
		defer a.notices.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := a.notifier.NotifyRSVP(ctx, n); err != nil {
			a.log.Error().Err(err).Str("guest_id", n.GuestID).Msg("Failed to notify couple")
		}
	}()
}

func (a *Aggregator) coupleNames() (bride, groom string) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.wedding == nil {
		return "", ""
	}
	c := a.wedding.Couple
	return joinName(c.BrideFirstName, c.BrideLastName), joinName(c.GroomFirstName, c.GroomLastName)
}

func joinName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
