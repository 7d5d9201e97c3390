// Package platform merges URL data, platform messages and local actions into
// the single state the invitation templates render.
package platform

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wedding-invitation/internal/mapper"
	"wedding-invitation/internal/messaging"
	"wedding-invitation/internal/models"
)

// RSVPNotice describes an RSVP the couple may want to hear about
type RSVPNotice struct {
	EventID   string
	GuestID   string
	GuestName string
	Status    models.GuestStatus
	Data      map[string]any
	// Couple names come from the platform's wedding data and are empty
	// while only placeholder content is shown.
	BrideName string
	GroomName string
}

// Notifier is told about RSVPs sent to the platform
type Notifier interface {
	NotifyRSVP(ctx context.Context, n RSVPNotice) error
}

// DemoStore records RSVPs made while running standalone
type DemoStore interface {
	Record(guestID, name string, status models.GuestStatus, data map[string]any) error
}

// Overrides are values supplied by the host page at mount time. Later platform
// messages still win over them.
type Overrides struct {
	RSVPConfig     *models.RSVPConfig
	GuestStatus    *models.GuestStatus
	ShowEditButton *bool
	WeddingData    *models.WeddingData
}

// Option configures an Aggregator
type Option func(*Aggregator)

func WithOverrides(o Overrides) Option {
	return func(a *Aggregator) { a.overrides = o }
}

func WithDemoStore(s DemoStore) Option {
	return func(a *Aggregator) { a.store = s }
}

func WithNotifier(n Notifier) Option {
	return func(a *Aggregator) { a.notifier = n }
}

// WithChangeHandler registers a callback run after every state change
func WithChangeHandler(fn func(View)) Option {
	return func(a *Aggregator) { a.onChange = fn }
}

func WithLogger(log zerolog.Logger) Option {
	return func(a *Aggregator) { a.log = log.With().Str("component", "Platform").Logger() }
}

// Aggregator owns the session's platform state. All mutations replace the
// stored objects instead of editing them.
type Aggregator struct {
	channel   *messaging.Channel
	store     DemoStore
	notifier  Notifier
	overrides Overrides
	onChange  func(View)
	log       zerolog.Logger

	mu         sync.RWMutex
	urlEventID string
	pd         models.PlatformData
	wedding    *models.WeddingData
	received   int
	pending    models.GuestStatus
	wishes     []models.Wish
	lastError  string
	hasData    bool
	timedOut   bool
	revision   uint64
	timer      *time.Timer
	closed     bool
	stopListen func()
	notices    sync.WaitGroup

	// viewDeferred is set when INVITATION_VIEWED was requested in a frame
	// before the platform identified the event and guest.
	viewDeferred bool
}

// New builds the aggregator from URL data and starts listening on ch
func New(fromURL models.PlatformData, ch *messaging.Channel, opts ...Option) (*Aggregator, error) {
	a := &Aggregator{
		channel:    ch,
		log:        zerolog.Nop(),
		urlEventID: fromURL.EventID,
		pd:         fromURL.Clone(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.pd.RSVPConfig.Type == "" {
		a.pd.RSVPConfig.Type = models.RSVPSimple
	}
	if fromURL.StructuredData != nil {
		wd := mapper.MapToWeddingData(*fromURL.StructuredData)
		a.wedding = &wd
		a.hasData = true
	}
	a.applyOverrides()

	stop, err := ch.Listen(a.handle)
	if err != nil {
		return nil, err
	}
	a.stopListen = stop
	return a, nil
}

func (a *Aggregator) applyOverrides() {
	o := a.overrides
	if o.RSVPConfig != nil {
		a.pd.RSVPConfig = *o.RSVPConfig
	}
	if o.GuestStatus != nil {
		a.pd.GuestStatus = *o.GuestStatus
	}
	if o.ShowEditButton != nil {
		a.pd.ShowEditButton = *o.ShowEditButton
	}
	if o.WeddingData != nil {
		wd := *o.WeddingData
		a.wedding = &wd
	}
}

// State returns the current view. Derived flags are computed on every call.
func (a *Aggregator) State() View {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.viewLocked()
}

func (a *Aggregator) viewLocked() View {
	v := View{
		Revision:       a.revision,
		PlatformData:   a.pd,
		IsPlatformMode: a.platformModeLocked(),
		RSVPConfig:     a.pd.RSVPConfig.Type,
		GuestStatus:    a.pd.GuestStatus,
		PendingStatus:  a.pending,
		CustomFields:   a.pd.CustomFields,
		Wishes:         a.wishes,
		LastError:      a.lastError,
		DataTimedOut:   a.timedOut,
	}
	if v.CustomFields == nil {
		v.CustomFields = []models.CustomField{}
	}
	if v.Wishes == nil {
		v.Wishes = []models.Wish{}
	}
	if a.wedding != nil {
		v.WeddingData = *a.wedding
	} else {
		v.WeddingData = mapper.DemoWeddingData()
	}
	v.EffectiveStatus = effective(a.pd.GuestStatus, a.pending)
	v.ShowAcceptButton = ShowAcceptButton(v.EffectiveStatus)
	v.ShowRSVPAction = ShowRSVPAction(v.RSVPConfig, v.EffectiveStatus, a.pd.ShowEditButton)
	return v
}

func (a *Aggregator) platformModeLocked() bool {
	return a.urlEventID != "" || a.received > 0
}

// IsPlatformMode reports whether the invitation runs embedded in the platform
func (a *Aggregator) IsPlatformMode() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.platformModeLocked()
}

// update runs fn under the write lock and publishes the new view when fn
// reports a change.
func (a *Aggregator) update(fn func() bool) {
	a.mu.Lock()
	if a.closed || !fn() {
		a.mu.Unlock()
		return
	}
	a.revision++
	v := a.viewLocked()
	cb := a.onChange
	a.mu.Unlock()
	if cb != nil {
		cb(v)
	}
}

// StartResponseTimer waits up to d for the platform to send invitation data.
// If nothing arrives the view falls back to demo content and DataTimedOut is set.
func (a *Aggregator) StartResponseTimer(d time.Duration) {
	if d <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || a.hasData || a.timer != nil {
		return
	}
	a.timer = time.AfterFunc(d, func() {
		a.update(func() bool {
			if a.hasData || a.timedOut {
				return false
			}
			a.log.Warn().Dur("timeout", d).Msg("No invitation data from platform, showing placeholder content")
			a.timedOut = true
			return true
		})
	})
}

// markDataLocked records that real invitation data arrived
func (a *Aggregator) markDataLocked() {
	a.hasData = true
	a.timedOut = false
	if a.timer != nil {
		a.timer.Stop()
	}
}

// Close stops listening and cancels timers. Pending notifier calls are waited for.
func (a *Aggregator) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
	}
	stop := a.stopListen
	a.mu.Unlock()

	if stop != nil {
		stop()
	}
	a.notices.Wait()
}
