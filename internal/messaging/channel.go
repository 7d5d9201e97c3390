// Package messaging is the postMessage protocol between the invitation and the
// platform window that embeds it.
package messaging

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"wedding-invitation/internal/models"
	"wedding-invitation/internal/origin"
)

var (
	ErrNotFramed          = errors.New("not running inside a frame")
	ErrMissingCorrelation = errors.New("missing correlation data")
	ErrListenerActive     = errors.New("message listener already registered")
)

// Parent is the window that embeds the invitation
type Parent interface {
	// Framed reports whether there is a parent window distinct from our own.
	Framed() bool
	Post(msg models.OutboundMessage, targetOrigin string) error
}

// Handler receives messages that passed the origin and shape checks
type Handler func(models.InboundMessage)

// Option configures a Channel
type Option func(*Channel)

// WithClock overrides the clock used for outbound timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Channel) { c.now = now }
}

// Channel validates inbound messages and sends outbound ones. Each Channel has
// its own listener slot and its own template-ready flag.
type Channel struct {
	parent        Parent
	origins       *origin.Validator
	currentOrigin string
	now           func() time.Time
	log           zerolog.Logger

	mu        sync.Mutex
	handler   Handler
	listener  uint64
	readySent bool
}

// NewChannel creates a channel for one mounted invitation
func NewChannel(parent Parent, origins *origin.Validator, currentOrigin string, log zerolog.Logger, opts ...Option) *Channel {
	c := &Channel{
		parent:        parent,
		origins:       origins,
		currentOrigin: currentOrigin,
		now:           time.Now,
		log:           log.With().Str("component", "PostMessage").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Listen registers the channel's single listener. The returned stop function
// releases it and may be called more than once.
func (c *Channel) Listen(h Handler) (stop func(), err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handler != nil {
		return nil, ErrListenerActive
	}
	c.listener++
	id := c.listener
	c.handler = h
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.listener == id {
			c.handler = nil
		}
	}, nil
}

// Deliver hands a raw window message to the listener if it comes from a
// trusted origin and has a type and a timestamp. It reports whether the
// message was accepted.
func (c *Channel) Deliver(from string, raw []byte) bool {
	if !c.origins.Trusted(from, c.currentOrigin) {
		c.log.Warn().Str("origin", from).Msg("Dropping message from untrusted origin")
		return false
	}

	msg, ok := decodeInbound(raw)
	if !ok {
		c.log.Warn().Str("origin", from).Msg("Dropping malformed message")
		return false
	}
	msg.Origin = from

	c.mu.Lock()
	h := c.handler
	c.mu.Unlock()
	if h == nil {
		c.log.Debug().Str("type", string(msg.Type)).Msg("No listener registered, dropping message")
		return false
	}
	h(msg)
	return true
}

func decodeInbound(raw []byte) (models.InboundMessage, bool) {
	if !gjson.ValidBytes(raw) {
		return models.InboundMessage{}, false
	}
	doc := gjson.ParseBytes(raw)
	typ := doc.Get("type")
	ts := doc.Get("timestamp")
	if typ.Type != gjson.String || typ.String() == "" || ts.Type != gjson.Number {
		return models.InboundMessage{}, false
	}

	msg := models.InboundMessage{
		Type:      models.MessageType(typ.String()),
		Timestamp: ts.Int(),
	}
	if data := doc.Get("data"); data.Exists() && data.Type != gjson.Null {
		msg.Payload = json.RawMessage(data.Raw)
	} else {
		msg.Payload = json.RawMessage(doc.Raw)
	}
	return msg, true
}

// ReadySent reports whether TEMPLATE_READY has gone out on this channel
func (c *Channel) ReadySent() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readySent
}

// SendTemplateReady announces the template once per channel. Later calls are
// no-ops. A failed send leaves the channel free to try again.
func (c *Channel) SendTemplateReady(version string) error {
	c.mu.Lock()
	if c.readySent {
		c.mu.Unlock()
		c.log.Debug().Msg("Template ready already sent")
		return nil
	}
	if !c.Framed() {
		c.mu.Unlock()
		c.log.Info().Msg("Not embedded, skipping template ready")
		return ErrNotFramed
	}
	c.readySent = true
	c.mu.Unlock()

	if err := c.post(models.MsgTemplateReady, TemplateReady{TemplateVersion: version}); err != nil {
		c.mu.Lock()
		c.readySent = false
		c.mu.Unlock()
		return err
	}
	return nil
}

// Framed reports whether the invitation is embedded in a parent window
func (c *Channel) Framed() bool {
	return c.parent != nil && c.parent.Framed()
}

// send checks correlation fields and framing, then posts the message
func (c *Channel) send(typ models.MessageType, data any, required ...field) error {
	for _, f := range required {
		if f.value == "" {
			c.log.Error().Str("type", string(typ)).Str("field", f.name).Msg("Refusing to send message without correlation data")
			return missing(f.name)
		}
	}
	if !c.Framed() {
		c.log.Info().Str("type", string(typ)).Msg("Not embedded, message not sent")
		return ErrNotFramed
	}
	return c.post(typ, data)
}

func (c *Channel) post(typ models.MessageType, data any) error {
	msg := models.OutboundMessage{
		Type:      typ,
		Data:      data,
		Timestamp: c.now().UnixMilli(),
	}
	if err := c.parent.Post(msg, c.origins.Target()); err != nil {
		c.log.Error().Err(err).Str("type", string(typ)).Msg("Failed to post message")
		return err
	}
	c.log.Debug().Str("type", string(typ)).Msg("Posted message")
	return nil
}
