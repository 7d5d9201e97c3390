package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"wedding-invitation/internal/platform"
)

// ErrNotOnWhatsApp is returned when the recipient has no WhatsApp account
var ErrNotOnWhatsApp = errors.New("number is not registered on WhatsApp")

// Config configures the couple-side notifier
type Config struct {
	DataDir string
	// NotifyPhone receives a message for every accepted or submitted RSVP.
	NotifyPhone string
	// QROut receives the pairing QR code. Defaults to stdout.
	QROut io.Writer
}

// Service sends the couple a WhatsApp message whenever a guest responds.
// It implements platform.Notifier.
type Service struct {
	client *whatsmeow.Client
	cfg    Config
	log    zerolog.Logger
}

var _ platform.Notifier = (*Service)(nil)

// NewService opens the sqlite device store under cfg.DataDir
func NewService(cfg Config, log zerolog.Logger) (*Service, error) {
	if cfg.QROut == nil {
		cfg.QROut = os.Stdout
	}
	device, err := openDevice(context.Background(), cfg.DataDir)
	if err != nil {
		return nil, err
	}

	s := &Service{
		client: whatsmeow.NewClient(device, nil),
		cfg:    cfg,
		log:    log.With().Str("component", "WhatsApp").Logger(),
	}
	s.client.AddEventHandler(s.handleEvent)
	return s, nil
}

func openDevice(ctx context.Context, dir string) (*store.Device, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create whatsapp data directory: %w", err)
	}
	dsn := "file:" + filepath.Join(dir, "whatsmeow.db") + "?_foreign_keys=on"
	// nil logger: sqlstore logs nothing
	container, err := sqlstore.New(ctx, "sqlite3", dsn, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open device store: %w", err)
	}
	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load device: %w", err)
	}
	return device, nil
}

// NormalizePhoneNumber reduces a number to its digits in international form.
// Local Israeli numbers (0XXXXXXXXX) and 9720-prefixed ones become 972XXXXXXXXX.
func NormalizePhoneNumber(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	switch {
	case len(digits) == 10 && digits[0] == '0':
		return "972" + digits[1:]
	case strings.HasPrefix(digits, "9720"):
		return "972" + digits[4:]
	}
	return digits
}

// JID builds the user JID for a phone number
func JID(phone string) types.JID {
	return types.NewJID(NormalizePhoneNumber(phone), types.DefaultUserServer)
}

// Connect logs in, pairing through a QR code when no session is stored
func (s *Service) Connect(ctx context.Context) error {
	if s.client.Store.ID != nil {
		if err := s.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return nil
	}

	codes, err := s.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to start pairing: %w", err)
	}
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	for evt := range codes {
		if evt.Event == whatsmeow.QRChannelEventCode {
			renderQR(s.cfg.QROut, evt.Code)
			continue
		}
		s.log.Info().Str("event", evt.Event).Msg("Pairing event")
		if evt.Event != whatsmeow.QRChannelSuccess.Event {
			return fmt.Errorf("pairing ended: %s", evt.Event)
		}
	}
	return nil
}

func renderQR(w io.Writer, code string) {
	q, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		fmt.Fprintf(w, "Pairing code: %s\n", code)
	} else {
		fmt.Fprintln(w, "\n"+q.ToSmallString(false))
	}
	fmt.Fprintln(w, "Link this server in WhatsApp > Settings > Linked Devices > Link a Device")
}

// Disconnect closes the WhatsApp connection
func (s *Service) Disconnect() {
	s.client.Disconnect()
}

// NotifyRSVP tells the couple about a guest's response
func (s *Service) NotifyRSVP(ctx context.Context, n platform.RSVPNotice) error {
	if s.cfg.NotifyPhone == "" {
		return nil
	}
	return s.Send(ctx, s.cfg.NotifyPhone, FormatRSVPNotice(n))
}

// Send delivers a text message after checking the number is on WhatsApp
func (s *Service) Send(ctx context.Context, phone, text string) error {
	to, err := s.resolve(ctx, phone)
	if err != nil {
		return err
	}
	resp, err := s.client.SendMessage(ctx, to, &waE2E.Message{Conversation: &text})
	if err != nil {
		return fmt.Errorf("failed to send to %s: %w", to, err)
	}
	s.log.Info().Str("id", resp.ID).Str("to", to.User).Msg("RSVP notice sent")
	return nil
}

func (s *Service) resolve(ctx context.Context, phone string) (types.JID, error) {
	number := NormalizePhoneNumber(phone)
	found, err := s.client.IsOnWhatsApp(ctx, []string{"+" + number})
	if err != nil {
		return types.JID{}, fmt.Errorf("failed to look up %s: %w", number, err)
	}
	if len(found) == 0 || !found[0].IsIn {
		return types.JID{}, fmt.Errorf("%w: %s", ErrNotOnWhatsApp, number)
	}
	return found[0].JID, nil
}

func (s *Service) handleEvent(evt any) {
	switch e := evt.(type) {
	case *events.Connected:
		s.log.Info().Msg("Connected to WhatsApp")
	case *events.Disconnected:
		s.log.Warn().Msg("Disconnected from WhatsApp")
	case *events.PairSuccess:
		s.log.Info().Str("jid", e.ID.String()).Msg("Paired with WhatsApp")
	case *events.LoggedOut:
		s.log.Warn().Str("reason", e.Reason.String()).Msg("Logged out from WhatsApp")
	}
}
