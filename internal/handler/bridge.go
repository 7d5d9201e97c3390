package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wedding-invitation/internal/imagecache"
	"wedding-invitation/internal/messaging"
	"wedding-invitation/internal/models"
	"wedding-invitation/internal/platform"
	"wedding-invitation/internal/rsvpfields"
)

// Frame types exchanged with the browser shim
const (
	FrameInit    = "init"
	FrameMessage = "message"
	FrameAction  = "action"
	FramePost    = "post"
	FrameState   = "state"
	FrameResult  = "result"
)

// Actions the invitation page can trigger
const (
	ActionViewed        = "viewed"
	ActionAccept        = "accept"
	ActionSubmit        = "submit"
	ActionUpdate        = "update"
	ActionDecline       = "decline"
	ActionWish          = "wish"
	ActionLike          = "like"
	ActionRequestWishes = "request_wishes"
)

var errFirstFrame = errors.New("first frame must be init")

// clientFrame is anything the shim sends
type clientFrame struct {
	Type string `json:"type"`
	// init
	Search string `json:"search,omitempty"`
	Origin string `json:"origin,omitempty"`
	Framed bool   `json:"framed,omitempty"`
	// message
	Data json.RawMessage `json:"data,omitempty"`
	// action
	Action  string          `json:"action,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type postFrame struct {
	Type         string                 `json:"type"`
	Message      models.OutboundMessage `json:"message"`
	TargetOrigin string                 `json:"targetOrigin"`
}

type stateFrame struct {
	Type  string        `json:"type"`
	State platform.View `json:"state"`
}

type resultFrame struct {
	Type        string            `json:"type"`
	Action      string            `json:"action"`
	OK          bool              `json:"ok"`
	Error       string            `json:"error,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	ImageURL    string            `json:"imageUrl,omitempty"`
}

// standalone is a page that was opened directly rather than embedded
type standalone struct{}

func (standalone) Framed() bool { return false }

func (standalone) Post(models.OutboundMessage, string) error { return messaging.ErrNotFramed }

// socket relays channel posts to the shim, which forwards them with
// window.parent.postMessage.
type socket struct {
	conn   *websocket.Conn
	framed bool

	mu     sync.Mutex
	closed bool
}

func (s *socket) Framed() bool { return s.framed }

func (s *socket) Post(msg models.OutboundMessage, targetOrigin string) error {
	return s.write(postFrame{Type: FramePost, Message: msg, TargetOrigin: targetOrigin})
}

func (s *socket) write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return websocket.ErrCloseSent
	}
	return s.conn.WriteJSON(v)
}

func (s *socket) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	_ = s.conn.Close()
}

// bridge runs one invitation session for the lifetime of the socket
func (s *Server) bridge(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn.SetReadLimit(s.cfg.MaxFrameBytes)

	sessionID := uuid.NewString()
	log := s.log.With().Str("session", sessionID).Logger()

	var hello clientFrame
	if err := conn.ReadJSON(&hello); err != nil || hello.Type != FrameInit {
		log.Warn().Err(err).Str("type", hello.Type).Msg("Closing session without init frame")
		_ = conn.WriteJSON(resultFrame{Type: FrameResult, Action: FrameInit, Error: errFirstFrame.Error()})
		_ = conn.Close()
		return
	}

	sock := &socket{conn: conn, framed: hello.Framed}
	defer sock.close()

	agg, err := s.open(sock, hello, log)
	if err != nil {
		log.Error().Err(err).Msg("Could not start session")
		_ = sock.write(resultFrame{Type: FrameResult, Action: FrameInit, Error: err.Error()})
		return
	}
	defer agg.Close()

	log.Info().Bool("framed", hello.Framed).Str("origin", hello.Origin).Msg("Session started")

	for {
		var f clientFrame
		if err := conn.ReadJSON(&f); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("Session read ended")
			}
			break
		}
		switch f.Type {
		case FrameMessage:
			agg.Deliver(f.Origin, f.Data)
		case FrameAction:
			_ = sock.write(s.dispatch(agg, f.Action, f.Payload))
		default:
			log.Debug().Str("type", f.Type).Msg("Ignoring frame")
		}
	}

	log.Info().Msg("Session closed")
}

// open creates the channel and aggregator for a new socket and performs the
// mount sequence: state, TEMPLATE_READY, the response timer, INVITATION_VIEWED.
func (s *Server) open(sock *socket, hello clientFrame, log zerolog.Logger) (*platform.Aggregator, error) {
	current := s.cfg.CurrentOrigin
	if current == "" {
		current = hello.Origin
	}
	res := s.parser.Parse(hello.Search)
	if res.Err != nil {
		log.Warn().Err(res.Err).Msg("URL parameters partially parsed")
	}

	ch := messaging.NewChannel(sock, s.origins, current, log)
	opts := []platform.Option{
		platform.WithLogger(log),
		platform.WithChangeHandler(func(v platform.View) {
			if err := sock.write(stateFrame{Type: FrameState, State: v}); err != nil {
				log.Debug().Err(err).Msg("Dropping state frame")
			}
		}),
	}
	if s.store != nil {
		opts = append(opts, platform.WithDemoStore(s.store))
	}
	if s.notifier != nil {
		opts = append(opts, platform.WithNotifier(s.notifier))
	}
	agg, err := platform.New(res.PlatformData, ch, opts...)
	if err != nil {
		return nil, err
	}

	if err := sock.write(stateFrame{Type: FrameState, State: agg.State()}); err != nil {
		agg.Close()
		return nil, fmt.Errorf("failed to send initial state: %w", err)
	}
	if sock.framed {
		if err := agg.SendTemplateReady(s.cfg.TemplateVersion); err != nil {
			log.Warn().Err(err).Msg("TEMPLATE_READY not sent")
		}
		agg.StartResponseTimer(s.cfg.ResponseTimeout)
	}
	if err := agg.MarkViewed(); err != nil && !errors.Is(err, messaging.ErrNotFramed) {
		log.Warn().Err(err).Msg("INVITATION_VIEWED not sent")
	}
	return agg, nil
}

func (s *Server) dispatch(agg *platform.Aggregator, action string, payload json.RawMessage) resultFrame {
	out := resultFrame{Type: FrameResult, Action: action}
	var err error
	switch action {
	case ActionViewed:
		err = agg.MarkViewed()
	case ActionAccept:
		err = agg.AcceptRSVP()
	case ActionSubmit, ActionUpdate:
		var data map[string]any
		if err = decodePayload(payload, &data); err != nil {
			break
		}
		if action == ActionSubmit {
			err = agg.SubmitRSVP(data)
		} else {
			err = agg.UpdateRSVP(data)
		}
	case ActionDecline:
		err = agg.DeclineRSVP()
	case ActionWish:
		var wish models.NewWish
		if err = decodePayload(payload, &wish); err != nil {
			break
		}
		if err = agg.SubmitWish(wish); err == nil && wish.ImageData != "" {
			out.ImageURL = s.cacheImage(wish)
		}
	case ActionLike:
		var like struct {
			WishID string `json:"wishId"`
		}
		if err = decodePayload(payload, &like); err != nil {
			break
		}
		err = agg.ToggleWishLike(like.WishID)
	case ActionRequestWishes:
		err = agg.RequestWishes()
	default:
		err = fmt.Errorf("unknown action %q", action)
	}

	if err != nil {
		out.Error = err.Error()
		var fieldErrs rsvpfields.ValidationErrors
		if errors.As(err, &fieldErrs) {
			out.FieldErrors = fieldErrs
		}
		return out
	}
	out.OK = true
	return out
}

func decodePayload(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid action payload: %w", err)
	}
	return nil
}

// cacheImage keeps the image of a wish the platform accepted for delivery so
// the preview can show it before approval. It returns "" when the data is not
// base64.
func (s *Server) cacheImage(w models.NewWish) string {
	data := w.ImageData
	contentType := w.ImageType
	// data:image/png;base64,....
	if rest, ok := strings.CutPrefix(data, "data:"); ok {
		if meta, payload, found := strings.Cut(rest, ","); found {
			data = payload
			if contentType == "" {
				contentType = strings.TrimSuffix(meta, ";base64")
			}
		}
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		s.log.Warn().Err(err).Str("filename", w.ImageFilename).Msg("Wish image is not valid base64")
		return ""
	}
	if contentType == "" {
		contentType = http.DetectContentType(raw)
	}
	key := uuid.NewString()
	s.images.Put(key, imagecache.Image{ContentType: contentType, Data: raw})
	return "/images/" + key
}
