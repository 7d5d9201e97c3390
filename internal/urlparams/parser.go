// Package urlparams reads the invitation's query string into PlatformData.
package urlparams

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"wedding-invitation/internal/mapper"
	"wedding-invitation/internal/models"
	"wedding-invitation/internal/rsvpfields"
)

var (
	ErrMalformedQuery      = errors.New("malformed query string")
	ErrMalformedData       = errors.New("malformed data parameter")
	ErrMalformedRSVPConfig = errors.New("malformed rsvpConfig parameter")
	ErrMalformedList       = errors.New("malformed list parameter")
)

// Result is the outcome of parsing a query string. Err records the first thing
// that had to be skipped; PlatformData is usable either way.
type Result struct {
	PlatformData models.PlatformData
	Err          error
}

// Parser parses query strings, logging what it has to discard
type Parser struct {
	log zerolog.Logger
}

// NewParser creates a parser that logs through log
func NewParser(log zerolog.Logger) *Parser {
	return &Parser{log: log.With().Str("component", "URLParams").Logger()}
}

// Parse is a convenience for parsing without logging
func Parse(search string) Result {
	return NewParser(zerolog.Nop()).Parse(search)
}

// Parse never panics. A valid "data" parameter wins outright; otherwise the
// individual parameters are read.
func (p *Parser) Parse(search string) Result {
	var res Result
	fail := func(err error) {
		p.log.Warn().Err(err).Msg("Ignoring part of the query string")
		if res.Err == nil {
			res.Err = err
		}
	}

	values, err := url.ParseQuery(strings.TrimPrefix(search, "?"))
	if err != nil {
		fail(fmt.Errorf("%w: %v", ErrMalformedQuery, err))
	}

	rsvpConfig, err := parseRSVPConfig(values.Get("rsvpConfig"))
	if err != nil {
		fail(err)
	}

	if raw := values.Get("data"); raw != "" {
		structured, err := decodeStructured(raw)
		if err == nil {
			res.PlatformData = fromStructured(structured, rsvpConfig, values.Get("templateId"))
			return res
		}
		fail(err)
	}

	pd := models.PlatformData{
		EventID:    values.Get("eventId"),
		GuestID:    values.Get("guestId"),
		GuestName:  values.Get("guestName"),
		RSVPConfig: rsvpConfig,
		TemplateID: values.Get("templateId"),
	}
	pd.CustomFields = rsvpfields.NormalizeFields(rsvpConfig.CustomFields)
	pd.GuestStatus = statusFromFlags(pd.GuestID, values.Get("hasResponded"), values.Get("accepted"))

	if values.Get("groomName") != "" && values.Get("brideName") != "" {
		structured := synthesize(values, fail)
		pd.StructuredData = &structured
	}

	res.PlatformData = pd
	return res
}

func decodeStructured(raw string) (*models.StructuredEventData, error) {
	data, err := mapper.Decode([]byte(raw))
	if err == nil {
		return data, nil
	}
	// Some hosts encode the parameter twice.
	if unescaped, uerr := url.QueryUnescape(raw); uerr == nil && unescaped != raw {
		if data, err2 := mapper.Decode([]byte(unescaped)); err2 == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
}

func fromStructured(s *models.StructuredEventData, fallback models.RSVPConfig, templateID string) models.PlatformData {
	cfg := fallback
	if s.RSVPConfig != nil {
		cfg = *s.RSVPConfig
	}
	if s.TemplateID != "" {
		templateID = s.TemplateID
	}
	pd := models.PlatformData{
		EventID:        s.EventID,
		GuestID:        s.GuestID,
		GuestName:      s.GuestName,
		RSVPConfig:     cfg,
		CustomFields:   rsvpfields.NormalizeFields(cfg.CustomFields),
		StructuredData: s,
		TemplateID:     templateID,
	}
	if s.Status != "" || s.GuestID != "" {
		pd.GuestStatus = models.ParseGuestStatus(s.Status)
	}
	return pd
}

// parseRSVPConfig accepts a bare token or a JSON object. Anything it cannot
// read resolves to simple.
func parseRSVPConfig(raw string) (models.RSVPConfig, error) {
	simple := models.RSVPConfig{Type: models.RSVPSimple}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return simple, nil
	}
	if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "\"") {
		if !json.Valid([]byte(raw)) {
			return simple, ErrMalformedRSVPConfig
		}
		var cfg models.RSVPConfig
		_ = json.Unmarshal([]byte(raw), &cfg)
		return cfg, nil
	}
	return models.RSVPConfig{Type: models.ParseRSVPMode(raw)}, nil
}

func statusFromFlags(guestID, hasResponded, accepted string) models.GuestStatus {
	switch {
	case isTrue(hasResponded) && isTrue(accepted):
		return models.GuestAccepted
	case isTrue(hasResponded):
		return models.GuestViewed
	case guestID != "":
		return models.GuestPending
	default:
		return ""
	}
}

func isTrue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func synthesize(values url.Values, fail func(error)) models.StructuredEventData {
	groomFirst := true
	switch strings.ToLower(values.Get("groomFirst")) {
	case "false", "0":
		groomFirst = false
	}

	mapLink := values.Get("venueMapLink")
	if mapLink == "" {
		mapLink = values.Get("mapLink")
	}

	return models.StructuredEventData{
		EventID:    values.Get("eventId"),
		GuestID:    values.Get("guestId"),
		GuestName:  values.Get("guestName"),
		TemplateID: values.Get("templateId"),
		WeddingData: models.EventWeddingData{
			Couple: models.CoupleInfo{
				GroomName:   values.Get("groomName"),
				BrideName:   values.Get("brideName"),
				GroomCity:   values.Get("groomCity"),
				BrideCity:   values.Get("brideCity"),
				WeddingDate: values.Get("weddingDate"),
				WeddingTime: values.Get("weddingTime"),
				GroomFirst:  &groomFirst,
			},
			Venue: models.VenueInfo{
				Name:    values.Get("venueName"),
				Address: values.Get("venueAddress"),
				MapLink: mapLink,
			},
			Family: models.FamilyInfo{
				BrideFamily: models.FamilySide{
					FamilyPhoto: values.Get("brideFamilyPhoto"),
					ParentsName: values.Get("brideParentsNames"),
					Members:     decodeList[models.FamilyMemberInfo](values, "brideFamily", fail),
				},
				GroomFamily: models.FamilySide{
					FamilyPhoto: values.Get("groomFamilyPhoto"),
					ParentsName: values.Get("groomParentsNames"),
					Members:     decodeList[models.FamilyMemberInfo](values, "groomFamily", fail),
				},
			},
			Contacts: decodeList[models.ContactInfo](values, "contacts", fail),
			Gallery:  decodePhotos(values, fail),
			Events:   decodeList[models.EventInfo](values, "events", fail),
		},
	}
}
