// Package mapper converts the platform's structured event data into the
// WeddingData view model.
package mapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/text/unicode/norm"

	"wedding-invitation/internal/models"
)

// ErrInvalidStructuredData is returned when a payload lacks the event id or the
// couple's names
var ErrInvalidStructuredData = errors.New("invalid structured event data")

const (
	groomSide = "groom"
	brideSide = "bride"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// Validate checks the minimum shape the rest of the pipeline relies on. Nested
// data beyond the couple's names is not inspected.
func Validate(data *models.StructuredEventData) bool {
	return data != nil &&
		data.EventID != "" &&
		strings.TrimSpace(data.WeddingData.Couple.GroomName) != "" &&
		strings.TrimSpace(data.WeddingData.Couple.BrideName) != ""
}

// ValidateJSON applies Validate's rules to an undecoded document, requiring the
// fields to be JSON strings rather than anything that happens to decode.
func ValidateJSON(raw []byte) bool {
	if !gjson.ValidBytes(raw) {
		return false
	}
	doc := gjson.ParseBytes(raw)
	for _, path := range []string{"eventId", "weddingData.couple.groomName", "weddingData.couple.brideName"} {
		if doc.Get(path).Type != gjson.String {
			return false
		}
	}
	return true
}

// Decode parses and validates a structured event document
func Decode(raw []byte) (*models.StructuredEventData, error) {
	if !ValidateJSON(raw) {
		return nil, ErrInvalidStructuredData
	}
	var data models.StructuredEventData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode structured data: %w", err)
	}
	if !Validate(&data) {
		return nil, ErrInvalidStructuredData
	}
	return &data, nil
}

// SplitName splits a full name into the first whitespace-delimited token and the
// rest joined by single spaces.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(norm.NFC.String(full))
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// ParseWeddingDate returns the parsed date in UTC and whether parsing succeeded.
// A failure yields the zero time.
func ParseWeddingDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// MapToWeddingData is pure and deterministic: the same input always gives a
// deep-equal result, synthetic ids included.
func MapToWeddingData(src models.StructuredEventData) models.WeddingData {
	wd := src.WeddingData
	c := wd.Couple

	groomFirst, groomLast := SplitName(c.GroomName)
	brideFirst, brideLast := SplitName(c.BrideName)
	date, valid := ParseWeddingDate(c.WeddingDate)

	out := models.WeddingData{
		Couple: models.Couple{
			GroomFirstName: groomFirst,
			GroomLastName:  groomLast,
			BrideFirstName: brideFirst,
			BrideLastName:  brideLast,
			GroomCity:      c.GroomCity,
			BrideCity:      c.BrideCity,
			CoupleImageURL: c.CoupleImage,
		},
		Family: models.Family{
			GroomFamily: familyGroup(groomSide, "Groom's Family", wd.Family.GroomFamily),
			BrideFamily: familyGroup(brideSide, "Bride's Family", wd.Family.BrideFamily),
		},
		MainWedding: models.MainWedding{
			Date:      date,
			DateValid: valid,
			Time:      c.WeddingTime,
			Venue: models.Venue{
				Name:    wd.Venue.Name,
				Address: wd.Venue.Address,
				MapLink: wd.Venue.MapLink,
			},
		},
		Events:       make([]models.Event, 0, len(wd.Events)),
		PhotoGallery: make([]models.Photo, 0, len(wd.Gallery)),
		Contacts:     make([]models.Contact, 0, len(wd.Contacts)),
		GroomFirst:   c.GroomFirst == nil || *c.GroomFirst,
	}

	for i, e := range wd.Events {
		out.Events = append(out.Events, models.Event{
			ID:          fmt.Sprintf("event-%d", i),
			Name:        e.Name,
			Date:        e.Date,
			Time:        e.Time,
			Venue:       e.Venue,
			Description: e.Description,
			MapLink:     e.MapLink,
		})
	}
	for i, p := range wd.Gallery {
		out.PhotoGallery = append(out.PhotoGallery, models.Photo{
			ID:    fmt.Sprintf("photo-%d", i),
			URL:   p.Photo,
			Title: p.Title,
		})
	}
	for i, ct := range wd.Contacts {
		out.Contacts = append(out.Contacts, models.Contact{
			ID:       fmt.Sprintf("contact-%d", i),
			Name:     ct.Name,
			Phone:    ct.Phone,
			Relation: ct.Relation,
		})
	}
	return out
}

func familyGroup(side, title string, f models.FamilySide) models.FamilyGroup {
	g := models.FamilyGroup{
		Title:               title,
		Members:             make([]models.FamilyMember, 0, len(f.Members)),
		FamilyPhotoURL:      f.FamilyPhoto,
		ParentsNameCombined: f.ParentsName,
	}
	for i, m := range f.Members {
		g.Members = append(g.Members, models.FamilyMember{
			ID:          fmt.Sprintf("%s-%d", side, i),
			Name:        m.Name,
			Relation:    m.Relation,
			Description: m.Description,
			PhotoURL:    m.Photo,
		})
	}
	return g
}
