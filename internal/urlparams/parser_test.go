package urlparams

import (
	"errors"
	"net/url"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"wedding-invitation/internal/mapper"
	"wedding-invitation/internal/models"
)

func TestParseStructuredData(t *testing.T) {
	data := `{"eventId":"evt-9","guestId":"g-1","guestName":"Asha","status":"accepted",` +
		`"rsvpConfig":{"type":"detailed","custom_fields":[{"field_name":"diet","field_type":"dropdown"}]},` +
		`"weddingData":{"couple":{"groomName":"Raj Kumar","brideName":"Simran"}}}`
	q := url.Values{"data": {data}, "eventId": {"ignored"}}.Encode()

	res := Parse("?" + q)
	if res.Err != nil {
		t.Fatalf("Parse() error = %v", res.Err)
	}
	pd := res.PlatformData
	if pd.EventID != "evt-9" || pd.GuestID != "g-1" || pd.GuestName != "Asha" {
		t.Errorf("identifiers = %+v", pd)
	}
	if pd.GuestStatus != models.GuestAccepted {
		t.Errorf("status = %q", pd.GuestStatus)
	}
	if pd.RSVPConfig.Type != models.RSVPDetailed {
		t.Errorf("rsvp config = %q", pd.RSVPConfig.Type)
	}
	if len(pd.CustomFields) != 1 || pd.CustomFields[0].FieldType != models.FieldSelect {
		t.Errorf("custom fields = %+v", pd.CustomFields)
	}
	if pd.StructuredData == nil || pd.StructuredData.WeddingData.Couple.GroomName != "Raj Kumar" {
		t.Errorf("structured data = %+v", pd.StructuredData)
	}
}

func TestParseDoubleEncodedData(t *testing.T) {
	data := `{"eventId":"evt-2","weddingData":{"couple":{"groomName":"A","brideName":"B"}}}`
	q := "data=" + url.QueryEscape(url.QueryEscape(data))
	res := Parse(q)
	if res.Err != nil || res.PlatformData.EventID != "evt-2" {
		t.Errorf("Parse() = %+v, %v", res.PlatformData, res.Err)
	}
}

func TestParseInvalidDataFallsBack(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "hello"},
		{"fails validation", `{"eventId":"e","weddingData":{"couple":{"groomName":"Raj"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{
				"data":      {tt.data},
				"eventId":   {"evt-3"},
				"groomName": {"Raj"},
				"brideName": {"Simran"},
			}.Encode()
			res := Parse(q)
			if !errors.Is(res.Err, ErrMalformedData) {
				t.Errorf("Err = %v, want ErrMalformedData", res.Err)
			}
			pd := res.PlatformData
			if pd.EventID != "evt-3" || pd.StructuredData == nil {
				t.Fatalf("expected fallback to individual params, got %+v", pd)
			}
			if pd.StructuredData.WeddingData.Couple.BrideName != "Simran" {
				t.Errorf("bride = %q", pd.StructuredData.WeddingData.Couple.BrideName)
			}
		})
	}
}

func TestParseIndividualParams(t *testing.T) {
	q := url.Values{
		"eventId":           {"evt-4"},
		"guestId":           {"g-7"},
		"guestName":         {"Meera"},
		"hasResponded":      {"true"},
		"accepted":          {"true"},
		"groomName":         {"Raj"},
		"brideName":         {"Simran"},
		"weddingDate":       {"2025-08-24"},
		"groomFirst":        {"false"},
		"venueName":         {"Lake Palace"},
		"mapLink":           {"https://maps.example.com/lp"},
		"brideParentsNames": {"Mr. & Mrs. Kaur"},
		"groomFamily":       {`[{"name":"Vikram","relation":"Brother"}]`},
		"brideFamily":       {`not-json`},
		"contacts":          {`[{"name":"Uncle","phone":"123"}]`},
		"photos":            {`["a.jpg",{"url":"b.jpg","title":"B"},{"nothing":1},42]`},
		"events":            {`[{"name":"Haldi","date":"2025-08-23"}]`},
		"templateId":        {"royal"},
	}.Encode()

	res := Parse(q)
	if !errors.Is(res.Err, ErrMalformedList) {
		t.Errorf("Err = %v, want ErrMalformedList for brideFamily", res.Err)
	}
	pd := res.PlatformData
	if pd.GuestStatus != models.GuestAccepted || pd.TemplateID != "royal" || pd.RSVPConfig.Type != models.RSVPSimple {
		t.Errorf("platform data = %+v", pd)
	}
	s := pd.StructuredData
	if s == nil {
		t.Fatal("expected synthesized structured data")
	}
	if s.WeddingData.Couple.GroomFirst == nil || *s.WeddingData.Couple.GroomFirst {
		t.Error("groomFirst=false should be honoured")
	}
	if s.WeddingData.Venue.MapLink != "https://maps.example.com/lp" {
		t.Errorf("map link = %q", s.WeddingData.Venue.MapLink)
	}
	if len(s.WeddingData.Family.GroomFamily.Members) != 1 || s.WeddingData.Family.BrideFamily.Members != nil {
		t.Errorf("family = %+v", s.WeddingData.Family)
	}
	if s.WeddingData.Family.BrideFamily.ParentsName != "Mr. & Mrs. Kaur" {
		t.Errorf("bride parents = %q", s.WeddingData.Family.BrideFamily.ParentsName)
	}
	if len(s.WeddingData.Gallery) != 2 || s.WeddingData.Gallery[1].Title != "B" {
		t.Errorf("gallery = %+v", s.WeddingData.Gallery)
	}
	if len(s.WeddingData.Contacts) != 1 || len(s.WeddingData.Events) != 1 {
		t.Errorf("contacts/events = %+v / %+v", s.WeddingData.Contacts, s.WeddingData.Events)
	}
}

func TestParseScenarioA(t *testing.T) {
	res := Parse("?groomName=Raj&brideName=Simran&weddingDate=2025-08-24")
	if res.Err != nil {
		t.Fatalf("Err = %v", res.Err)
	}
	if res.PlatformData.StructuredData == nil {
		t.Fatal("expected structured data")
	}
	wd := mapper.MapToWeddingData(*res.PlatformData.StructuredData)
	if wd.Couple.GroomFirstName != "Raj" || wd.Couple.BrideFirstName != "Simran" {
		t.Errorf("couple = %+v", wd.Couple)
	}
	if !wd.MainWedding.DateValid || wd.MainWedding.Date.Format("2006-01-02") != "2025-08-24" {
		t.Errorf("date = %v", wd.MainWedding.Date)
	}
	if res.PlatformData.EventID != "" {
		t.Error("no eventId was given")
	}
}

func TestParseOnlyOneName(t *testing.T) {
	res := Parse("groomName=Raj")
	if res.PlatformData.StructuredData != nil {
		t.Error("both names are needed to synthesize structured data")
	}
}

func TestParseRSVPConfig(t *testing.T) {
	tests := []struct {
		raw     string
		want    models.RSVPMode
		wantErr bool
	}{
		{"", models.RSVPSimple, false},
		{"simple", models.RSVPSimple, false},
		{"SIMPLE", models.RSVPSimple, false},
		{"detailed", models.RSVPDetailed, false},
		{"anything", models.RSVPDetailed, false},
		{`{"type":"simple"}`, models.RSVPSimple, false},
		{`{"type":"detailed","allow_edit_after_submit":true}`, models.RSVPDetailed, false},
		{`{"type":"whatever"}`, models.RSVPDetailed, false},
		{`"detailed"`, models.RSVPDetailed, false},
		{`{"type":`, models.RSVPSimple, true},
		{`[1,2]`, models.RSVPDetailed, false},
	}
	for _, tt := range tests {
		cfg, err := parseRSVPConfig(tt.raw)
		if cfg.Type != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("parseRSVPConfig(%q) = %q, %v; want %q, err %v", tt.raw, cfg.Type, err, tt.want, tt.wantErr)
		}
	}
}

func TestStatusFromFlags(t *testing.T) {
	if got := statusFromFlags("", "", ""); got != "" {
		t.Errorf("no guest = %q", got)
	}
	if got := statusFromFlags("g", "", ""); got != models.GuestPending {
		t.Errorf("guest = %q", got)
	}
	if got := statusFromFlags("g", "true", "false"); got != models.GuestViewed {
		t.Errorf("responded = %q", got)
	}
}

func TestParseNeverPanics(t *testing.T) {
	for _, q := range []string{"", "?", "%", "data=%7B", "data=null", "rsvpConfig=%7Bbroken", "a=1&&&b", "photos=%5B", "data=%22str%22"} {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Parse(%q) panicked: %v", q, r)
				}
			}()
			Parse(q)
		}()
	}

	properties := gopter.NewProperties(nil)
	properties.Property("arbitrary query strings parse without panicking", prop.ForAll(
		func(q string) (ok bool) {
			defer func() {
				if recover() != nil {
					ok = false
				}
			}()
			Parse(q)
			return true
		},
		gen.AnyString(),
	))
	properties.Property("arbitrary data values parse without panicking", prop.ForAll(
		func(data, cfg string) (ok bool) {
			defer func() {
				if recover() != nil {
					ok = false
				}
			}()
			Parse(url.Values{"data": {data}, "rsvpConfig": {cfg}, "groomName": {"a"}, "brideName": {"b"}, "events": {data}}.Encode())
			return true
		},
		gen.AnyString(),
		gen.AnyString(),
	))
	properties.TestingRun(t)
}
