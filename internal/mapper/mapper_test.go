package mapper

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"wedding-invitation/internal/models"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		full, first, last string
	}{
		{"Raj Kumar Sharma", "Raj", "Kumar Sharma"},
		{"Raj", "Raj", ""},
		{"  Raj   Kumar  ", "Raj", "Kumar"},
		{"", "", ""},
		{"\tSimran\nKaur", "Simran", "Kaur"},
	}
	for _, tt := range tests {
		first, last := SplitName(tt.full)
		if first != tt.first || last != tt.last {
			t.Errorf("SplitName(%q) = (%q, %q), want (%q, %q)", tt.full, first, last, tt.first, tt.last)
		}
	}
}

func TestParseWeddingDate(t *testing.T) {
	d, ok := ParseWeddingDate("2025-08-24")
	if !ok || !d.Equal(time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseWeddingDate(2025-08-24) = %v, %v", d, ok)
	}
	if _, ok := ParseWeddingDate("2025-08-24T18:30:00+05:30"); !ok {
		t.Error("RFC3339 dates should parse")
	}
	for _, bad := range []string{"", "soon", "24/08/2025", "2025-13-45"} {
		if d, ok := ParseWeddingDate(bad); ok || !d.IsZero() {
			t.Errorf("ParseWeddingDate(%q) = %v, %v, want zero and false", bad, d, ok)
		}
	}
}

func sample() models.StructuredEventData {
	groomFirst := false
	return models.StructuredEventData{
		EventID: "evt-1",
		WeddingData: models.EventWeddingData{
			Couple: models.CoupleInfo{
				GroomName:   "Raj Kumar Sharma",
				BrideName:   "Simran",
				WeddingDate: "2025-08-24",
				WeddingTime: "18:00",
				GroomFirst:  &groomFirst,
			},
			Venue: models.VenueInfo{Name: "Lake Palace", MapLink: "https://maps.example.com/x"},
			Family: models.FamilyInfo{
				GroomFamily: models.FamilySide{
					ParentsName: "Mr. & Mrs. Sharma",
					Members: []models.FamilyMemberInfo{
						{Name: "Vikram", Relation: "Brother"},
						{Name: "Priya", Relation: "Sister", Photo: "p.jpg"},
					},
				},
				BrideFamily: models.FamilySide{
					FamilyPhoto: "bride.jpg",
					Members:     []models.FamilyMemberInfo{{Name: "Kiran"}},
				},
			},
			Contacts: []models.ContactInfo{{Name: "Uncle", Phone: "123"}},
			Gallery:  []models.GalleryPhoto{{Photo: "a.jpg", Title: "A"}, {Photo: "b.jpg"}},
			Events:   []models.EventInfo{{Name: "Haldi", Date: "2025-08-23"}},
		},
	}
}

func TestMapToWeddingData(t *testing.T) {
	got := MapToWeddingData(sample())

	if got.Couple.GroomFirstName != "Raj" || got.Couple.GroomLastName != "Kumar Sharma" {
		t.Errorf("groom name = %q %q", got.Couple.GroomFirstName, got.Couple.GroomLastName)
	}
	if got.Couple.BrideFirstName != "Simran" || got.Couple.BrideLastName != "" {
		t.Errorf("bride name = %q %q", got.Couple.BrideFirstName, got.Couple.BrideLastName)
	}
	if got.GroomFirst {
		t.Error("GroomFirst should follow the payload")
	}
	if !got.MainWedding.DateValid || got.MainWedding.Date.Format("2006-01-02") != "2025-08-24" {
		t.Errorf("main wedding date = %v (valid %v)", got.MainWedding.Date, got.MainWedding.DateValid)
	}

	groom := got.Family.GroomFamily
	if groom.Title != "Groom's Family" || groom.ParentsNameCombined != "Mr. & Mrs. Sharma" {
		t.Errorf("groom family = %+v", groom)
	}
	if len(groom.Members) != 2 || groom.Members[0].ID != "groom-0" || groom.Members[1].ID != "groom-1" || groom.Members[1].PhotoURL != "p.jpg" {
		t.Errorf("groom members = %+v", groom.Members)
	}
	bride := got.Family.BrideFamily
	if bride.FamilyPhotoURL != "bride.jpg" || len(bride.Members) != 1 || bride.Members[0].ID != "bride-0" {
		t.Errorf("bride family = %+v", bride)
	}

	if len(got.PhotoGallery) != 2 || got.PhotoGallery[1].ID != "photo-1" || got.PhotoGallery[0].URL != "a.jpg" {
		t.Errorf("gallery = %+v", got.PhotoGallery)
	}
	if len(got.Events) != 1 || got.Events[0].ID != "event-0" {
		t.Errorf("events = %+v", got.Events)
	}
	if len(got.Contacts) != 1 || got.Contacts[0].ID != "contact-0" {
		t.Errorf("contacts = %+v", got.Contacts)
	}
}

func TestMapToWeddingDataInvalidDate(t *testing.T) {
	src := sample()
	src.WeddingData.Couple.WeddingDate = "sometime in August"
	got := MapToWeddingData(src)
	if got.MainWedding.DateValid || !got.MainWedding.Date.IsZero() {
		t.Errorf("invalid date should map to zero time, got %v", got.MainWedding.Date)
	}
}

func TestMapToWeddingDataEmptyInput(t *testing.T) {
	got := MapToWeddingData(models.StructuredEventData{})
	if !got.GroomFirst {
		t.Error("GroomFirst defaults to true")
	}
	if got.Events == nil || got.PhotoGallery == nil || got.Contacts == nil || got.Family.GroomFamily.Members == nil {
		t.Error("lists should be empty, not nil")
	}
}

func TestMapToWeddingDataIsDeterministic(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("mapping twice gives deep-equal output", prop.ForAll(
		func(groom, bride, date string, members []string) bool {
			src := sample()
			src.WeddingData.Couple.GroomName = groom
			src.WeddingData.Couple.BrideName = bride
			src.WeddingData.Couple.WeddingDate = date
			src.WeddingData.Family.BrideFamily.Members = nil
			for _, m := range members {
				src.WeddingData.Family.BrideFamily.Members = append(src.WeddingData.Family.BrideFamily.Members, models.FamilyMemberInfo{Name: m})
			}
			return reflect.DeepEqual(MapToWeddingData(src), MapToWeddingData(src))
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.OneConstOf("2025-08-24", "bad", "", "2025-08-24T10:00"),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

func TestValidate(t *testing.T) {
	good := sample()
	if !Validate(&good) {
		t.Error("sample should validate")
	}
	if Validate(nil) {
		t.Error("nil should not validate")
	}
	noEvent := sample()
	noEvent.EventID = ""
	if Validate(&noEvent) {
		t.Error("missing event id should not validate")
	}
	noBride := sample()
	noBride.WeddingData.Couple.BrideName = " "
	if Validate(&noBride) {
		t.Error("blank bride name should not validate")
	}
}

func TestValidateJSONAndDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"valid", `{"eventId":"e1","weddingData":{"couple":{"groomName":"Raj","brideName":"Simran"}}}`, true},
		{"numeric event id", `{"eventId":12,"weddingData":{"couple":{"groomName":"Raj","brideName":"Simran"}}}`, false},
		{"missing couple", `{"eventId":"e1","weddingData":{}}`, false},
		{"not json", `{"eventId":`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateJSON([]byte(tt.raw)); got != tt.ok {
				t.Errorf("ValidateJSON() = %v, want %v", got, tt.ok)
			}
			data, err := Decode([]byte(tt.raw))
			if tt.ok && (err != nil || data.EventID != "e1") {
				t.Errorf("Decode() = %+v, %v", data, err)
			}
			if !tt.ok && err == nil {
				t.Error("Decode() should fail")
			}
		})
	}
}

func TestDemoWeddingDataIsFresh(t *testing.T) {
	a := DemoWeddingData()
	b := DemoWeddingData()
	a.Events[0].Name = "changed"
	if b.Events[0].Name == "changed" {
		t.Error("demo data must not be shared between callers")
	}
	if !b.MainWedding.DateValid {
		t.Error("demo date should be valid")
	}
}
