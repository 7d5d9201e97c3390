package models

import "time"

// WeddingData is the internal view model the templates render
type WeddingData struct {
	Couple       Couple      `json:"couple"`
	Family       Family      `json:"family"`
	MainWedding  MainWedding `json:"mainWedding"`
	Events       []Event     `json:"events"`
	PhotoGallery []Photo     `json:"photoGallery"`
	Contacts     []Contact   `json:"contacts"`
	GroomFirst   bool        `json:"groomFirst"`
}

type Couple struct {
	GroomFirstName string `json:"groomFirstName"`
	GroomLastName  string `json:"groomLastName"`
	BrideFirstName string `json:"brideFirstName"`
	BrideLastName  string `json:"brideLastName"`
	GroomCity      string `json:"groomCity"`
	BrideCity      string `json:"brideCity"`
	CoupleImageURL string `json:"coupleImageUrl,omitempty"`
}

type Family struct {
	GroomFamily FamilyGroup `json:"groomFamily"`
	BrideFamily FamilyGroup `json:"brideFamily"`
}

type FamilyGroup struct {
	Title               string         `json:"title"`
	Members             []FamilyMember `json:"members"`
	FamilyPhotoURL      string         `json:"familyPhotoUrl,omitempty"`
	ParentsNameCombined string         `json:"parentsNameCombined,omitempty"`
}

type FamilyMember struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Relation    string `json:"relation,omitempty"`
	Description string `json:"description,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

// MainWedding carries the parsed date. An unparseable date leaves Date zero and
// DateValid false; callers check DateValid before formatting.
type MainWedding struct {
	Date      time.Time `json:"date"`
	DateValid bool      `json:"dateValid"`
	Time      string    `json:"time"`
	Venue     Venue     `json:"venue"`
}

type Venue struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	MapLink string `json:"mapLink,omitempty"`
}

type Event struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	Venue       string `json:"venue,omitempty"`
	Description string `json:"description,omitempty"`
	MapLink     string `json:"mapLink,omitempty"`
}

type Photo struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

type Contact struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Relation string `json:"relation,omitempty"`
}
