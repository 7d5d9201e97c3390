package models

// StructuredEventData is the platform's canonical wire format for an event
type StructuredEventData struct {
	EventID     string           `json:"eventId"`
	GuestID     string           `json:"guestId,omitempty"`
	GuestName   string           `json:"guestName,omitempty"`
	Status      string           `json:"status,omitempty"`
	RSVPConfig  *RSVPConfig      `json:"rsvpConfig,omitempty"`
	TemplateID  string           `json:"templateId,omitempty"`
	WeddingData EventWeddingData `json:"weddingData"`
}

// EventWeddingData is the content block of StructuredEventData
type EventWeddingData struct {
	Couple   CoupleInfo     `json:"couple"`
	Venue    VenueInfo      `json:"venue"`
	Family   FamilyInfo     `json:"family"`
	Contacts []ContactInfo  `json:"contacts,omitempty"`
	Gallery  []GalleryPhoto `json:"gallery,omitempty"`
	Events   []EventInfo    `json:"events,omitempty"`
}

type CoupleInfo struct {
	GroomName   string `json:"groomName"`
	BrideName   string `json:"brideName"`
	GroomCity   string `json:"groomCity,omitempty"`
	BrideCity   string `json:"brideCity,omitempty"`
	WeddingDate string `json:"weddingDate,omitempty"`
	WeddingTime string `json:"weddingTime,omitempty"`
	CoupleImage string `json:"coupleImage,omitempty"`
	GroomFirst  *bool  `json:"groomFirst,omitempty"`
}

type VenueInfo struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	MapLink string `json:"mapLink,omitempty"`
}

type FamilyInfo struct {
	BrideFamily FamilySide `json:"bride_family"`
	GroomFamily FamilySide `json:"groom_family"`
}

// FamilySide is one side of the family as the platform sends it
type FamilySide struct {
	FamilyPhoto string             `json:"family_photo,omitempty"`
	ParentsName string             `json:"parents_name,omitempty"`
	Members     []FamilyMemberInfo `json:"members,omitempty"`
}

type FamilyMemberInfo struct {
	Name        string `json:"name"`
	Relation    string `json:"relation,omitempty"`
	Description string `json:"description,omitempty"`
	Photo       string `json:"photo,omitempty"`
}

type ContactInfo struct {
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Relation string `json:"relation,omitempty"`
}

type GalleryPhoto struct {
	Photo string `json:"photo"`
	Title string `json:"title,omitempty"`
}

type EventInfo struct {
	Name        string `json:"name"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	Venue       string `json:"venue,omitempty"`
	Description string `json:"description,omitempty"`
	MapLink     string `json:"map_link,omitempty"`
}
