package models

// Wish is a guest's message on the wishes wall
type Wish struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id,omitempty"`
	GuestID    string `json:"guest_id,omitempty"`
	GuestName  string `json:"guest_name"`
	Content    string `json:"content"`
	ImageURL   string `json:"image_url,omitempty"`
	LikesCount int    `json:"likes_count"`
	IsApproved bool   `json:"is_approved"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// NewWish is what a guest submits from the wishes form
type NewWish struct {
	Content       string `json:"content"`
	ImageData     string `json:"image_data,omitempty"`
	ImageFilename string `json:"image_filename,omitempty"`
	ImageType     string `json:"image_type,omitempty"`
}
