package platform

import "wedding-invitation/internal/models"

// View is one consistent snapshot of the aggregated state. Its maps and slices
// are shared with the aggregator and must not be modified.
type View struct {
	Revision       uint64              `json:"revision"`
	PlatformData   models.PlatformData `json:"platformData"`
	WeddingData    models.WeddingData  `json:"weddingData"`
	IsPlatformMode bool                `json:"isPlatformMode"`
	RSVPConfig     models.RSVPMode     `json:"rsvpConfig"`
	// GuestStatus is the last status the platform (or the demo ledger) confirmed.
	GuestStatus models.GuestStatus `json:"guestStatus"`
	// PendingStatus is set by a local action and cleared by the next
	// authoritative status.
	PendingStatus    models.GuestStatus   `json:"pendingStatus,omitempty"`
	EffectiveStatus  models.GuestStatus   `json:"effectiveStatus"`
	ShowAcceptButton bool                 `json:"showAcceptButton"`
	ShowRSVPAction   bool                 `json:"showRsvpAction"`
	CustomFields     []models.CustomField `json:"customFields"`
	Wishes           []models.Wish        `json:"wishes"`
	LastError        string               `json:"lastError,omitempty"`
	DataTimedOut     bool                 `json:"dataTimedOut"`
}

// ShowRSVPAction decides whether the detailed submit/edit action is visible.
// Simple mode never shows it.
func ShowRSVPAction(mode models.RSVPMode, status models.GuestStatus, showEdit bool) bool {
	if mode != models.RSVPDetailed {
		return false
	}
	switch status {
	case models.GuestAccepted:
		return true
	case models.GuestSubmitted:
		return showEdit
	default:
		return false
	}
}

// ShowAcceptButton reports whether the guest still has to accept
func ShowAcceptButton(status models.GuestStatus) bool {
	switch status {
	case models.GuestAccepted, models.GuestSubmitted, models.GuestDeclined:
		return false
	default:
		return true
	}
}

func effective(authoritative, pending models.GuestStatus) models.GuestStatus {
	if pending != "" {
		return pending
	}
	if authoritative == "" {
		return models.GuestPending
	}
	return authoritative
}
