package mapper

import "wedding-invitation/internal/models"

// DemoEvent is the placeholder invitation shown when the template runs outside
// the platform.
func DemoEvent() models.StructuredEventData {
	groomFirst := true
	return models.StructuredEventData{
		EventID: "demo",
		WeddingData: models.EventWeddingData{
			Couple: models.CoupleInfo{
				GroomName:   "Aarav Mehta",
				BrideName:   "Diya Kapoor",
				GroomCity:   "Mumbai",
				BrideCity:   "Jaipur",
				WeddingDate: "2026-12-12",
				WeddingTime: "7:00 PM",
				GroomFirst:  &groomFirst,
			},
			Venue: models.VenueInfo{
				Name:    "The Grand Palace",
				Address: "Palace Road, Jaipur",
			},
			Family: models.FamilyInfo{
				GroomFamily: models.FamilySide{
					ParentsName: "Mr. & Mrs. Mehta",
					Members: []models.FamilyMemberInfo{
						{Name: "Rohan Mehta", Relation: "Brother"},
					},
				},
				BrideFamily: models.FamilySide{
					ParentsName: "Mr. & Mrs. Kapoor",
					Members: []models.FamilyMemberInfo{
						{Name: "Anaya Kapoor", Relation: "Sister"},
					},
				},
			},
			Events: []models.EventInfo{
				{Name: "Mehendi", Date: "2026-12-10", Time: "4:00 PM", Venue: "Kapoor Residence"},
				{Name: "Sangeet", Date: "2026-12-11", Time: "7:00 PM", Venue: "The Grand Palace"},
			},
		},
	}
}

// DemoWeddingData returns a fresh copy of the placeholder content
func DemoWeddingData() models.WeddingData {
	return MapToWeddingData(DemoEvent())
}
