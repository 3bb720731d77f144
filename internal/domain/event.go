package domain

// Event is an entry from the remote event catalog. The session and
// favorites core only ever handles event IDs; the payload exists so the
// catalog client and its callers can render favorites.
type Event struct {
	// ID is the catalog's event identifier.
	ID string `json:"id"`

	// Name is the event title.
	Name string `json:"name"`

	// Images are the promotional images attached to the event.
	Images []EventImage `json:"images,omitempty"`

	// Info is the free-form event description, when present.
	Info string `json:"info,omitempty"`

	// VenueName is the primary venue's name, when present.
	VenueName string `json:"venueName,omitempty"`

	// VenueCity is the primary venue's city, when present.
	VenueCity string `json:"venueCity,omitempty"`

	// LocalDate is the event's local start date (YYYY-MM-DD), when present.
	LocalDate string `json:"localDate,omitempty"`
}

// EventImage is a single promotional image.
type EventImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
