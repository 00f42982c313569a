package models

// Event is an event's public metadata. ID is chosen by the caller and never changes.
type Event struct {
	ID       string  `db:"id" json:"id"`
	Name     string  `db:"name" json:"name"`
	Subtitle *string `db:"subtitle" json:"subtitle"`
	Date     *string `db:"date" json:"date"`
	Location *string `db:"location" json:"location"`
}

// EventRequest is the create/update payload. Update replaces every mutable field.
type EventRequest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name" validate:"required"`
	Subtitle *string `json:"subtitle"`
	Date     *string `json:"date"`
	Location *string `json:"location"`
}
