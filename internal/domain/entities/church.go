// Package entities defines the core domain models for the church directory.
// These structs represent the business concepts (Church, MassTimes, MediaItem,
// Location) and live in the innermost layer of the architecture — they have no
// dependencies on HTTP, storage, or the map engine.
//
// Go Learning Note — "internal/" directory:
// Packages under internal/ cannot be imported by code outside this module. Go
// enforces this at the compiler level.
package entities

// NewChurchID is the identity carried by a church that has been created in a
// form but not saved yet. Identity generation never produces this value.
const NewChurchID = "new"

// MediaType is a typed string enum for the kind of a media attachment.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// SortKey names a Church field the directory listing can be sorted by.
type SortKey string

const (
	SortByName    SortKey = "name"
	SortByAddress SortKey = "address"
	SortByDiocese SortKey = "diocese"
)

// Valid reports whether k is a known key. The empty key means "stored
// order" and is valid.
func (k SortKey) Valid() bool {
	switch k {
	case "", SortByName, SortByAddress, SortByDiocese:
		return true
	}
	return false
}

// MediaItem is a photo or video attached to a church. Only the URL is stored;
// the media itself lives elsewhere.
type MediaItem struct {
	ID   string    `json:"id"`
	URL  string    `json:"url"`
	Type MediaType `json:"type"`
}

// MassTimes is the recurring weekly schedule. Each field is free text, normally
// a comma-separated list of "H:MM" times such as "5:30, 18:00".
type MassTimes struct {
	Weekdays string `json:"weekdays"`
	Saturday string `json:"saturday"`
	Sunday   string `json:"sunday"`
}

// Church is a directory entry.
//
// Go Learning Note — Struct Tags:
// The `json:"lat"` annotations control how encoding/json serializes the field.
// They match the remote endpoint's wire format, so the same struct is used on
// both sides of the HTTP boundary.
type Church struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Address       string      `json:"address"`
	Diocese       string      `json:"diocese"`
	Phone         string      `json:"phone"`
	MassTimes     MassTimes   `json:"massTimes"`
	Announcements []string    `json:"announcements"`
	Media         []MediaItem `json:"media"`
	Lat           float64     `json:"lat"`
	Lng           float64     `json:"lng"`
}

// NewChurch returns an unsaved church placed at the given position.
func NewChurch(at Location) Church {
	return Church{
		ID:            NewChurchID,
		Announcements: []string{},
		Media:         []MediaItem{},
		Lat:           at.Latitude,
		Lng:           at.Longitude,
	}
}

// Position returns the church's geographic position.
func (c Church) Position() Location {
	return NewLocation(c.Lat, c.Lng)
}

// IsNew reports whether the church has never been persisted.
func (c Church) IsNew() bool {
	return c.ID == NewChurchID
}

// Field returns the raw value of a sortable field. Unknown keys yield "".
func (c Church) Field(key SortKey) string {
	switch key {
	case SortByName:
		return c.Name
	case SortByAddress:
		return c.Address
	case SortByDiocese:
		return c.Diocese
	}
	return ""
}

// WithID returns a copy of the church carrying the given identity.
//
// Go Learning Note — Value Receivers:
// Church is passed by value here, so assigning c.ID only changes the local
// copy. The slices (Media, Announcements) still share their backing arrays,
// which is fine because nothing in this module mutates them in place.
func (c Church) WithID(id string) Church {
	c.ID = id
	return c
}
