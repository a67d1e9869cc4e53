package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LegacyChurch is the record shape of the bundled dataset and of the
// reference backend's data file: one optional imageUrl instead of a media
// list, and an id that may be a JSON number or a string.
type LegacyChurch struct {
	ID            LegacyID  `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Diocese       string    `json:"diocese"`
	Phone         string    `json:"phone"`
	MassTimes     MassTimes `json:"massTimes"`
	Announcements []string  `json:"announcements"`
	ImageURL      string    `json:"imageUrl"`
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
}

// LegacyID holds an identity that was written either as a number or a string.
// It always reads back as a string.
type LegacyID string

// idPrefixes are stripped before trying to write an identity back as a number.
var idPrefixes = []string{"mock_", "real_", "local_"}

// UnmarshalJSON accepts 12, "12" and "real_1700000000".
func (id *LegacyID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = LegacyID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("legacy id must be a number or string: %w", err)
	}
	*id = LegacyID(n.String())
	return nil
}

// MarshalJSON writes the identity as a number when, after stripping a known
// prefix, it is an integer. Anything else stays a string.
func (id LegacyID) MarshalJSON() ([]byte, error) {
	s := string(id)
	for _, p := range idPrefixes {
		s = strings.TrimPrefix(s, p)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

// ToChurch converts the legacy record. A non-empty imageUrl becomes a
// one-element media list of kind image.
func (l LegacyChurch) ToChurch() Church {
	id := string(l.ID)
	media := []MediaItem{}
	if l.ImageURL != "" {
		media = append(media, MediaItem{
			ID:   "media_" + id + "_1",
			URL:  l.ImageURL,
			Type: MediaTypeImage,
		})
	}
	announcements := l.Announcements
	if announcements == nil {
		announcements = []string{}
	}
	return Church{
		ID:            id,
		Name:          l.Name,
		Address:       l.Address,
		Diocese:       l.Diocese,
		Phone:         l.Phone,
		MassTimes:     l.MassTimes,
		Announcements: announcements,
		Media:         media,
		Lat:           l.Lat,
		Lng:           l.Lng,
	}
}

// FromChurch converts back to the legacy shape. Only the first media item
// survives, and only when it is an image; every other item is dropped.
func FromChurch(c Church) LegacyChurch {
	imageURL := ""
	if len(c.Media) > 0 && c.Media[0].Type == MediaTypeImage {
		imageURL = c.Media[0].URL
	}
	return LegacyChurch{
		ID:            LegacyID(c.ID),
		Name:          c.Name,
		Address:       c.Address,
		Diocese:       c.Diocese,
		Phone:         c.Phone,
		MassTimes:     c.MassTimes,
		Announcements: c.Announcements,
		ImageURL:      imageURL,
		Lat:           c.Lat,
		Lng:           c.Lng,
	}
}

// DecodeLegacy parses a JSON array of legacy records into churches.
func DecodeLegacy(data []byte) ([]Church, error) {
	var records []LegacyChurch
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding legacy churches: %w", err)
	}
	churches := make([]Church, 0, len(records))
	for _, r := range records {
		churches = append(churches, r.ToChurch())
	}
	return churches, nil
}

// EncodeLegacy renders churches in the legacy shape, indented with two
// spaces like the bundled data file.
func EncodeLegacy(churches []Church) ([]byte, error) {
	records := make([]LegacyChurch, 0, len(churches))
	for _, c := range churches {
		records = append(records, FromChurch(c))
	}
	return json.MarshalIndent(records, "", "  ")
}
