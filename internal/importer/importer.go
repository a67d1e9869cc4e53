// Package importer reads bulk-import documents: an array of churches in
// JSON or YAML, in either the current shape (a media list) or the legacy
// one (a single imageUrl). Identities in the document are ignored; the
// store assigns fresh ones.
//
// A document is accepted or rejected as a whole. Parse never returns a
// partial list.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"churchmap/internal/domain/entities"
	"churchmap/internal/repository"
	"churchmap/pkg/utils"
)

// Format is the document syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the format from a file extension. Anything that is
// not .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// record accepts both shapes. The id field is deliberately absent.
type record struct {
	Name          string               `json:"name" yaml:"name"`
	Address       string               `json:"address" yaml:"address"`
	Diocese       string               `json:"diocese" yaml:"diocese"`
	Phone         string               `json:"phone" yaml:"phone"`
	MassTimes     massTimes            `json:"massTimes" yaml:"massTimes"`
	Announcements []string             `json:"announcements" yaml:"announcements"`
	Media         []entities.MediaItem `json:"media" yaml:"media"`
	ImageURL      string               `json:"imageUrl" yaml:"imageUrl"`
	Lat           float64              `json:"lat" yaml:"lat"`
	Lng           float64              `json:"lng" yaml:"lng"`
}

type massTimes struct {
	Weekdays string `json:"weekdays" yaml:"weekdays"`
	Saturday string `json:"saturday" yaml:"saturday"`
	Sunday   string `json:"sunday" yaml:"sunday"`
}

// Parse reads a whole document. Every failure wraps
// repository.ErrMalformedInput and says what was wrong.
func Parse(r io.Reader, format Format) ([]entities.Church, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading document: %v", repository.ErrMalformedInput, err)
	}

	var records []record
	switch format {
	case FormatYAML:
		records, err = decodeYAML(data)
	case FormatJSON, "":
		records, err = decodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", repository.ErrMalformedInput, format)
	}
	if err != nil {
		return nil, err
	}

	churches := make([]entities.Church, 0, len(records))
	for i, rec := range records {
		c, err := rec.toChurch()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", repository.ErrMalformedInput, i+1, err)
		}
		churches = append(churches, c)
	}
	return churches, nil
}

func decodeJSON(data []byte) ([]record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: document is not an array of churches", repository.ErrMalformedInput)
	}
	var records []record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", repository.ErrMalformedInput, err)
	}
	return records, nil
}

func decodeYAML(data []byte) ([]record, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML: %v", repository.ErrMalformedInput, err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: document is empty", repository.ErrMalformedInput)
	}
	if root.Content[0].Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: document is not an array of churches", repository.ErrMalformedInput)
	}
	var records []record
	if err := root.Content[0].Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML: %v", repository.ErrMalformedInput, err)
	}
	return records, nil
}

func (r record) toChurch() (entities.Church, error) {
	if strings.TrimSpace(r.Name) == "" {
		return entities.Church{}, fmt.Errorf("missing name")
	}
	if r.Lat < -90 || r.Lat > 90 || r.Lng < -180 || r.Lng > 180 {
		return entities.Church{}, fmt.Errorf("%q: coordinates (%g, %g) out of range", r.Name, r.Lat, r.Lng)
	}

	media := r.Media
	if len(media) == 0 && r.ImageURL != "" {
		media = []entities.MediaItem{{URL: r.ImageURL, Type: entities.MediaTypeImage}}
	}
	items := make([]entities.MediaItem, len(media))
	for i, m := range media {
		if m.URL == "" {
			return entities.Church{}, fmt.Errorf("%q: media item %d has no url", r.Name, i+1)
		}
		if m.Type == "" {
			m.Type = entities.MediaTypeImage
		}
		if m.ID == "" {
			m.ID = utils.GeneratePrefixedID("media")
		}
		items[i] = m
	}

	announcements := r.Announcements
	if announcements == nil {
		announcements = []string{}
	}

	return entities.Church{
		Name:    strings.TrimSpace(r.Name),
		Address: r.Address,
		Diocese: r.Diocese,
		Phone:   r.Phone,
		MassTimes: entities.MassTimes{
			Weekdays: r.MassTimes.Weekdays,
			Saturday: r.MassTimes.Saturday,
			Sunday:   r.MassTimes.Sunday,
		},
		Announcements: announcements,
		Media:         items,
		Lat:           r.Lat,
		Lng:           r.Lng,
	}, nil
}
