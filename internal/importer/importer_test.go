package importer

import (
	"errors"
	"strings"
	"testing"

	"churchmap/internal/repository"
)

func TestParse_JSON(t *testing.T) {
	doc := `[
		{"id": 42, "name": "Tan Dinh", "diocese": "Saigon", "imageUrl": "https://img/1.jpg", "lat": 10.78, "lng": 106.69},
		{"id": "real_7", "name": "Duc Ba", "media": [
			{"url": "https://img/2.jpg", "type": "image"},
			{"url": "https://vid/2.mp4", "type": "video"}
		], "massTimes": {"sunday": "8:00, 18:00"}}
	]`

	churches, err := Parse(strings.NewReader(doc), FormatJSON)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(churches) != 2 {
		t.Fatalf("Expected 2 churches, got %d", len(churches))
	}
	for _, c := range churches {
		if c.ID != "" {
			t.Errorf("Expected identities discarded, got %q", c.ID)
		}
	}
	if len(churches[0].Media) != 1 || churches[0].Media[0].URL != "https://img/1.jpg" {
		t.Errorf("Expected imageUrl converted to media, got %+v", churches[0].Media)
	}
	if len(churches[1].Media) != 2 || churches[1].Media[1].Type != "video" {
		t.Errorf("Expected media kept, got %+v", churches[1].Media)
	}
	if churches[1].MassTimes.Sunday != "8:00, 18:00" {
		t.Errorf("Expected mass times kept, got %+v", churches[1].MassTimes)
	}
}

func TestParse_YAML(t *testing.T) {
	doc := `
- name: Phat Diem
  diocese: Phat Diem
  lat: 20.0896
  lng: 106.0834
  massTimes:
    sunday: "5:00, 7:00"
- name: Song Vinh
  imageUrl: https://img/3.jpg
`
	churches, err := Parse(strings.NewReader(doc), FormatYAML)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(churches) != 2 || churches[0].Name != "Phat Diem" || churches[0].MassTimes.Sunday != "5:00, 7:00" {
		t.Errorf("Unexpected churches %+v", churches)
	}
	if len(churches[1].Media) != 1 {
		t.Errorf("Expected one media item, got %+v", churches[1].Media)
	}
}

func TestParse_EmptyArray(t *testing.T) {
	churches, err := Parse(strings.NewReader(`[]`), FormatJSON)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(churches) != 0 {
		t.Errorf("Expected no churches, got %d", len(churches))
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
		reason string
	}{
		{"object instead of array", `{"name": "x"}`, FormatJSON, "not an array"},
		{"syntax error", `[{"name": }]`, FormatJSON, "invalid JSON"},
		{"empty", ``, FormatJSON, "not an array"},
		{"missing name", `[{"name": "ok"}, {"address": "somewhere"}]`, FormatJSON, "record 2: missing name"},
		{"bad coordinates", `[{"name": "x", "lat": 91}]`, FormatJSON, "out of range"},
		{"yaml mapping", "name: x\n", FormatYAML, "not an array"},
		{"yaml syntax", "- name: [\n", FormatYAML, "invalid YAML"},
		{"unknown format", `[]`, Format("csv"), "unknown format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			churches, err := Parse(strings.NewReader(tt.doc), tt.format)
			if !errors.Is(err, repository.ErrMalformedInput) {
				t.Fatalf("Expected ErrMalformedInput, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("Expected reason %q in %q", tt.reason, err.Error())
			}
			if churches != nil {
				t.Errorf("Expected no partial result, got %d churches", len(churches))
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"churches.json": FormatJSON,
		"churches.YAML": FormatYAML,
		"data/x.yml":    FormatYAML,
		"noext":         FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %s, want %s", path, got, want)
		}
	}
}
