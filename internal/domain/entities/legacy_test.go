package entities

import (
	"encoding/json"
	"testing"
)

func TestDecodeLegacy_ImageURLBecomesMedia(t *testing.T) {
	data := []byte(`[
		{"id": 7, "name": "Tan Dinh", "imageUrl": "https://img/7.jpg", "lat": 10.79, "lng": 106.69},
		{"id": "real_42", "name": "Duc Ba", "imageUrl": "", "lat": 10.78, "lng": 106.70}
	]`)

	churches, err := DecodeLegacy(data)
	if err != nil {
		t.Fatalf("DecodeLegacy failed: %v", err)
	}
	if len(churches) != 2 {
		t.Fatalf("Expected 2 churches, got %d", len(churches))
	}

	first := churches[0]
	if first.ID != "7" {
		t.Errorf("Expected id 7, got %q", first.ID)
	}
	if len(first.Media) != 1 {
		t.Fatalf("Expected one media item, got %d", len(first.Media))
	}
	if first.Media[0].ID != "media_7_1" || first.Media[0].Type != MediaTypeImage {
		t.Errorf("Unexpected media item %+v", first.Media[0])
	}

	second := churches[1]
	if second.ID != "real_42" {
		t.Errorf("Expected id real_42, got %q", second.ID)
	}
	if second.Media == nil || len(second.Media) != 0 {
		t.Errorf("Expected empty, non-nil media, got %#v", second.Media)
	}
}

func TestFromChurch_KeepsOnlyFirstImage(t *testing.T) {
	tests := []struct {
		name     string
		media    []MediaItem
		expected string
	}{
		{"no media", nil, ""},
		{"single image", []MediaItem{{URL: "a", Type: MediaTypeImage}}, "a"},
		{"first of many", []MediaItem{{URL: "a", Type: MediaTypeImage}, {URL: "b", Type: MediaTypeImage}}, "a"},
		{"video first", []MediaItem{{URL: "v", Type: MediaTypeVideo}, {URL: "b", Type: MediaTypeImage}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromChurch(Church{ID: "1", Media: tt.media}).ImageURL
			if got != tt.expected {
				t.Errorf("ImageURL = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestLegacyID_MarshalJSON(t *testing.T) {
	tests := []struct {
		id       LegacyID
		expected string
	}{
		{"12", `12`},
		{"real_1700000000", `1700000000`},
		{"mock_99", `99`},
		{"local_5b2c-uuid", `"local_5b2c-uuid"`},
		{"abc", `"abc"`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.id)
		if err != nil {
			t.Fatalf("Marshal(%q) failed: %v", tt.id, err)
		}
		if string(data) != tt.expected {
			t.Errorf("Marshal(%q) = %s, expected %s", tt.id, data, tt.expected)
		}
	}
}

func TestNewChurch_IsNew(t *testing.T) {
	c := NewChurch(DefaultMapCenter)
	if !c.IsNew() {
		t.Error("Expected a fresh church to carry the new sentinel")
	}
	if c.Position() != DefaultMapCenter {
		t.Errorf("Expected position %v, got %v", DefaultMapCenter, c.Position())
	}
	if c.WithID("x").IsNew() {
		t.Error("Expected WithID to replace the sentinel")
	}
}
