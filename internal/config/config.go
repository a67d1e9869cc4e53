// Package config centralizes all application configuration into typed structs.
//
// Values are layered: NewDefaultConfig, then an optional YAML file, then
// environment variables (with .env files loaded first). Later layers win.
//
// Go Learning Note — Typed Configuration:
// Using typed structs (not raw strings/maps) gives you compile-time safety
// and IDE autocompletion. time.Duration fields decode from strings such as
// "300ms" in YAML, so units are never guessed.
package config

import (
	"time"

	"churchmap/internal/domain/entities"
)

// Config is the top-level configuration container.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Remote  RemoteConfig  `yaml:"remote"`
	Offline OfflineConfig `yaml:"offline"`
	Search  SearchConfig  `yaml:"search"`
	Map     MapConfig     `yaml:"map"`
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds settings for the reference backend started by
// `churchmap serve`. A non-empty AdminToken locks the mutating routes.
type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	AdminToken   string        `yaml:"admin_token"`
}

// RemoteConfig points the data-access layer at a remote endpoint. An empty
// BaseURL means offline-only.
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// OfflineConfig controls the bundled dataset. An empty DatasetPath uses the
// copy embedded in the binary.
type OfflineConfig struct {
	DatasetPath      string        `yaml:"dataset_path"`
	SimulatedLatency time.Duration `yaml:"simulated_latency"`
}

// SearchConfig holds search tuning and the presets offered to users.
type SearchConfig struct {
	TextDebounce        time.Duration `yaml:"text_debounce"`
	PageSize            int           `yaml:"page_size"`
	RadiusPresetsKm     []float64     `yaml:"radius_presets_km"`
	HorizonPresetsHours []float64     `yaml:"horizon_presets_hours"`
}

// MapConfig holds camera defaults. Zoom levels follow web-map tiles (0 is
// the whole world).
type MapConfig struct {
	DefaultLat     float64 `yaml:"default_lat"`
	DefaultLng     float64 `yaml:"default_lng"`
	DefaultZoom    int     `yaml:"default_zoom"`
	FirstFixZoom   int     `yaml:"first_fix_zoom"`
	SelectZoom     int     `yaml:"select_zoom"`
	FitMaxZoom     int     `yaml:"fit_max_zoom"`
	FitPadding     float64 `yaml:"fit_padding"`
	ViewportWidth  float64 `yaml:"viewport_width"`
	ViewportHeight float64 `yaml:"viewport_height"`
}

// DefaultCenter returns the configured opening position.
func (m MapConfig) DefaultCenter() entities.Location {
	return entities.NewLocation(m.DefaultLat, m.DefaultLng)
}

// StoreConfig selects the reference backend's persistence: "json" for the
// legacy data file or "bolt" for a bbolt database.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// LogConfig mirrors LOG_LEVEL and LOG_FORMAT.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	StoreDriverJSON = "json"
	StoreDriverBolt = "bolt"
)

// NewDefaultConfig returns a Config populated with sensible defaults.
//
// Go Learning Note — Constructor Functions:
// Go has no constructors. By convention, New<Type>() functions serve the same
// purpose.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Remote: RemoteConfig{
			Timeout: 10 * time.Second,
		},
		Offline: OfflineConfig{},
		Search: SearchConfig{
			TextDebounce:        300 * time.Millisecond,
			PageSize:            12,
			RadiusPresetsKm:     []float64{1, 3, 5, 10},
			HorizonPresetsHours: []float64{2, 12, 24},
		},
		Map: MapConfig{
			DefaultLat:     entities.DefaultMapCenter.Latitude,
			DefaultLng:     entities.DefaultMapCenter.Longitude,
			DefaultZoom:    13,
			FirstFixZoom:   15,
			SelectZoom:     16,
			FitMaxZoom:     16,
			FitPadding:     50,
			ViewportWidth:  1024,
			ViewportHeight: 768,
		},
		Store: StoreConfig{
			Driver: StoreDriverJSON,
			Path:   "data/churches.json",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
