// Package dataset bundles the offline church directory shipped with the
// binary. It is read in the legacy single-imageUrl shape.
package dataset

import (
	_ "embed"
	"fmt"
	"os"

	"churchmap/internal/domain/entities"
)

//go:embed churches.json
var bundled []byte

// Bundled returns the raw embedded document.
func Bundled() []byte {
	return bundled
}

// Loader produces the raw offline document. It runs at most once per
// successful directory load.
type Loader func() ([]byte, error)

// EmbeddedLoader serves the document compiled into the binary.
func EmbeddedLoader() Loader {
	return func() ([]byte, error) {
		return bundled, nil
	}
}

// FileLoader reads the document from disk on demand.
func FileLoader(path string) Loader {
	return func() ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading offline dataset: %w", err)
		}
		return data, nil
	}
}

// LoaderFor picks the file loader when a path is configured, otherwise the
// embedded one.
func LoaderFor(path string) Loader {
	if path == "" {
		return EmbeddedLoader()
	}
	return FileLoader(path)
}

// Decode parses a legacy document into churches.
func Decode(data []byte) ([]entities.Church, error) {
	return entities.DecodeLegacy(data)
}
