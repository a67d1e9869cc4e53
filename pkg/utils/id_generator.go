// Package utils provides shared utility functions used across the application.
//
// Go Learning Note — "pkg/" Directory Convention:
// Code under pkg/ is intended to be importable by external projects (unlike
// internal/ which is compiler-enforced private).
package utils

import (
	"github.com/google/uuid"
)

// GenerateID creates a new UUID v4 string for use as an entity identifier.
//
// Go Learning Note — "github.com/google/uuid":
// uuid.New() creates a random (v4) UUID. Identities minted offline and by the
// reference backend never collide without any coordination between them.
func GenerateID() string {
	return uuid.New().String()
}

// GeneratePrefixedID returns prefix + "_" + a fresh UUID, e.g. "local_…".
// The prefix records which side minted the identity.
func GeneratePrefixedID(prefix string) string {
	return prefix + "_" + GenerateID()
}
