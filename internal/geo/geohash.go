// Package geo holds the geometry the directory needs: great-circle distance,
// geohash cells for marker clustering, and lat/lng bounds for camera fitting.
//
// Go Learning Note — What is a Geohash?
// A geohash encodes a latitude/longitude pair into a short string. Nearby
// locations share a common prefix, so truncating a hash to fewer characters
// yields a bigger cell that contains the original point. The clustering
// engine relies on exactly that: markers whose hashes agree up to the
// precision chosen for the current zoom end up in the same cluster.
//
//	1 → ~5000 km    4 → ~39 km     7 → ~153 m
//	2 → ~1250 km    5 → ~5 km      8 → ~19 m
//	3 → ~156 km     6 → ~1.2 km    9 → ~2.4 m
package geo

import (
	"strings"
)

const (
	base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

	// MaxPrecision is the longest hash Encode produces.
	MaxPrecision = 12
)

var base32Index = func() map[byte]int {
	m := make(map[byte]int, len(base32))
	for i := 0; i < len(base32); i++ {
		m[base32[i]] = i
	}
	return m
}()

// Cell is the rectangle a geohash covers.
type Cell struct {
	Hash           string
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// Center returns the middle of the cell.
func (c Cell) Center() (lat, lng float64) {
	return (c.MinLat + c.MaxLat) / 2, (c.MinLng + c.MaxLng) / 2
}

// Encode converts latitude and longitude to a geohash with the given
// precision, clamped to [1, MaxPrecision].
//
// The ranges are bisected alternately on longitude (even bits) and latitude
// (odd bits); every 5 bits become one base32 character.
func Encode(lat, lng float64, precision int) string {
	if precision < 1 {
		precision = 1
	}
	if precision > MaxPrecision {
		precision = MaxPrecision
	}

	minLat, maxLat := -90.0, 90.0
	minLng, maxLng := -180.0, 180.0

	var hash strings.Builder
	hash.Grow(precision)
	even := true
	bit, ch := 0, 0

	for hash.Len() < precision {
		if even {
			mid := (minLng + maxLng) / 2
			if lng >= mid {
				ch |= 1 << (4 - bit)
				minLng = mid
			} else {
				maxLng = mid
			}
		} else {
			mid := (minLat + maxLat) / 2
			if lat >= mid {
				ch |= 1 << (4 - bit)
				minLat = mid
			} else {
				maxLat = mid
			}
		}
		even = !even
		if bit++; bit == 5 {
			hash.WriteByte(base32[ch])
			bit, ch = 0, 0
		}
	}

	return hash.String()
}

// DecodeCell replays the subdivision of hash and returns the cell it names.
// Characters outside the geohash alphabet are ignored.
func DecodeCell(hash string) Cell {
	cell := Cell{Hash: hash, MinLat: -90, MaxLat: 90, MinLng: -180, MaxLng: 180}
	even := true

	for i := 0; i < len(hash); i++ {
		cd, ok := base32Index[hash[i]]
		if !ok {
			continue
		}
		for j := 4; j >= 0; j-- {
			set := (cd>>j)&1 == 1
			if even {
				mid := (cell.MinLng + cell.MaxLng) / 2
				if set {
					cell.MinLng = mid
				} else {
					cell.MaxLng = mid
				}
			} else {
				mid := (cell.MinLat + cell.MaxLat) / 2
				if set {
					cell.MinLat = mid
				} else {
					cell.MaxLat = mid
				}
			}
			even = !even
		}
	}
	return cell
}

// Decode returns the center of the cell named by hash.
func Decode(hash string) (lat, lng float64) {
	return DecodeCell(hash).Center()
}

// PrecisionForZoom maps a web-map zoom level to the geohash precision used to
// bucket markers: two zoom levels per character, so zoom 13 clusters on
// ~5 km cells and zoom 16 on ~150 m cells.
func PrecisionForZoom(zoom int) int {
	p := zoom/2 - 1
	if p < 1 {
		return 1
	}
	if p > MaxPrecision {
		return MaxPrecision
	}
	return p
}
