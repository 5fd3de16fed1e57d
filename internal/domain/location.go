package domain

import "strings"

// Location is a named place in the transport network.
// Identity is the normalized name; the display name keeps the casing
// of the first row that introduced it.
type Location struct {
	Key   string
	Name  string
	Coord *Coordinates
}

// NormalizeName produces the case-insensitive lookup key for a location name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// NewLocation builds a Location from a display name and optional coordinate.
func NewLocation(name string, coord *Coordinates) Location {
	display := strings.Join(strings.Fields(name), " ")
	return Location{Key: NormalizeName(name), Name: display, Coord: coord}
}

// Is reports whether the location matches the given name case-insensitively.
func (l Location) Is(name string) bool { return l.Key == NormalizeName(name) }

func (l Location) String() string {
	if l.Name != "" {
		return l.Name
	}
	return l.Key
}
