package domain

import "strconv"

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as "lat,lon" for external API compatibility. Each part
// uses the shortest decimal form that round-trips the value.
func (c Coordinates) String() string {
	return formatCoord(c.Lat) + "," + formatCoord(c.Lon)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
