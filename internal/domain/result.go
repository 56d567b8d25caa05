package domain

import "time"

// Layout used whenever a departure time is rendered for users or files.
const DepartureTimeLayout = "2006-01-02 15:04:05"

// TravelResult is one successfully processed row: the queried pair plus the
// distance and duration extracted from the service response.
//
// DistanceMeters is nil when the response carried no distance (the text
// column then reads "N/A"). Duration is always present; rows without a
// usable duration never become results.
type TravelResult struct {
	Origin          string
	Destination     string
	DepartureTime   time.Time
	DistanceText    string
	DistanceMeters  *int
	DurationText    string
	DurationSeconds int
}
