package ports

import (
	"context"
	"time"

	"travel-matrix-service/internal/domain"
)

// Element status indicating a usable result.
const StatusOK = "OK"

// TravelMetric is one quantity from a response element: a human-readable
// rendering plus the raw value (meters for distances, seconds for durations).
type TravelMetric struct {
	Text  string
	Value int
}

// TravelQuery describes a single origin->destination lookup.
// Origin and Destination are "lat,lon" strings.
type TravelQuery struct {
	Origin        string
	Destination   string
	Mode          domain.Mode
	DepartureTime time.Time
}

// TravelElement is the per-pair payload returned by a travel service.
// Optional fields are nil when the response omitted them; presence is an
// explicit check, never a zero-value guess.
type TravelElement struct {
	Status            string
	Distance          *TravelMetric
	Duration          *TravelMetric
	DurationInTraffic *TravelMetric
}

// Contract for querying travel distance and duration between two points.
type TravelProvider interface {
	// Issue one blocking lookup for the given pair.
	FetchTravel(ctx context.Context, q TravelQuery) (*TravelElement, error)
}
