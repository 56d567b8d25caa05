package services

import (
	"errors"

	"travel-matrix-service/internal/domain"
	"travel-matrix-service/internal/ports"
)

// ExtractResult pulls distance and duration out of a response element.
//
// A missing distance is not an error: the text falls back to "N/A" and the
// meters stay nil. Durations come from the traffic-aware field only when the
// query mode was driving and the field is present; every other mode ignores
// it even when the service sends one. A missing duration fails the row.
func ExtractResult(q ports.TravelQuery, el *ports.TravelElement) (domain.TravelResult, error) {
	if el == nil {
		return domain.TravelResult{}, errors.New("response element is nil")
	}

	if el.Status != ports.StatusOK {
		return domain.TravelResult{}, &domain.ElementStatusError{Status: el.Status}
	}

	result := domain.TravelResult{
		Origin:        q.Origin,
		Destination:   q.Destination,
		DepartureTime: q.DepartureTime,
		DistanceText:  "N/A",
	}

	if el.Distance != nil {
		result.DistanceText = el.Distance.Text
		meters := el.Distance.Value
		result.DistanceMeters = &meters
	}

	duration := el.Duration
	if q.Mode == domain.ModeDriving && el.DurationInTraffic != nil {
		duration = el.DurationInTraffic
	}
	if duration == nil {
		return domain.TravelResult{}, errors.New("element has no duration")
	}

	result.DurationText = duration.Text
	result.DurationSeconds = duration.Value

	return result, nil
}
