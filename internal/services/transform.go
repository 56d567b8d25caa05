package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"travel-matrix-service/internal/domain"
	"travel-matrix-service/internal/ports"
)

// Bare clock times are tried before free-form datetime parsing, which would
// otherwise reject them.
var clockLayouts = []string{"15:04:05", "15:04", "3:04:05 PM", "3:04 PM"}

// ToQuery turns one table row into a provider query. The departure time is
// today's date (per the supplied clock, evaluated when the row is reached)
// combined with the time-of-day from endTime; any date in endTime is
// discarded. Failures are row-scoped: the caller skips the row and moves on.
func ToQuery(t *domain.Table, row int, mode domain.Mode, now time.Time) (ports.TravelQuery, error) {
	originLat, err := coordinate(t, row, "OriginLat")
	if err != nil {
		return ports.TravelQuery{}, err
	}
	originLon, err := coordinate(t, row, "OriginLon")
	if err != nil {
		return ports.TravelQuery{}, err
	}
	destLat, err := coordinate(t, row, "DestLat")
	if err != nil {
		return ports.TravelQuery{}, err
	}
	destLon, err := coordinate(t, row, "DestLon")
	if err != nil {
		return ports.TravelQuery{}, err
	}

	raw, ok := t.Cell(row, "endTime")
	if !ok {
		return ports.TravelQuery{}, errors.New("endTime value is missing")
	}
	endTime, err := parseEndTime(raw)
	if err != nil {
		return ports.TravelQuery{}, err
	}

	departure := time.Date(
		now.Year(), now.Month(), now.Day(),
		endTime.Hour(), endTime.Minute(), endTime.Second(), endTime.Nanosecond(),
		now.Location(),
	)

	origin := domain.Coordinates{Lat: originLat, Lon: originLon}
	destination := domain.Coordinates{Lat: destLat, Lon: destLon}

	return ports.TravelQuery{
		Origin:        origin.String(),
		Destination:   destination.String(),
		Mode:          mode,
		DepartureTime: departure,
	}, nil
}

func coordinate(t *domain.Table, row int, column string) (float64, error) {
	raw, ok := t.Cell(row, column)
	if !ok {
		return 0, fmt.Errorf("%s value is missing", column)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: not a number", column, raw)
	}

	return v, nil
}

func parseEndTime(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errors.New("endTime is empty")
	}

	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse endTime %q: %w", s, err)
	}

	return t, nil
}
