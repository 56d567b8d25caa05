package services

import (
	"errors"
	"testing"
	"time"

	"travel-matrix-service/internal/domain"
	"travel-matrix-service/internal/ports"
)

func metric(text string, value int) *ports.TravelMetric {
	return &ports.TravelMetric{Text: text, Value: value}
}

func TestExtractResultPrefersTrafficDurationWhenDriving(t *testing.T) {
	q := ports.TravelQuery{
		Origin:        "40.7128,-74.006",
		Destination:   "40.7306,-73.9866",
		Mode:          domain.ModeDriving,
		DepartureTime: time.Date(2026, 3, 14, 14, 30, 0, 0, time.UTC),
	}
	el := &ports.TravelElement{
		Status:            ports.StatusOK,
		Distance:          metric("5.2 km", 5200),
		Duration:          metric("10 mins", 600),
		DurationInTraffic: metric("13 mins", 750),
	}

	result, err := ExtractResult(q, el)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.DurationSeconds != 750 {
		t.Fatalf("duration = %d, want 750", result.DurationSeconds)
	}
	if result.DurationText != "13 mins" {
		t.Fatalf("duration text = %q, want %q", result.DurationText, "13 mins")
	}
	if result.Origin != q.Origin || result.Destination != q.Destination {
		t.Fatalf("endpoints = %q -> %q, want %q -> %q", result.Origin, result.Destination, q.Origin, q.Destination)
	}
	if !result.DepartureTime.Equal(q.DepartureTime) {
		t.Fatalf("departure = %v, want %v", result.DepartureTime, q.DepartureTime)
	}
}

func TestExtractResultIgnoresTrafficDurationForOtherModes(t *testing.T) {
	q := ports.TravelQuery{Origin: "a", Destination: "b", Mode: domain.ModeWalking}
	el := &ports.TravelElement{
		Status:            ports.StatusOK,
		Distance:          metric("5.2 km", 5200),
		Duration:          metric("10 mins", 600),
		DurationInTraffic: metric("13 mins", 750),
	}

	result, err := ExtractResult(q, el)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DurationSeconds != 600 {
		t.Fatalf("duration = %d, want 600", result.DurationSeconds)
	}
}

func TestExtractResultFallsBackWithoutTrafficDuration(t *testing.T) {
	q := ports.TravelQuery{Origin: "a", Destination: "b", Mode: domain.ModeDriving}
	el := &ports.TravelElement{
		Status:   ports.StatusOK,
		Distance: metric("5.2 km", 5200),
		Duration: metric("10 mins", 600),
	}

	result, err := ExtractResult(q, el)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DurationSeconds != 600 {
		t.Fatalf("duration = %d, want 600", result.DurationSeconds)
	}
}

func TestExtractResultMissingDistanceIsNotAnError(t *testing.T) {
	q := ports.TravelQuery{Origin: "a", Destination: "b", Mode: domain.ModeDriving}
	el := &ports.TravelElement{
		Status:   ports.StatusOK,
		Duration: metric("10 mins", 600),
	}

	result, err := ExtractResult(q, el)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DistanceText != "N/A" {
		t.Fatalf("distance text = %q, want N/A", result.DistanceText)
	}
	if result.DistanceMeters != nil {
		t.Fatalf("distance meters = %v, want nil", *result.DistanceMeters)
	}
}

func TestExtractResultMissingDurationFailsRow(t *testing.T) {
	q := ports.TravelQuery{Origin: "a", Destination: "b", Mode: domain.ModeWalking}
	el := &ports.TravelElement{
		Status:   ports.StatusOK,
		Distance: metric("5.2 km", 5200),
	}

	if _, err := ExtractResult(q, el); err == nil {
		t.Fatal("expected error for missing duration")
	}
}

func TestExtractResultElementStatus(t *testing.T) {
	q := ports.TravelQuery{Origin: "a", Destination: "b", Mode: domain.ModeDriving}
	el := &ports.TravelElement{Status: "NOT_FOUND"}

	_, err := ExtractResult(q, el)
	if err == nil {
		t.Fatal("expected error for element status NOT_FOUND")
	}

	var statusErr *domain.ElementStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected ElementStatusError, got %T", err)
	}
	if statusErr.Status != "NOT_FOUND" {
		t.Fatalf("status = %q, want NOT_FOUND", statusErr.Status)
	}
}

func TestExtractResultNilElement(t *testing.T) {
	q := ports.TravelQuery{Origin: "a", Destination: "b", Mode: domain.ModeDriving}

	if _, err := ExtractResult(q, nil); err == nil {
		t.Fatal("expected error for nil element")
	}
}
