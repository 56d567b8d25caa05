package services

import (
	"strings"
	"testing"
	"time"

	"travel-matrix-service/internal/domain"
)

var matrixColumns = []string{"OriginLat", "OriginLon", "DestLat", "DestLon", "endTime"}

func singleRowTable(t *testing.T, cells ...string) *domain.Table {
	t.Helper()
	if len(cells) != len(matrixColumns) {
		t.Fatalf("fixture needs %d cells, got %d", len(matrixColumns), len(cells))
	}
	return domain.NewTable(matrixColumns, [][]string{cells})
}

func TestToQueryFormatsCoordinatePairs(t *testing.T) {
	tbl := singleRowTable(t, "40.7128", "-74.0060", "40.7306", "-73.9866", "14:30")
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	q, err := ToQuery(tbl, 0, domain.ModeDriving, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.Origin != "40.7128,-74.006" {
		t.Fatalf("origin = %q, want %q", q.Origin, "40.7128,-74.006")
	}
	if q.Destination != "40.7306,-73.9866" {
		t.Fatalf("destination = %q, want %q", q.Destination, "40.7306,-73.9866")
	}
	if q.Mode != domain.ModeDriving {
		t.Fatalf("mode = %q, want driving", q.Mode)
	}
}

func TestToQueryDiscardsEndTimeDate(t *testing.T) {
	tbl := singleRowTable(t, "1", "2", "3", "4", "2024-06-10 14:30")
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	q, err := ToQuery(tbl, 0, domain.ModeDriving, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 3, 14, 14, 30, 0, 0, time.UTC)
	if !q.DepartureTime.Equal(want) {
		t.Fatalf("departure = %v, want %v", q.DepartureTime, want)
	}
}

func TestToQueryAcceptsBareClockTimes(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	cases := []struct {
		endTime string
		hour    int
		minute  int
		second  int
	}{
		{"14:30", 14, 30, 0},
		{"09:15:45", 9, 15, 45},
		{"2:45 PM", 14, 45, 0},
		{"11:05:10 PM", 23, 5, 10},
	}

	for _, c := range cases {
		tbl := singleRowTable(t, "1", "2", "3", "4", c.endTime)
		q, err := ToQuery(tbl, 0, domain.ModeWalking, now)
		if err != nil {
			t.Fatalf("endTime %q: unexpected error: %v", c.endTime, err)
		}
		want := time.Date(2026, 3, 14, c.hour, c.minute, c.second, 0, time.UTC)
		if !q.DepartureTime.Equal(want) {
			t.Fatalf("endTime %q: departure = %v, want %v", c.endTime, q.DepartureTime, want)
		}
	}
}

func TestToQueryUsesSuppliedClockDate(t *testing.T) {
	tbl := singleRowTable(t, "1", "2", "3", "4", "08:00")

	first := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	second := time.Date(2026, 3, 15, 0, 1, 0, 0, time.UTC)

	q1, err := ToQuery(tbl, 0, domain.ModeDriving, first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q2, err := ToQuery(tbl, 0, domain.ModeDriving, second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q1.DepartureTime.Day() != 14 || q2.DepartureTime.Day() != 15 {
		t.Fatalf("departures = %v, %v; want days 14 and 15", q1.DepartureTime, q2.DepartureTime)
	}
}

func TestToQueryTrimsCoordinateWhitespace(t *testing.T) {
	tbl := singleRowTable(t, " 40.7128 ", "-74.0060", "40.7306", "-73.9866", "14:30")
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	q, err := ToQuery(tbl, 0, domain.ModeDriving, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Origin != "40.7128,-74.006" {
		t.Fatalf("origin = %q, want %q", q.Origin, "40.7128,-74.006")
	}
}

func TestToQueryRejectsBadCoordinate(t *testing.T) {
	tbl := singleRowTable(t, "north", "-74.0060", "40.7306", "-73.9866", "14:30")
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	_, err := ToQuery(tbl, 0, domain.ModeDriving, now)
	if err == nil {
		t.Fatal("expected error for non-numeric coordinate")
	}
	if !strings.Contains(err.Error(), "OriginLat") {
		t.Fatalf("error %q should name the bad column", err)
	}
}

func TestToQueryRejectsBadEndTime(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	for _, endTime := range []string{"", "   ", "not-a-time"} {
		tbl := singleRowTable(t, "1", "2", "3", "4", endTime)
		if _, err := ToQuery(tbl, 0, domain.ModeDriving, now); err == nil {
			t.Fatalf("endTime %q: expected error", endTime)
		}
	}
}

func TestToQueryRejectsShortRow(t *testing.T) {
	tbl := domain.NewTable(matrixColumns, [][]string{{"1", "2", "3"}})
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	if _, err := ToQuery(tbl, 0, domain.ModeDriving, now); err == nil {
		t.Fatal("expected error for ragged row")
	}
}
