package domain

import (
	"errors"
	"testing"
)

func TestMissingColumnsErrorMessage(t *testing.T) {
	err := &MissingColumnsError{Missing: []string{"DestLat", "DestLon", "endTime"}}

	want := "missing required columns: DestLat, DestLon, endTime"
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}

func TestRowErrorWrapsCause(t *testing.T) {
	cause := errors.New("parse endTime \"nonsense\"")
	re := &RowError{Row: 3, Stage: StageTransform, Err: cause}

	if !errors.Is(re, cause) {
		t.Fatal("RowError should unwrap to its cause")
	}

	want := `row 3: transform: parse endTime "nonsense"`
	if re.Error() != want {
		t.Fatalf("message = %q, want %q", re.Error(), want)
	}
}

func TestElementStatusErrorMessage(t *testing.T) {
	err := &ElementStatusError{Status: "ZERO_RESULTS"}

	if err.Error() != "element status ZERO_RESULTS" {
		t.Fatalf("message = %q", err.Error())
	}
}
