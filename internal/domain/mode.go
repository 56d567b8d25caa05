package domain

import "fmt"

// Travel mode accepted by the matrix service.
type Mode string

const (
	ModeDriving   Mode = "driving"
	ModeWalking   Mode = "walking"
	ModeBicycling Mode = "bicycling"
	ModeTransit   Mode = "transit"
)

func (m Mode) String() string { return string(m) }

// ParseMode validates a user-supplied travel mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDriving, ModeWalking, ModeBicycling, ModeTransit:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown travel mode %q", s)
}
