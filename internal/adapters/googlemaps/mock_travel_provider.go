package googlemaps

import (
	"context"
	"fmt"

	"travel-matrix-service/internal/ports"
)

// MockTravelProvider serves canned elements keyed by origin/destination and
// records the order of lookups it receives.
type MockTravelProvider struct {
	elements map[string]*ports.TravelElement
	errs     map[string]error
	Calls    []ports.TravelQuery
}

func NewMockTravelProvider() *MockTravelProvider {
	return &MockTravelProvider{
		elements: make(map[string]*ports.TravelElement),
		errs:     make(map[string]error),
	}
}

func (p *MockTravelProvider) SetElement(origin, destination string, el *ports.TravelElement) {
	p.elements[origin+"|"+destination] = el
}

func (p *MockTravelProvider) SetError(origin, destination string, err error) {
	p.errs[origin+"|"+destination] = err
}

func (p *MockTravelProvider) FetchTravel(ctx context.Context, q ports.TravelQuery) (*ports.TravelElement, error) {
	p.Calls = append(p.Calls, q)

	key := q.Origin + "|" + q.Destination
	if err, ok := p.errs[key]; ok {
		return nil, err
	}
	el, ok := p.elements[key]
	if !ok {
		return nil, fmt.Errorf("missing pair %q -> %q", q.Origin, q.Destination)
	}

	return el, nil
}
