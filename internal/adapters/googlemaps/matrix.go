package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"travel-matrix-service/internal/platform/obs"
	"travel-matrix-service/internal/ports"
)

// Wire format of the Distance Matrix endpoint. Optional metrics stay
// pointers so absence is distinguishable from a zero value.
type metricValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

type elementResponse struct {
	Status            string       `json:"status"`
	Distance          *metricValue `json:"distance"`
	Duration          *metricValue `json:"duration"`
	DurationInTraffic *metricValue `json:"duration_in_traffic"`
}

type rowResponse struct {
	Elements []elementResponse `json:"elements"`
}

type matrixResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Rows         []rowResponse `json:"rows"`
}

// FetchTravel issues one origin->destination lookup and returns the single
// response element. A non-OK top-level status (bad key, quota, malformed
// request) is an error; a non-OK element status is not, the caller decides.
func (c *Client) FetchTravel(
	ctx context.Context,
	q ports.TravelQuery,
) (_ *ports.TravelElement, err error) {
	defer obs.Time(ctx, "googlemaps.FetchTravel")(&err)

	params := url.Values{}
	params.Set("origins", q.Origin)
	params.Set("destinations", q.Destination)
	params.Set("mode", q.Mode.String())
	params.Set("departure_time", strconv.FormatInt(q.DepartureTime.Unix(), 10))
	params.Set("key", c.apiKey)

	endpoint := fmt.Sprintf("%s/maps/api/distancematrix/json?%s", c.baseURL, params.Encode())

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, endpoint)
	})
	if err != nil {
		return nil, fmt.Errorf("distance matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode distance matrix response: %w", err)
	}

	if mr.Status != ports.StatusOK {
		if mr.ErrorMessage != "" {
			return nil, fmt.Errorf("distance matrix status %s: %s", mr.Status, mr.ErrorMessage)
		}
		return nil, fmt.Errorf("distance matrix status %s", mr.Status)
	}

	if len(mr.Rows) != 1 || len(mr.Rows[0].Elements) != 1 {
		return nil, fmt.Errorf(
			"expected 1 row with 1 element; got rows=%d",
			len(mr.Rows),
		)
	}

	el := mr.Rows[0].Elements[0]

	out := &ports.TravelElement{Status: el.Status}
	if el.Distance != nil {
		out.Distance = &ports.TravelMetric{Text: el.Distance.Text, Value: el.Distance.Value}
	}
	if el.Duration != nil {
		out.Duration = &ports.TravelMetric{Text: el.Duration.Text, Value: el.Duration.Value}
	}
	if el.DurationInTraffic != nil {
		out.DurationInTraffic = &ports.TravelMetric{Text: el.DurationInTraffic.Text, Value: el.DurationInTraffic.Value}
	}

	return out, nil
}
