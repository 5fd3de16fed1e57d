package distance

import (
	"context"
	"encoding/json"
	"fleet-plan-service/internal/domain"
	"fleet-plan-service/internal/ports"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type matrixValue struct {
	Value float64 `json:"value"`
}

type matrixElement struct {
	Status   string       `json:"status"`
	Distance *matrixValue `json:"distance"`
	Duration *matrixValue `json:"duration"`
}

type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []matrixElement `json:"elements"`
	} `json:"rows"`
}

func latLng(c domain.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// fetchMatrixRow retrieves driving distance and duration from one origin to
// up to 25 destinations. Results are index-aligned with destinations.
func (g *GoogleDistanceProvider) fetchMatrixRow(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) ([]ports.DistanceResult, error) {
	dests := make([]string, 0, len(destinations))
	for _, d := range destinations {
		dests = append(dests, latLng(d))
	}

	q := url.Values{}
	q.Set("origins", latLng(origin))
	q.Set("destinations", strings.Join(dests, "|"))
	q.Set("mode", "driving")
	q.Set("units", "metric")
	q.Set("key", g.apiKey)
	endpoint := g.baseURL + "?" + q.Encode()

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		return g.newRequest(ctx, endpoint)
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if mr.Status != "OK" {
		return nil, fmt.Errorf("matrix status %s: %s", mr.Status, mr.ErrorMessage)
	}
	if len(mr.Rows) != 1 {
		return nil, fmt.Errorf("expected 1 origin row; got %d", len(mr.Rows))
	}

	elements := mr.Rows[0].Elements
	if len(elements) != len(destinations) {
		return nil, fmt.Errorf("row length %d does not match %d destinations", len(elements), len(destinations))
	}

	out := make([]ports.DistanceResult, len(destinations))
	for i, el := range elements {
		if el.Status != "OK" || el.Distance == nil || el.Duration == nil {
			return nil, fmt.Errorf("no road route to %s: element status %s", latLng(destinations[i]), el.Status)
		}
		out[i] = ports.DistanceResult{
			DistanceMeters:  int(el.Distance.Value),
			DurationSeconds: int(el.Duration.Value),
		}
	}
	return out, nil
}
