package handlers

import (
	"fleet-plan-service/internal/api/dto"
	"fleet-plan-service/internal/domain"
	"fleet-plan-service/internal/platform/obs"
	"fleet-plan-service/internal/services"
	"fleet-plan-service/internal/state"
	"fmt"
	"net/http"
	"strings"
)

// NetworkHandler replaces and describes the process-wide transport network.
type NetworkHandler struct {
	Store     *state.Store
	Distances services.RoadDistances
	Fuel      services.FuelPrices
	Metrics   *obs.Collector
}

func (h *NetworkHandler) Network(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, http.MethodPut) {
		return
	}
	if r.Method == http.MethodPut {
		h.load(w, r)
		return
	}

	snap := h.Store.Current()
	if snap.Network == nil {
		writeDomainError(w, r, "get network", domain.ErrNetworkNotLoaded)
		return
	}
	writeJSON(w, r, http.StatusOK, networkResponse(snap, r.URL.Query().Get("edges") == "true"))
}

// load builds a network from the uploaded rows and swaps it in. Road rows
// without a distance are measured through the road distance provider first.
func (h *NetworkHandler) load(w http.ResponseWriter, r *http.Request) {
	var req dto.LoadNetworkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Edges) == 0 {
		writeError(w, r, http.StatusBadRequest, "edges must not be empty")
		return
	}

	rows := make([]services.EdgeRow, 0, len(req.Edges))
	for i, e := range req.Edges {
		row, err := edgeRow(e)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("edge #%d: %v", i+1, err))
			return
		}
		rows = append(rows, row)
	}

	rows, err := h.Distances.FillEdgeRows(r.Context(), rows)
	if err != nil {
		writeDomainError(w, r, "fill road distances", err)
		return
	}

	country := strings.ToUpper(strings.TrimSpace(req.Country))
	net, err := services.BuildNetwork(rows, h.Fuel, country)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	snap := h.Store.ReplaceNetwork(net, country)
	h.Metrics.SetNetworkSize(net.LocationCount(), net.EdgeCount())

	writeJSON(w, r, http.StatusOK, networkResponse(snap, false))
}

func edgeRow(e dto.EdgeRowRequest) (services.EdgeRow, error) {
	if strings.TrimSpace(e.Source) == "" || strings.TrimSpace(e.Destination) == "" {
		return services.EdgeRow{}, fmt.Errorf("source and destination are required")
	}
	from, err := point(e.LatSrc, e.LonSrc)
	if err != nil {
		return services.EdgeRow{}, fmt.Errorf("source coordinates: %w", err)
	}
	to, err := point(e.LatDst, e.LonDst)
	if err != nil {
		return services.EdgeRow{}, fmt.Errorf("destination coordinates: %w", err)
	}

	return services.EdgeRow{
		From:       e.Source,
		To:         e.Destination,
		Mode:       e.Mode,
		FromCoord:  from,
		ToCoord:    to,
		DistanceKm: e.DistanceKm,
		TimeHours:  e.TimeHours,
		FuelCost:   e.FuelCost,
		Geometry:   e.Geometry,
	}, nil
}

// point returns nil when neither coordinate is set.
func point(lat, lon *float64) (*domain.Coordinates, error) {
	switch {
	case lat == nil && lon == nil:
		return nil, nil
	case lat == nil || lon == nil:
		return nil, fmt.Errorf("lat and lon must be given together")
	case *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180:
		return nil, fmt.Errorf("lat/lon out of range")
	}
	return &domain.Coordinates{Lat: *lat, Lon: *lon}, nil
}

func networkResponse(snap *state.Snapshot, withEdges bool) dto.NetworkResponse {
	net := snap.Network
	locs := net.Locations()

	res := dto.NetworkResponse{
		Version:       snap.NetworkVersion,
		Country:       snap.Country,
		LoadedAt:      &snap.NetworkLoaded,
		LocationCount: net.LocationCount(),
		EdgeCount:     net.EdgeCount(),
		Locations:     make([]dto.LocationResponse, 0, len(locs)),
	}
	for _, l := range locs {
		res.Locations = append(res.Locations, locationResponse(l))
	}
	if withEdges {
		for _, e := range net.Edges() {
			res.Edges = append(res.Edges, edgeResponse(e))
		}
	}
	return res
}
