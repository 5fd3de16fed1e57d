package handlers

import (
	"fleet-plan-service/internal/api/dto"
	"fleet-plan-service/internal/services"
	"net/http"
)

type DistanceHandler struct {
	Distances services.RoadDistances
}

// RoadDistance measures the driving distance between two points, falling
// back to a great-circle estimate when the provider cannot answer.
func (h *DistanceHandler) RoadDistance(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.RoadDistanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	from, err := point(req.From.Lat, req.From.Lon)
	if err != nil || from == nil {
		writeError(w, r, http.StatusBadRequest, "from requires lat and lon in range")
		return
	}
	to, err := point(req.To.Lat, req.To.Lon)
	if err != nil || to == nil {
		writeError(w, r, http.StatusBadRequest, "to requires lat and lon in range")
		return
	}

	d, err := h.Distances.Lookup(r.Context(), *from, *to)
	if err != nil {
		writeDomainError(w, r, "road distance", err)
		return
	}

	status := "success"
	if d.Estimated {
		status = "fallback"
	}
	writeJSON(w, r, http.StatusOK, dto.RoadDistanceResponse{
		Status:        status,
		DistanceKm:    d.DistanceKm,
		DurationHours: d.DurationHours,
	})
}
