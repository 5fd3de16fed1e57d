package handlers

import (
	"fleet-plan-service/internal/api/dto"
	"fleet-plan-service/internal/domain"
	"fleet-plan-service/internal/platform/obs"
	"fleet-plan-service/internal/state"
	"net/http"
)

// VehicleHandler replaces and lists the process-wide vehicle pool.
type VehicleHandler struct {
	Store   *state.Store
	Metrics *obs.Collector
}

func (h *VehicleHandler) Vehicles(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, http.MethodPut) {
		return
	}
	if r.Method == http.MethodPut {
		h.load(w, r)
		return
	}

	snap := h.Store.Current()
	if snap.Pool == nil {
		writeDomainError(w, r, "list vehicles", domain.ErrFleetNotLoaded)
		return
	}
	writeJSON(w, r, http.StatusOK, vehiclesResponse(snap))
}

func (h *VehicleHandler) load(w http.ResponseWriter, r *http.Request) {
	var req dto.LoadVehiclesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Vehicles) == 0 {
		writeError(w, r, http.StatusBadRequest, "vehicles must not be empty")
		return
	}

	rows := make([]domain.VehicleRow, 0, len(req.Vehicles))
	for _, v := range req.Vehicles {
		rows = append(rows, domain.VehicleRow{
			Home:       v.Warehouse,
			Type:       v.VehicleType,
			CapacityKg: v.CapacityKg,
			Departure:  v.DepartureTime,
		})
	}

	pool, err := domain.NewVehiclePool(rows)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	snap := h.Store.ReplaceFleet(pool)
	h.Metrics.SetFleetSize(pool.Len())

	writeJSON(w, r, http.StatusOK, vehiclesResponse(snap))
}

// Specs lists the speed and per-km cost of each vehicle type.
func (h *VehicleHandler) Specs(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	res := make(map[string]dto.VehicleSpecResponse)
	for t, s := range domain.VehicleSpecs() {
		res[string(t)] = dto.VehicleSpecResponse{SpeedKmph: s.SpeedKmph, CostPerKm: s.CostPerKm}
	}
	writeJSON(w, r, http.StatusOK, res)
}

func vehiclesResponse(snap *state.Snapshot) dto.ListVehiclesResponse {
	vehicles := snap.Pool.Vehicles()
	res := dto.ListVehiclesResponse{
		Version:  snap.FleetVersion,
		LoadedAt: &snap.FleetLoaded,
		Count:    len(vehicles),
		Vehicles: make([]dto.VehicleResponse, 0, len(vehicles)),
	}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, vehicleResponse(v))
	}
	return res
}
