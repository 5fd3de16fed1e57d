package dto

import "time"

type VehicleRowRequest struct {
	Warehouse     string  `json:"warehouse"`
	VehicleType   string  `json:"vehicle_type"`
	CapacityKg    float64 `json:"capacity_kg"`
	DepartureTime string  `json:"departure_time"`
}

type LoadVehiclesRequest struct {
	Vehicles []VehicleRowRequest `json:"vehicles"`
}

type VehicleResponse struct {
	VehicleID     string  `json:"vehicle_id"`
	BaseCity      string  `json:"base_city"`
	VehicleType   string  `json:"vehicle_type"`
	CapacityKg    float64 `json:"capacity_kg"`
	SpeedKmph     float64 `json:"speed_kmph"`
	CostPerKm     float64 `json:"cost_per_km"`
	DepartureTime string  `json:"departure_time"`
}

type ListVehiclesResponse struct {
	Version  string            `json:"version"`
	LoadedAt *time.Time        `json:"loaded_at"`
	Count    int               `json:"count"`
	Vehicles []VehicleResponse `json:"vehicles"`
}

type VehicleSpecResponse struct {
	SpeedKmph float64 `json:"speed_kmph"`
	CostPerKm float64 `json:"cost_per_km"`
}
