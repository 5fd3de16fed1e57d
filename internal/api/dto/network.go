package dto

import "time"

// EdgeRowRequest is one row of an air or road route table. Coordinates
// are optional when distance_km is given.
type EdgeRowRequest struct {
	Source      string       `json:"source"`
	Destination string       `json:"destination"`
	Mode        string       `json:"mode"`
	LatSrc      *float64     `json:"lat_src"`
	LonSrc      *float64     `json:"lon_src"`
	LatDst      *float64     `json:"lat_dst"`
	LonDst      *float64     `json:"lon_dst"`
	DistanceKm  *float64     `json:"distance_km"`
	TimeHours   *float64     `json:"time_hours"`
	FuelCost    *float64     `json:"fuel_cost"`
	Geometry    [][2]float64 `json:"geometry,omitempty"`
}

type LoadNetworkRequest struct {
	Country string           `json:"country"`
	Edges   []EdgeRowRequest `json:"edges"`
}

type LocationResponse struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
}

type EdgeResponse struct {
	Source      string       `json:"source"`
	Destination string       `json:"destination"`
	Mode        string       `json:"mode"`
	DistanceKm  float64      `json:"distance_km"`
	TimeHours   float64      `json:"time_hours"`
	FuelCost    float64      `json:"fuel_cost"`
	Geometry    [][2]float64 `json:"geometry,omitempty"`
}

type NetworkResponse struct {
	Version       string             `json:"version"`
	Country       string             `json:"country"`
	LoadedAt      *time.Time         `json:"loaded_at"`
	LocationCount int                `json:"location_count"`
	EdgeCount     int                `json:"edge_count"`
	Locations     []LocationResponse `json:"locations"`
	Edges         []EdgeResponse     `json:"edges,omitempty"`
}
