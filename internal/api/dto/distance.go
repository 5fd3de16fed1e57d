package dto

type PointRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type RoadDistanceRequest struct {
	From PointRequest `json:"from"`
	To   PointRequest `json:"to"`
}

// RoadDistanceResponse reports status "success" for provider answers and
// "fallback" for great-circle estimates.
type RoadDistanceResponse struct {
	Status        string  `json:"status"`
	DistanceKm    float64 `json:"distance_km"`
	DurationHours float64 `json:"duration_hours"`
}
