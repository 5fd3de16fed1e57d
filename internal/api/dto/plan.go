package dto

// RouteRequest is a pre-resolved routing query.
type RouteRequest struct {
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Objective   string   `json:"objective"`
	Via         []string `json:"via"`
	OrderedVia  bool     `json:"ordered_via"`
}

// PlanRequest adds the shipment weight; goods_kg defaults to 1000 when omitted.
type PlanRequest struct {
	RouteRequest
	GoodsKg *float64 `json:"goods_kg"`
}

type RouteSummaryResponse struct {
	TotalDistanceKm float64  `json:"total_distance_km"`
	TotalTimeHours  float64  `json:"total_time_hours"`
	TotalFuelCost   float64  `json:"total_fuel_cost"`
	SegmentCount    int      `json:"segment_count"`
	Modes           []string `json:"modes"`
}

type RouteResponse struct {
	Source      string               `json:"source"`
	Destination string               `json:"destination"`
	Objective   string               `json:"objective"`
	Stops       []string             `json:"stops"`
	Legs        []EdgeResponse       `json:"legs"`
	Summary     RouteSummaryResponse `json:"summary"`
}

type AssignedVehicleResponse struct {
	VehicleID       string  `json:"vehicle_id"`
	VehicleType     string  `json:"vehicle_type"`
	LoadKg          float64 `json:"load_kg"`
	Departure       string  `json:"departure"`
	Arrival         string  `json:"arrival"`
	Distance        float64 `json:"distance"`
	TravelTimeHours float64 `json:"travel_time_hours"`
	Cost            float64 `json:"cost"`
}

type LegAssignmentResponse struct {
	FromCity    string                    `json:"from_city"`
	ToCity      string                    `json:"to_city"`
	Mode        string                    `json:"mode"`
	GoodsKg     float64                   `json:"goods_kg"`
	Objective   string                    `json:"objective"`
	Solver      string                    `json:"solver,omitempty"`
	Vehicles    []AssignedVehicleResponse `json:"vehicles"`
	LegDistance float64                   `json:"leg_distance"`
	LegTime     float64                   `json:"leg_time"`
	LastArrival *string                   `json:"last_arrival"`
}

type PlanResponse struct {
	Route             RouteResponse           `json:"route"`
	GoodsKg           float64                 `json:"goods_kg"`
	Objective         string                  `json:"objective"`
	Legs              []LegAssignmentResponse `json:"legs"`
	TotalDistanceKm   float64                 `json:"total_distance_km"`
	TotalTimeHours    float64                 `json:"total_time_hours"`
	TotalFuelCost     float64                 `json:"total_fuel_cost"`
	TotalVehicleCost  float64                 `json:"total_vehicle_cost"`
	FinalDeliveryTime *string                 `json:"final_delivery_time"`
	Cached            bool                    `json:"cached"`
}

type LegRequest struct {
	FromCity string   `json:"from_city"`
	ToCity   string   `json:"to_city"`
	Mode     string   `json:"mode"`
	Distance float64  `json:"distance"`
	Time     float64  `json:"time"`
	FuelCost *float64 `json:"fuel_cost"`
}

type AssignLegsRequest struct {
	Legs      []LegRequest `json:"legs"`
	GoodsKg   float64      `json:"goods_kg"`
	Objective string       `json:"objective"`
}

// LegOutcomeResponse carries either an assignment or the reason the leg failed.
type LegOutcomeResponse struct {
	Index      int                    `json:"index"`
	FromCity   string                 `json:"from_city"`
	ToCity     string                 `json:"to_city"`
	Assignment *LegAssignmentResponse `json:"assignment,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

type AssignLegsResponse struct {
	TotalLegs             int                  `json:"total_legs"`
	AssignmentsSuccessful int                  `json:"assignments_successful"`
	Assignments           []LegOutcomeResponse `json:"assignments"`
}
