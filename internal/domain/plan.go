package domain

// Route is an ordered chain of edges from a source to a destination.
// It is empty when source and destination are the same location.
type Route struct {
	Source      Location
	Destination Location
	Objective   Objective
	Edges       []Edge
}

// Stops lists the locations visited by the route, source first.
func (r Route) Stops() []string {
	if len(r.Edges) == 0 {
		if r.Source.Key == "" {
			return []string{}
		}
		return []string{r.Source.Name}
	}
	out := make([]string, 0, len(r.Edges)+1)
	out = append(out, r.Edges[0].From.Name)
	for _, e := range r.Edges {
		out = append(out, e.To.Name)
	}
	return out
}

// Weight is the total edge weight of the route under an objective.
func (r Route) Weight(o Objective) float64 {
	total := 0.0
	for _, e := range r.Edges {
		total += e.Weight(o)
	}
	return total
}

// RouteSummary aggregates a route's edge attributes.
type RouteSummary struct {
	TotalDistanceKm float64
	TotalTimeHours  float64
	TotalFuelCost   float64
	SegmentCount    int
	Modes           []Mode
}

// LoadedVehicle is one vehicle selected for a leg together with its share of the goods.
type LoadedVehicle struct {
	Vehicle     Vehicle
	LoadKg      float64
	Departure   ClockTime
	Arrival     ClockTime
	TravelHours float64
	Cost        float64
}

// Solver names the algorithm that produced a vehicle selection.
type Solver string

const (
	SolverExact  Solver = "exact"
	SolverGreedy Solver = "greedy"
)

// VehicleAssignment is the vehicle plan for one leg.
type VehicleAssignment struct {
	Leg           Edge
	GoodsKg       float64
	Objective     Objective
	Vehicles      []LoadedVehicle
	LegDistanceKm float64
	LegTimeHours  float64
	LastArrival   ClockTime
	Solver        Solver
}

// TotalLoadKg is the weight carried by all selected vehicles.
func (a VehicleAssignment) TotalLoadKg() float64 {
	total := 0.0
	for _, v := range a.Vehicles {
		total += v.LoadKg
	}
	return total
}

// TotalCost is the running cost of all selected vehicles.
func (a VehicleAssignment) TotalCost() float64 {
	total := 0.0
	for _, v := range a.Vehicles {
		total += v.Cost
	}
	return total
}

// TransportPlan is the full multi-leg vehicle plan for a route.
type TransportPlan struct {
	Legs              []VehicleAssignment
	GoodsKg           float64
	Objective         Objective
	Stops             []string
	TotalDistanceKm   float64
	TotalTimeHours    float64
	TotalFuelCost     float64
	TotalVehicleCost  float64
	FinalDeliveryTime ClockTime
}
