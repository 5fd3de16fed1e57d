package handlers

import (
	"fleet-plan-service/internal/api/dto"
	"fleet-plan-service/internal/domain"
	"fleet-plan-service/internal/services"
)

func clockPtr(c domain.ClockTime) *string {
	if !c.IsSet() {
		return nil
	}
	s := c.String()
	return &s
}

func edgeResponse(e domain.Edge) dto.EdgeResponse {
	return dto.EdgeResponse{
		Source:      e.From.Name,
		Destination: e.To.Name,
		Mode:        string(e.Mode),
		DistanceKm:  round2(e.DistanceKm),
		TimeHours:   round2(e.TimeHours),
		FuelCost:    round2(e.FuelCost),
		Geometry:    e.Geometry,
	}
}

func routeResponse(route domain.Route, summary domain.RouteSummary) dto.RouteResponse {
	legs := make([]dto.EdgeResponse, 0, len(route.Edges))
	for _, e := range route.Edges {
		legs = append(legs, edgeResponse(e))
	}
	modes := make([]string, 0, len(summary.Modes))
	for _, m := range summary.Modes {
		modes = append(modes, string(m))
	}

	return dto.RouteResponse{
		Source:      route.Source.Name,
		Destination: route.Destination.Name,
		Objective:   string(route.Objective),
		Stops:       route.Stops(),
		Legs:        legs,
		Summary: dto.RouteSummaryResponse{
			TotalDistanceKm: summary.TotalDistanceKm,
			TotalTimeHours:  summary.TotalTimeHours,
			TotalFuelCost:   summary.TotalFuelCost,
			SegmentCount:    summary.SegmentCount,
			Modes:           modes,
		},
	}
}

func assignmentResponse(a domain.VehicleAssignment) dto.LegAssignmentResponse {
	vehicles := make([]dto.AssignedVehicleResponse, 0, len(a.Vehicles))
	for _, lv := range a.Vehicles {
		vehicles = append(vehicles, dto.AssignedVehicleResponse{
			VehicleID:       lv.Vehicle.ID,
			VehicleType:     string(lv.Vehicle.Type),
			LoadKg:          round2(lv.LoadKg),
			Departure:       lv.Departure.String(),
			Arrival:         lv.Arrival.String(),
			Distance:        round2(a.LegDistanceKm),
			TravelTimeHours: round2(lv.TravelHours),
			Cost:            round2(lv.Cost),
		})
	}

	return dto.LegAssignmentResponse{
		FromCity:    a.Leg.From.Name,
		ToCity:      a.Leg.To.Name,
		Mode:        string(a.Leg.Mode),
		GoodsKg:     a.GoodsKg,
		Objective:   string(a.Objective),
		Solver:      string(a.Solver),
		Vehicles:    vehicles,
		LegDistance: round2(a.LegDistanceKm),
		LegTime:     round2(a.LegTimeHours),
		LastArrival: clockPtr(a.LastArrival),
	}
}

func planResponse(res services.ShipmentResult) dto.PlanResponse {
	plan := res.Plan
	legs := make([]dto.LegAssignmentResponse, 0, len(plan.Legs))
	for _, a := range plan.Legs {
		legs = append(legs, assignmentResponse(a))
	}

	return dto.PlanResponse{
		Route:             routeResponse(res.Route, res.Summary),
		GoodsKg:           plan.GoodsKg,
		Objective:         string(plan.Objective),
		Legs:              legs,
		TotalDistanceKm:   round2(plan.TotalDistanceKm),
		TotalTimeHours:    round2(plan.TotalTimeHours),
		TotalFuelCost:     round2(plan.TotalFuelCost),
		TotalVehicleCost:  round2(plan.TotalVehicleCost),
		FinalDeliveryTime: clockPtr(plan.FinalDeliveryTime),
		Cached:            res.Cached,
	}
}

func vehicleResponse(v domain.Vehicle) dto.VehicleResponse {
	return dto.VehicleResponse{
		VehicleID:     v.ID,
		BaseCity:      v.Home.Name,
		VehicleType:   string(v.Type),
		CapacityKg:    v.CapacityKg,
		SpeedKmph:     v.SpeedKmph,
		CostPerKm:     v.CostPerKm,
		DepartureTime: v.Departure.String(),
	}
}

func locationResponse(l domain.Location) dto.LocationResponse {
	res := dto.LocationResponse{Name: l.Name}
	if l.Coord != nil {
		lat, lon := l.Coord.Lat, l.Coord.Lon
		res.Lat, res.Lon = &lat, &lon
	}
	return res
}
