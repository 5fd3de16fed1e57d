package handlers

import (
	"fleet-plan-service/internal/api/dto"
	"fleet-plan-service/internal/domain"
	"fleet-plan-service/internal/services"
	"fleet-plan-service/internal/state"
	"net/http"
	"strings"
)

type PlanHandler struct {
	Store   *state.Store
	Planner *services.Planner
}

// Route computes the optimal route for a query without assigning vehicles.
func (h *PlanHandler) Route(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	q, err := routeQuery(req)
	if err != nil {
		writeDomainError(w, r, "route", err)
		return
	}

	res, err := h.Planner.PlanRoute(r.Context(), h.Store.Current(), q)
	if err != nil {
		writeDomainError(w, r, "route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, routeResponse(res.Route, res.Summary))
}

// Plan routes a shipment and assigns vehicles to every leg.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	q, err := routeQuery(req.RouteRequest)
	if err != nil {
		writeDomainError(w, r, "plan", err)
		return
	}

	res, err := h.Planner.PlanShipment(r.Context(), h.Store.Current(), services.ShipmentQuery{
		Route:   q,
		GoodsKg: req.GoodsKg,
	})
	if err != nil {
		writeDomainError(w, r, "plan", err)
		return
	}

	writeJSON(w, r, http.StatusOK, planResponse(res))
}

// AssignLegs staffs a batch of caller-supplied legs and reports each outcome.
func (h *PlanHandler) AssignLegs(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.AssignLegsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Legs) == 0 {
		writeError(w, r, http.StatusBadRequest, "legs must not be empty")
		return
	}

	objective := domain.ObjectiveCost
	if strings.TrimSpace(req.Objective) != "" {
		o, err := domain.ParseAssignmentObjective(req.Objective)
		if err != nil {
			writeDomainError(w, r, "assign legs", err)
			return
		}
		objective = o
	}

	legs := make([]domain.Edge, 0, len(req.Legs))
	for _, l := range req.Legs {
		e, err := legEdge(l)
		if err != nil {
			writeDomainError(w, r, "assign legs", err)
			return
		}
		legs = append(legs, e)
	}

	outcomes, err := h.Planner.AssignLegs(r.Context(), h.Store.Current(), legs, req.GoodsKg, objective)
	if err != nil {
		writeDomainError(w, r, "assign legs", err)
		return
	}

	res := dto.AssignLegsResponse{
		TotalLegs:   len(outcomes),
		Assignments: make([]dto.LegOutcomeResponse, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		out := dto.LegOutcomeResponse{Index: o.Index, FromCity: o.Leg.From.Name, ToCity: o.Leg.To.Name}
		if o.Err != nil {
			out.Error = o.Err.Error()
		} else {
			a := assignmentResponse(*o.Assignment)
			out.Assignment = &a
			res.AssignmentsSuccessful++
		}
		res.Assignments = append(res.Assignments, out)
	}

	writeJSON(w, r, http.StatusOK, res)
}

func routeQuery(req dto.RouteRequest) (services.RouteQuery, error) {
	if strings.TrimSpace(req.Source) == "" {
		return services.RouteQuery{}, &domain.InvalidInputError{Field: "source", Reason: "is required"}
	}
	if strings.TrimSpace(req.Destination) == "" {
		return services.RouteQuery{}, &domain.InvalidInputError{Field: "destination", Reason: "is required"}
	}

	objective := domain.ObjectiveCost
	if strings.TrimSpace(req.Objective) != "" {
		o, err := domain.ParseRouteObjective(req.Objective)
		if err != nil {
			return services.RouteQuery{}, err
		}
		objective = o
	}

	return services.RouteQuery{
		Source:           req.Source,
		Destination:      req.Destination,
		Objective:        objective,
		Waypoints:        req.Via,
		OrderedWaypoints: req.OrderedVia,
	}, nil
}

func legEdge(l dto.LegRequest) (domain.Edge, error) {
	if strings.TrimSpace(l.FromCity) == "" || strings.TrimSpace(l.ToCity) == "" {
		return domain.Edge{}, &domain.InvalidInputError{Field: "legs", Reason: "from_city and to_city are required"}
	}
	if l.Distance < 0 || l.Time < 0 {
		return domain.Edge{}, &domain.InvalidInputError{Field: "legs", Reason: "distance and time must be non-negative"}
	}

	mode := domain.ModeRoad
	if strings.TrimSpace(l.Mode) != "" {
		m, err := domain.ParseMode(l.Mode)
		if err != nil {
			return domain.Edge{}, &domain.InvalidInputError{Field: "mode", Reason: err.Error()}
		}
		mode = m
	}

	e := domain.Edge{
		From:       domain.NewLocation(l.FromCity, nil),
		To:         domain.NewLocation(l.ToCity, nil),
		Mode:       mode,
		DistanceKm: l.Distance,
		TimeHours:  l.Time,
	}
	if l.FuelCost != nil {
		e.FuelCost = *l.FuelCost
	}
	return e, nil
}
