package domain

import "strings"

// Objective is the quantity minimized by an optimizer.
type Objective string

const (
	ObjectiveCost     Objective = "cost"
	ObjectiveTime     Objective = "time"
	ObjectiveDistance Objective = "distance"
)

// ParseRouteObjective accepts cost, time and distance. "fastest" is kept as an
// alias of time for callers built against the older query parser.
func ParseRouteObjective(token string) (Objective, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "cost":
		return ObjectiveCost, nil
	case "time", "fastest":
		return ObjectiveTime, nil
	case "distance":
		return ObjectiveDistance, nil
	}
	return "", &InvalidObjectiveError{Token: token, Allowed: []Objective{ObjectiveCost, ObjectiveTime, ObjectiveDistance}}
}

// ParseAssignmentObjective accepts cost and time only; distance has no
// vehicle-assignment analogue.
func ParseAssignmentObjective(token string) (Objective, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "cost":
		return ObjectiveCost, nil
	case "time", "fastest":
		return ObjectiveTime, nil
	}
	return "", &InvalidObjectiveError{Token: token, Allowed: []Objective{ObjectiveCost, ObjectiveTime}}
}

// AssignmentObjective maps a routing objective onto the capacity optimizer.
// Distance-optimal routes are staffed by the cheapest vehicles.
func (o Objective) AssignmentObjective() Objective {
	if o == ObjectiveTime {
		return ObjectiveTime
	}
	return ObjectiveCost
}
