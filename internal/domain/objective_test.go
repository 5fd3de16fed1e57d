package domain

import (
	"errors"
	"testing"
)

func TestParseObjectives(t *testing.T) {
	cases := []struct {
		token      string
		route      Objective
		assignment Objective
		assignErr  bool
	}{
		{"cost", ObjectiveCost, ObjectiveCost, false},
		{" TIME ", ObjectiveTime, ObjectiveTime, false},
		{"fastest", ObjectiveTime, ObjectiveTime, false},
		{"distance", ObjectiveDistance, "", true},
	}

	for _, tc := range cases {
		got, err := ParseRouteObjective(tc.token)
		if err != nil || got != tc.route {
			t.Fatalf("ParseRouteObjective(%q) = %q, %v", tc.token, got, err)
		}

		got, err = ParseAssignmentObjective(tc.token)
		if tc.assignErr {
			var invalid *InvalidObjectiveError
			if !errors.As(err, &invalid) {
				t.Fatalf("ParseAssignmentObjective(%q) err = %v, want InvalidObjectiveError", tc.token, err)
			}
			continue
		}
		if err != nil || got != tc.assignment {
			t.Fatalf("ParseAssignmentObjective(%q) = %q, %v", tc.token, got, err)
		}
	}

	if _, err := ParseRouteObjective("cheapest"); err == nil {
		t.Fatalf("expected error for unknown token")
	}
}
