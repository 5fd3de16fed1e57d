package domain

import "testing"

func TestNewVehiclePoolDerivesFields(t *testing.T) {
	pool, err := NewVehiclePool([]VehicleRow{
		{Home: "Mumbai", Type: "truck", CapacityKg: 5000, Departure: "06:30"},
		{Home: "Mumbai", Type: "Van", CapacityKg: 2000},
		{Home: "Delhi", Type: "plane", CapacityKg: 20000, Departure: "23:00"},
		{Home: " mumbai ", Type: "truck", CapacityKg: 4000},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := pool.Vehicles()
	wantIDs := []string{"MUM-TRU-01", "MUM-VAN-02", "DEL-PLA-01", "MUM-TRU-03"}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Fatalf("vehicle %d ID = %q, want %q", i, got[i].ID, id)
		}
	}

	if got[1].Departure.String() != "08:00" {
		t.Fatalf("default departure = %s, want 08:00", got[1].Departure)
	}
	if got[2].SpeedKmph != 900 || got[2].CostPerKm != 2.00 {
		t.Fatalf("plane spec = %v/%v, want 900/2.00", got[2].SpeedKmph, got[2].CostPerKm)
	}

	if n := len(pool.VehiclesAt("MUMBAI")); n != 3 {
		t.Fatalf("vehicles at Mumbai = %d, want 3", n)
	}
	if n := len(pool.VehiclesAt("Pune")); n != 0 {
		t.Fatalf("vehicles at Pune = %d, want 0", n)
	}

	homes := pool.Homes()
	if len(homes) != 2 || homes[0] != "delhi" || homes[1] != "mumbai" {
		t.Fatalf("homes = %v", homes)
	}
}

func TestNewVehiclePoolRejectsBadRows(t *testing.T) {
	cases := []struct {
		name string
		row  VehicleRow
	}{
		{"unknown type", VehicleRow{Home: "A", Type: "boat", CapacityKg: 1}},
		{"zero capacity", VehicleRow{Home: "A", Type: "van", CapacityKg: 0}},
		{"bad departure", VehicleRow{Home: "A", Type: "van", CapacityKg: 1, Departure: "8am"}},
		{"no home", VehicleRow{Home: "  ", Type: "van", CapacityKg: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewVehiclePool([]VehicleRow{tc.row}); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestVehicleSpecsIsACopy(t *testing.T) {
	specs := VehicleSpecs()
	specs[VehicleTruck] = VehicleSpec{}

	if VehicleSpecs()[VehicleTruck].SpeedKmph != 80 {
		t.Fatalf("spec table was mutated through the returned map")
	}
}
