package distance

import (
	"context"
	"fleet-plan-service/internal/domain"
	"fleet-plan-service/internal/ports"
	"fmt"
)

type MockPair struct {
	From, To domain.Coordinates
	Meters   int
	Seconds  int
}

type MockDistanceProvider struct {
	m     map[string]ports.DistanceResult
	Calls int
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From.Key()+"|"+p.To.Key()] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) GetRoadDistance(ctx context.Context, from, to domain.Coordinates) (ports.DistanceResult, error) {
	p.Calls++
	r, ok := p.m[from.Key()+"|"+to.Key()]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %s -> %s", from.Key(), to.Key())
	}
	return r, nil
}
