// Package state holds the process-wide network and fleet snapshot.
package state

import (
	"fleet-plan-service/internal/domain"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Snapshot is an immutable view of the loaded network and fleet.
// Queries read one Snapshot and never observe a partial upload.
type Snapshot struct {
	Network        *domain.Network
	Pool           *domain.VehiclePool
	NetworkVersion string
	FleetVersion   string
	Country        string
	NetworkLoaded  time.Time
	FleetLoaded    time.Time
}

// Store swaps whole snapshots atomically. Writers are serialized; readers never block.
type Store struct {
	cur atomic.Pointer[Snapshot]
	mu  sync.Mutex
	now func() time.Time
}

func NewStore() *Store {
	s := &Store{now: time.Now}
	s.cur.Store(&Snapshot{})
	return s
}

// Current returns the latest snapshot. It is never nil.
func (s *Store) Current() *Snapshot {
	return s.cur.Load()
}

// ReplaceNetwork installs a new network and returns the resulting snapshot.
func (s *Store) ReplaceNetwork(net *domain.Network, country string) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.cur.Load()
	next.Network = net
	next.Country = country
	next.NetworkVersion = uuid.NewString()
	next.NetworkLoaded = s.now()

	s.cur.Store(&next)
	return &next
}

// ReplaceFleet installs a new vehicle pool and returns the resulting snapshot.
func (s *Store) ReplaceFleet(pool *domain.VehiclePool) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.cur.Load()
	next.Pool = pool
	next.FleetVersion = uuid.NewString()
	next.FleetLoaded = s.now()

	s.cur.Store(&next)
	return &next
}
