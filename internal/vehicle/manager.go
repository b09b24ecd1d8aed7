package vehicle

import "sort"

// Manager is the id-keyed arena of all vehicles, live and arrived, in the
// current simulation. It owns no occupancy or graph state — those live in
// their own packages and are updated by the engine alongside Manager
// mutations.
type Manager struct {
	vehicles map[string]*Vehicle
	order    []string // sorted vehicle ids, rebuilt lazily on insert
	dirty    bool

	spawned int
	removed int
}

// NewManager constructs an empty vehicle arena.
func NewManager() *Manager {
	return &Manager{vehicles: make(map[string]*Vehicle)}
}

// Add inserts a new vehicle into the arena.
func (m *Manager) Add(v *Vehicle) {
	m.vehicles[v.ID] = v
	m.order = append(m.order, v.ID)
	m.dirty = true
	m.spawned++
}

// Get returns a vehicle by id.
func (m *Manager) Get(id string) (*Vehicle, bool) {
	v, ok := m.vehicles[id]
	return v, ok
}

// Remove deletes a vehicle from the arena.
func (m *Manager) Remove(id string) bool {
	if _, ok := m.vehicles[id]; !ok {
		return false
	}
	delete(m.vehicles, id)
	m.dirty = true
	m.removed++
	return true
}

// All returns every vehicle, sorted by id. Deterministic replay requires
// this ordering for every per-tick iteration.
func (m *Manager) All() []*Vehicle {
	m.ensureSorted()
	out := make([]*Vehicle, 0, len(m.order))
	for _, id := range m.order {
		if v, ok := m.vehicles[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Active returns every vehicle whose Status is not arrived, sorted by id.
func (m *Manager) Active() []*Vehicle {
	all := m.All()
	out := make([]*Vehicle, 0, len(all))
	for _, v := range all {
		if !v.IsArrived() {
			out = append(out, v)
		}
	}
	return out
}

// Count returns the number of vehicles currently held (including arrived,
// unless removed).
func (m *Manager) Count() int { return len(m.vehicles) }

// ActiveCount returns the number of non-arrived vehicles.
func (m *Manager) ActiveCount() int {
	n := 0
	for _, v := range m.vehicles {
		if !v.IsArrived() {
			n++
		}
	}
	return n
}

// Spawned returns the total number of vehicles ever added to the arena.
func (m *Manager) Spawned() int { return m.spawned }

// Removed returns the total number of vehicles ever removed from the arena.
func (m *Manager) Removed() int { return m.removed }

// Reset clears the entire arena.
func (m *Manager) Reset() {
	m.vehicles = make(map[string]*Vehicle)
	m.order = nil
	m.dirty = false
	m.spawned = 0
	m.removed = 0
}

func (m *Manager) ensureSorted() {
	if !m.dirty {
		return
	}
	ids := make([]string, 0, len(m.vehicles))
	for id := range m.vehicles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	m.order = ids
	m.dirty = false
}

// Statistics is a snapshot of aggregate vehicle counts and timing,
// get_vehicle_stats.
type Statistics struct {
	Total        int          `json:"total_vehicles"`
	Active       int          `json:"active_vehicles"`
	Arrived      int          `json:"arrived_vehicles"`
	Stuck        int          `json:"stuck_vehicles"`
	TotalReroute int          `json:"total_reroutes"`
	ByType       map[Type]int `json:"by_type"`

	// AverageTravelTicks is the mean (arrival_tick - spawn_tick) over
	// arrived vehicles only; 0 if none have arrived.
	AverageTravelTicks float64 `json:"average_travel_ticks"`

	// AverageWaitTicks is the mean accumulated WaitTicks over every
	// vehicle the arena holds, arrived or not.
	AverageWaitTicks float64 `json:"average_wait_ticks"`
}

// Stats computes the current aggregate vehicle statistics.
func (m *Manager) Stats() Statistics {
	s := Statistics{ByType: map[Type]int{TypeCar: 0, TypeBicycle: 0, TypePedestrian: 0}}
	var travelSum float64
	var travelCount int
	var waitSum float64
	for _, v := range m.vehicles {
		s.Total++
		s.ByType[v.Type]++
		s.TotalReroute += v.RerouteCount
		waitSum += float64(v.WaitTicks)
		switch v.Status {
		case StatusArrived:
			s.Arrived++
			if v.ArrivalTick != nil {
				travelSum += float64(*v.ArrivalTick - v.SpawnTick)
				travelCount++
			}
		case StatusStuck:
			s.Stuck++
			s.Active++
		default:
			s.Active++
		}
	}
	if travelCount > 0 {
		s.AverageTravelTicks = travelSum / float64(travelCount)
	}
	if s.Total > 0 {
		s.AverageWaitTicks = waitSum / float64(s.Total)
	}
	return s
}
