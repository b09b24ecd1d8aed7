package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerAllReturnsSortedByID(t *testing.T) {
	m := NewManager()
	m.Add(New("car_3", TypeCar, []string{"A", "B"}, 0, 0))
	m.Add(New("car_1", TypeCar, []string{"A", "B"}, 0, 0))
	m.Add(New("car_2", TypeCar, []string{"A", "B"}, 0, 0))

	ids := make([]string, 0, 3)
	for _, v := range m.All() {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"car_1", "car_2", "car_3"}, ids)
}

func TestManagerGetAndRemove(t *testing.T) {
	m := NewManager()
	m.Add(New("car_1", TypeCar, []string{"A", "B"}, 0, 0))

	v, ok := m.Get("car_1")
	require.True(t, ok)
	assert.Equal(t, "car_1", v.ID)

	assert.True(t, m.Remove("car_1"))
	_, ok = m.Get("car_1")
	assert.False(t, ok)
	assert.False(t, m.Remove("car_1"), "removing twice reports not-found the second time")
}

func TestManagerActiveExcludesArrived(t *testing.T) {
	m := NewManager()
	v1 := New("car_1", TypeCar, []string{"A", "B"}, 0, 0)
	v2 := New("car_2", TypeCar, []string{"A", "B"}, 0, 0)
	v2.Status = StatusArrived
	m.Add(v1)
	m.Add(v2)

	active := m.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "car_1", active[0].ID)
	assert.Equal(t, 2, m.Count())
	assert.Equal(t, 1, m.ActiveCount())
}

func TestManagerStatsAggregatesByTypeAndStatus(t *testing.T) {
	m := NewManager()
	car := New("car_1", TypeCar, []string{"A", "B"}, 0, 0)
	car.Status = StatusMoving
	car.RerouteCount = 2
	bike := New("bike_1", TypeBicycle, []string{"A", "B"}, 0, 0)
	bike.Status = StatusStuck
	arrived := New("ped_1", TypePedestrian, []string{"A", "B"}, 0, 0)
	arrived.Status = StatusArrived

	m.Add(car)
	m.Add(bike)
	m.Add(arrived)

	stats := m.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Active) // moving + stuck
	assert.Equal(t, 1, stats.Arrived)
	assert.Equal(t, 1, stats.Stuck)
	assert.Equal(t, 2, stats.TotalReroute)
	assert.Equal(t, 1, stats.ByType[TypeCar])
	assert.Equal(t, 1, stats.ByType[TypeBicycle])
	assert.Equal(t, 1, stats.ByType[TypePedestrian])
}

func TestManagerResetClearsArena(t *testing.T) {
	m := NewManager()
	m.Add(New("car_1", TypeCar, []string{"A", "B"}, 0, 0))
	m.Reset()

	assert.Equal(t, 0, m.Count())
	assert.Empty(t, m.All())
}
