package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewVehicleStartsWaitingAtPathHead(t *testing.T) {
	v := New("car_1", TypeCar, []string{"A", "B", "C"}, 42, 7)

	assert.Equal(t, StatusWaiting, v.Status)
	assert.Equal(t, "A", v.CurrentNode())
	assert.Equal(t, "A", v.Start)
	assert.Equal(t, "C", v.Goal)
	assert.Equal(t, 0.0, v.CurrentSpeed)
	assert.Equal(t, int64(7), v.SpawnTick)
	assert.Equal(t, 42.0, v.PathCost)
}

func TestNextNodeAndEdgeKey(t *testing.T) {
	v := New("car_1", TypeCar, []string{"A", "B", "C"}, 10, 0)

	next, ok := v.NextNode()
	assert.True(t, ok)
	assert.Equal(t, "B", next)

	key, ok := v.EdgeKey()
	assert.True(t, ok)
	assert.Equal(t, "A,B", key)
}

func TestNextNodeFalseAtPathEnd(t *testing.T) {
	v := New("car_1", TypeCar, []string{"A", "B"}, 10, 0)
	v.PathIndex = 1

	_, ok := v.NextNode()
	assert.False(t, ok)

	_, ok = v.EdgeKey()
	assert.False(t, ok)
}

func TestIsActiveAndIsArrived(t *testing.T) {
	v := New("car_1", TypeCar, []string{"A", "B"}, 10, 0)
	for _, s := range []Status{StatusWaiting, StatusMoving, StatusStuck, StatusRerouting} {
		v.Status = s
		assert.True(t, v.IsActive())
		assert.False(t, v.IsArrived())
	}
	v.Status = StatusArrived
	assert.False(t, v.IsActive())
	assert.True(t, v.IsArrived())
}

func TestIsOnEdgeExcludesWaitingAndArrived(t *testing.T) {
	v := New("car_1", TypeCar, []string{"A", "B"}, 10, 0)

	v.Status = StatusWaiting
	assert.False(t, v.IsOnEdge(), "not yet admitted onto an edge")

	for _, s := range []Status{StatusMoving, StatusStuck, StatusRerouting} {
		v.Status = s
		assert.True(t, v.IsOnEdge(), "status %s", s)
	}

	v.Status = StatusArrived
	assert.False(t, v.IsOnEdge(), "occupancy already released on arrival")
}

func TestWeightMatchesCapacityTable(t *testing.T) {
	car := New("c", TypeCar, []string{"A", "B"}, 0, 0)
	bike := New("b", TypeBicycle, []string{"A", "B"}, 0, 0)
	ped := New("p", TypePedestrian, []string{"A", "B"}, 0, 0)

	assert.Equal(t, 1.0, car.Weight())
	assert.Equal(t, 0.5, bike.Weight())
	assert.Equal(t, 0.2, ped.Weight())
}

func TestRemainingPath(t *testing.T) {
	v := New("c", TypeCar, []string{"A", "B", "C", "D"}, 0, 0)
	v.PathIndex = 1
	assert.Equal(t, []string{"B", "C", "D"}, v.RemainingPath())
}

func TestSetPathResetsIndexAndCost(t *testing.T) {
	v := New("c", TypeCar, []string{"A", "B", "C"}, 10, 0)
	v.PathIndex = 1
	v.SetPath([]string{"B", "X", "Y"}, 99)

	assert.Equal(t, 0, v.PathIndex)
	assert.Equal(t, 99.0, v.PathCost)
	assert.Equal(t, []string{"B", "X", "Y"}, v.Path)
}

func TestDefaultKinematicsVariesByType(t *testing.T) {
	car := New("c", TypeCar, []string{"A", "B"}, 0, 0)
	bike := New("b", TypeBicycle, []string{"A", "B"}, 0, 0)
	ped := New("p", TypePedestrian, []string{"A", "B"}, 0, 0)

	assert.Greater(t, car.Kinem.VMax(), bike.Kinem.VMax())
	assert.Greater(t, bike.Kinem.VMax(), ped.Kinem.VMax())
}
