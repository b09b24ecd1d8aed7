package incident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityPenaltyAndMajorThreshold(t *testing.T) {
	assert.Equal(t, 1.5, SeverityMinor.Penalty())
	assert.Equal(t, 2.5, SeverityMajor.Penalty())
	assert.Equal(t, 4.0, SeveritySevere.Penalty())

	assert.False(t, SeverityMinor.AtLeastMajor())
	assert.True(t, SeverityMajor.AtLeastMajor())
	assert.True(t, SeveritySevere.AtLeastMajor())
}

func TestCreateAndResolveAccident(t *testing.T) {
	m := NewManager()
	clearance := int64(50)
	a := m.CreateAccident("acc_1", "A,B", SeverityMajor, 10, &clearance)

	assert.Equal(t, "acc_1", a.ID)
	assert.Len(t, m.AccidentsOn("A,B"), 1)
	assert.True(t, m.HasMajorAccident("A,B"))

	require.NoError(t, m.ResolveAccident("acc_1"))
	assert.Empty(t, m.AccidentsOn("A,B"))
	assert.ErrorIs(t, m.ResolveAccident("acc_1"), ErrNotFound)
}

func TestExpireAccidentsRemovesPastClearance(t *testing.T) {
	m := NewManager()
	clearance := int64(10)
	m.CreateAccident("acc_1", "A,B", SeverityMinor, 0, &clearance)
	m.CreateAccident("acc_2", "C,D", SeverityMinor, 0, nil) // persistent

	expired := m.ExpireAccidents(10)
	assert.Equal(t, []string{"acc_1"}, expired)
	assert.Empty(t, m.AccidentsOn("A,B"))
	assert.Len(t, m.AccidentsOn("C,D"), 1, "a nil clearance tick never auto-expires")
}

func TestSeverityPenaltyCompoundsMultipleAccidents(t *testing.T) {
	m := NewManager()
	m.CreateAccident("acc_1", "A,B", SeverityMinor, 0, nil)
	m.CreateAccident("acc_2", "A,B", SeverityMajor, 0, nil)

	assert.InDelta(t, 1.5*2.5, m.SeverityPenalty("A,B"), 1e-9)
}

func TestSeverityPenaltyDefaultsToOneWithNoAccidents(t *testing.T) {
	m := NewManager()
	assert.Equal(t, 1.0, m.SeverityPenalty("A,B"))
}

func TestBlockAndUnblockRoad(t *testing.T) {
	m := NewManager()
	_, err := m.BlockRoad("block_1", "A,B", "construction", 5)
	require.NoError(t, err)
	assert.True(t, m.IsBlocked("A,B"))

	_, err = m.BlockRoad("block_2", "A,B", "duplicate", 5)
	assert.ErrorIs(t, err, ErrAlreadyBlocked)

	require.NoError(t, m.UnblockRoad("A,B"))
	assert.False(t, m.IsBlocked("A,B"))
	assert.ErrorIs(t, m.UnblockRoad("A,B"), ErrNotFound)
}

func TestListAccidentsAndBlockagesAreSorted(t *testing.T) {
	m := NewManager()
	m.CreateAccident("b", "X,Y", SeverityMinor, 0, nil)
	m.CreateAccident("a", "X,Y", SeverityMinor, 0, nil)
	_, _ = m.BlockRoad("id1", "C,D", "r", 0)
	_, _ = m.BlockRoad("id2", "A,B", "r", 0)

	accidents := m.ListAccidents()
	require.Len(t, accidents, 2)
	assert.Equal(t, "a", accidents[0].ID)
	assert.Equal(t, "b", accidents[1].ID)

	blockages := m.ListBlockages()
	require.Len(t, blockages, 2)
	assert.Equal(t, "A,B", blockages[0].EdgeKey)
	assert.Equal(t, "C,D", blockages[1].EdgeKey)
}

func TestResetClearsEverything(t *testing.T) {
	m := NewManager()
	m.CreateAccident("acc_1", "A,B", SeverityMinor, 0, nil)
	_, _ = m.BlockRoad("block_1", "C,D", "r", 0)

	m.Reset()
	assert.Empty(t, m.ListAccidents())
	assert.Empty(t, m.ListBlockages())
	assert.False(t, m.IsBlocked("C,D"))
}
