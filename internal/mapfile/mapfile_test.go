package mapfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesIsSortedAndComplete(t *testing.T) {
	assert.Equal(t, []string{"city", "nust", "simple"}, Names())
}

func TestExists(t *testing.T) {
	assert.True(t, Exists("simple"))
	assert.False(t, Exists("nowhere"))
}

func TestLoadDataRejectsUnknownMap(t *testing.T) {
	_, err := LoadData("nowhere")
	assert.Error(t, err)
}

func TestLoadDataEveryRegisteredMapParses(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			data, err := LoadData(name)
			require.NoError(t, err)
			assert.NotEmpty(t, data.Nodes)
			assert.NotEmpty(t, data.Edges)
		})
	}
}

func TestLoadBuildsAUsableGraph(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			g, err := Load(name)
			require.NoError(t, err)
			assert.NotEmpty(t, g.Nodes())
			assert.NotEmpty(t, g.Edges())
		})
	}
}

func TestSimpleMapHasExpectedTopology(t *testing.T) {
	g, err := Load("simple")
	require.NoError(t, err)

	assert.True(t, g.HasNode("A"))
	assert.True(t, g.HasNode("D"))

	_, ok := g.Edge("A", "B")
	assert.True(t, ok)
	_, ok = g.Edge("B", "A")
	assert.True(t, ok, "simple.json declares every edge two-way")
}
