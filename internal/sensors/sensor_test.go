package sensors

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinding(t *testing.T) {
	idx, ok := Channel(2).Lookup()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = Index(2).Lookup()
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = Unbound.Lookup()
	assert.False(t, ok)
}

func TestFrame_RefreshBoundSignals(t *testing.T) {
	f, err := NewFrame("test", []Signal{num("a"), flag("b"), num("c")}, Bindings{
		"a": Index(2),
		"b": Index(0),
	})
	require.NoError(t, err)

	nums := make([]float64, 32)
	bools := make([]bool, 32)
	nums[2] = 7.5
	bools[0] = true
	f.Refresh(nums, bools)

	assert.Equal(t, 7.5, f.Number("a"))
	assert.True(t, f.Bool("b"))
	assert.Equal(t, 0.0, f.Number("c"), "unbound signal keeps its default")
}

func TestFrame_DefaultsBeforeRefresh(t *testing.T) {
	f, err := NewFrame("test", []Signal{num("a"), flag("b")}, Bindings{"a": Index(0), "b": Index(0)})
	require.NoError(t, err)

	assert.Equal(t, Readings{"a": 0.0, "b": false}, f.Readings())
}

func TestFrame_OutOfRangeBindingHoldsValue(t *testing.T) {
	f, err := NewFrame("test", []Signal{num("far"), num("near"), num("zero")}, Bindings{
		"far":  Index(40),
		"near": Index(1),
		"zero": Channel(0),
	})
	require.NoError(t, err)

	f.Refresh([]float64{1, 2}, nil)
	assert.Equal(t, 2.0, f.Number("near"))
	assert.Equal(t, 0.0, f.Number("far"))
	assert.Equal(t, 0.0, f.Number("zero"))

	// a shorter array than the binding leaves the cached value alone
	f.Refresh([]float64{5}, nil)
	assert.Equal(t, 2.0, f.Number("near"))
}

func TestFrame_UnknownSignal(t *testing.T) {
	_, err := NewFrame("test", []Signal{num("a")}, Bindings{"b": Index(0)})
	assert.ErrorIs(t, err, ErrUnknownSignal)
}

func TestFrame_RefreshIsIdempotent(t *testing.T) {
	f, err := NewFrame("test", []Signal{num("a")}, Bindings{"a": Index(3)})
	require.NoError(t, err)

	nums := []float64{0, 0, 0, 4.25}
	f.Refresh(nums, nil)
	first := f.Readings()
	f.Refresh(nums, nil)
	assert.Equal(t, first, f.Readings())
	assert.Equal(t, []float64{0, 0, 0, 4.25}, nums, "refresh must not write to its inputs")
}

func TestFrame_SignalsIsACopy(t *testing.T) {
	f, err := NewFrame("test", []Signal{num("a"), flag("b")}, nil)
	require.NoError(t, err)

	signals := f.Signals()
	signals[0] = Signal{Name: "changed", Type: Boolean}

	assert.Equal(t, []Signal{num("a"), flag("b")}, f.Signals())
}

func TestReadings_MarshalNonFinite(t *testing.T) {
	f, err := NewFrame("test", []Signal{num("a"), num("b"), flag("c")}, Bindings{
		"a": Index(0),
		"b": Index(1),
		"c": Index(0),
	})
	require.NoError(t, err)

	f.Refresh([]float64{math.NaN(), math.Inf(1)}, []bool{true})
	assert.True(t, math.IsNaN(f.Number("a")))

	data, err := json.Marshal(map[string]Readings{"s": f.Readings()})
	require.NoError(t, err)

	var got map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, map[string]any{"a": 0.0, "b": 0.0, "c": true}, got["s"])
}
