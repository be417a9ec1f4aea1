package sensors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every kind is bound in declaration order: numeric signals to consecutive
// numeric indices, boolean signals to consecutive boolean indices.
func TestCatalog_AllKindsRefresh(t *testing.T) {
	nums := make([]float64, 32)
	bools := make([]bool, 32)
	for i := range nums {
		nums[i] = float64(i + 10)
		bools[i] = i%2 == 0
	}

	for _, kind := range Kinds() {
		t.Run(kind, func(t *testing.T) {
			factory, err := Lookup(kind)
			require.NoError(t, err)

			unbound, err := factory(nil)
			require.NoError(t, err)
			frame := unbound.(interface{ Signals() []Signal })

			bindings := Bindings{}
			expected := Readings{}
			numIdx, boolIdx := 0, 0
			for _, sig := range frame.Signals() {
				if sig.Type == Boolean {
					bindings[sig.Name] = Index(boolIdx)
					expected[sig.Name] = bools[boolIdx]
					boolIdx++
				} else {
					bindings[sig.Name] = Index(numIdx)
					expected[sig.Name] = nums[numIdx]
					numIdx++
				}
			}

			sensor, err := factory(bindings)
			require.NoError(t, err)
			assert.Equal(t, kind, sensor.Kind())

			sensor.Refresh(nums, bools)
			assert.Equal(t, expected, sensor.Readings())
		})
	}
}

func TestCatalog_TypedGetters(t *testing.T) {
	nums := []float64{3.9, 120.5, 0.5, -2}
	bools := []bool{false, true}

	player, err := NewPlayerSensor(Bindings{"players": Index(0), "detected": Index(1)})
	require.NoError(t, err)
	player.Refresh(nums, bools)
	assert.Equal(t, 3, player.Players())
	assert.True(t, player.Detected())

	compass, err := NewCompass(Bindings{"heading": Index(2), "backlight": Index(1)})
	require.NoError(t, err)
	compass.Refresh(nums, bools)
	assert.Equal(t, 0.5, compass.Heading())
	assert.True(t, compass.Backlight())

	radar, err := NewMissileRadar(Bindings{"direction": Index(3), "distance": Index(1)})
	require.NoError(t, err)
	radar.Refresh(nums, bools)
	assert.Equal(t, KindMissileRadar, radar.Kind())
	assert.Equal(t, -2.0, radar.Direction())
	assert.Equal(t, 120.5, radar.Distance())

	physics, err := NewPhysicsSensor(Bindings{"heading": Channel(2)})
	require.NoError(t, err)
	physics.Refresh(nums, bools)
	all := physics.All()
	assert.Len(t, all, len(PhysicsSignals))
	assert.Equal(t, 120.5, all["heading"])
	assert.Equal(t, 0.0, all["pos_x"])
}

func TestLookup_UnknownKind(t *testing.T) {
	_, err := Lookup("warp_drive")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
