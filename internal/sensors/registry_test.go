package sensors

import (
	"sync"
	"testing"

	"github.com/KevinKickass/StormBridge/internal/channels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterReturnsStoredInstance(t *testing.T) {
	bus := channels.NewBus()
	reg := NewRegistry(bus)

	registered, err := reg.Register("alt", adapt(NewAltimeter), Bindings{"altitude": Index(0)})
	require.NoError(t, err)

	accessed, err := reg.Access("alt")
	require.NoError(t, err)
	assert.Same(t, registered, accessed)
}

func TestRegistry_AccessRefreshesFromBus(t *testing.T) {
	bus := channels.NewBus()
	reg := NewRegistry(bus)

	_, err := reg.Register("alt", adapt(NewAltimeter), Bindings{"altitude": Index(0)})
	require.NoError(t, err)
	require.NoError(t, bus.WriteNumericIn(0, 123.4))

	alt, err := AccessAs[*Altimeter](reg, "alt")
	require.NoError(t, err)
	assert.Equal(t, 123.4, alt.Altitude())

	require.NoError(t, bus.WriteNumericIn(0, 50))
	assert.Equal(t, 123.4, alt.Altitude(), "value only changes on access")

	alt, err = AccessAs[*Altimeter](reg, "alt")
	require.NoError(t, err)
	assert.Equal(t, 50.0, alt.Altitude())
}

func TestRegistry_BoundIndexTwo(t *testing.T) {
	bus := channels.NewBus()
	reg := NewRegistry(bus)

	factory, err := Lookup(KindDistance)
	require.NoError(t, err)
	_, err = reg.Register("dist", factory, Bindings{"distance": Index(2)})
	require.NoError(t, err)
	_, err = reg.Register("idle", factory, nil)
	require.NoError(t, err)

	require.NoError(t, bus.WriteNumericIn(2, 7.5))

	dist, err := AccessAs[*DistanceSensor](reg, "dist")
	require.NoError(t, err)
	assert.Equal(t, 7.5, dist.Distance())

	idle, err := AccessAs[*DistanceSensor](reg, "idle")
	require.NoError(t, err)
	assert.Equal(t, 0.0, idle.Distance())
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry(channels.NewBus())

	_, err := reg.Register("gps", adapt(NewGPS), nil)
	require.NoError(t, err)

	_, err = reg.Register("gps", adapt(NewGPS), nil)
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = reg.Register("bad", adapt(NewGPS), Bindings{"z": Index(0)})
	assert.ErrorIs(t, err, ErrUnknownSignal)
	assert.Equal(t, []string{"gps"}, reg.Names(), "failed registration stores nothing")

	_, err = reg.Access("missing")
	assert.ErrorIs(t, err, ErrUnknownName)

	_, err = AccessAs[*Clock](reg, "gps")
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestRegistry_ReadAll(t *testing.T) {
	bus := channels.NewBus()
	reg := NewRegistry(bus)

	_, err := reg.Register("sonar", adapt(NewSonar), Bindings{"ping": Channel(1), "angle": Channel(1)})
	require.NoError(t, err)
	_, err = reg.Register("clock", adapt(NewClock), Bindings{"time": Channel(2)})
	require.NoError(t, err)

	require.NoError(t, bus.WriteBooleanIn(0, true))
	require.NoError(t, bus.WriteNumericIn(0, 45))
	require.NoError(t, bus.WriteNumericIn(1, 0.5))

	all := reg.ReadAll()
	assert.Equal(t, Readings{"ping": true, "angle": 45.0}, all["sonar"])
	assert.Equal(t, Readings{"time": 0.5}, all["clock"])
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	bus := channels.NewBus()
	reg := NewRegistry(bus)
	_, err := reg.Register("wind", adapt(NewWindSensor), Bindings{"speed": Index(0)})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for n := 0; n < 200; n++ {
				_ = bus.WriteNumericIn(0, float64(w*n))
			}
		}(w)
		go func() {
			defer wg.Done()
			for n := 0; n < 200; n++ {
				s, err := AccessAs[*WindSensor](reg, "wind")
				if err == nil {
					_ = s.Speed()
				}
			}
		}()
	}
	wg.Wait()
}
