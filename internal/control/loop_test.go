package control

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KevinKickass/StormBridge/internal/bridge"
	"github.com/KevinKickass/StormBridge/internal/metrics"
	"github.com/KevinKickass/StormBridge/internal/sensors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoop_MirrorsSensorToOutput(t *testing.T) {
	b := bridge.New("test")

	_, err := b.RegisterNumericOutput("oThrottle")
	require.NoError(t, err)
	factory, err := sensors.Lookup(sensors.KindDistance)
	require.NoError(t, err)
	_, err = b.RegisterSensor("distance", factory, sensors.Bindings{"distance": sensors.Channel(2)})
	require.NoError(t, err)

	step := func(ctx context.Context, b *bridge.Bridge) error {
		d, err := sensors.AccessAs[*sensors.DistanceSensor](b.Sensors(), "distance")
		if err != nil {
			return err
		}
		return b.SetNumericOutput("oThrottle", d.Distance()/2)
	}

	loop := NewLoop(b, step, 5*time.Millisecond, zap.NewNop(), metrics.New())
	require.NoError(t, loop.Start())
	defer loop.Stop()

	require.NoError(t, b.Bus().WriteNumericIn(1, 10))

	assert.Eventually(t, func() bool {
		v, err := b.NumericOutput("oThrottle")
		return err == nil && v == 5
	}, time.Second, 5*time.Millisecond)
}

func TestLoop_StepErrorsAreCounted(t *testing.T) {
	m := metrics.New()
	var calls atomic.Int32
	step := func(ctx context.Context, b *bridge.Bridge) error {
		calls.Add(1)
		return errors.New("no signal")
	}

	loop := NewLoop(bridge.New("test"), step, 2*time.Millisecond, zap.NewNop(), m)
	require.NoError(t, loop.Start())

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 2*time.Millisecond)
	loop.Stop()

	assert.False(t, loop.IsRunning())
	assert.Equal(t, float64(loop.Steps()), testutil.ToFloat64(m.LoopSteps.WithLabelValues("error")))
}

func TestLoop_StartStopIdempotent(t *testing.T) {
	loop := NewLoop(bridge.New("test"), LogSensors(zap.NewNop()), time.Millisecond, zap.NewNop(), nil)

	require.NoError(t, loop.Start())
	require.NoError(t, loop.Start())
	assert.True(t, loop.IsRunning())

	loop.Stop()
	loop.Stop()
	assert.False(t, loop.IsRunning())

	// restart after stop
	require.NoError(t, loop.Start())
	loop.Stop()
}
