package bridge

import (
	"math"
	"net/url"
	"strconv"
	"testing"

	"github.com/KevinKickass/StormBridge/internal/channels"
	"github.com/KevinKickass/StormBridge/internal/sensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullQuery(overrides map[string]string) url.Values {
	q := url.Values{}
	for i := 1; i <= channels.Size; i++ {
		q.Set("num"+strconv.Itoa(i), "0.0")
		q.Set("bool"+strconv.Itoa(i), "false")
	}
	for k, v := range overrides {
		q.Set(k, v)
	}
	return q
}

func TestDecodeRequest_Numbers(t *testing.T) {
	q := url.Values{
		"num1":  {"42"},
		"num2":  {" 1.5 "},
		"num3":  {"abc"},
		"num4":  {""},
		"num5":  {"-3e2"},
		"num32": {"1e400"},
	}

	req := DecodeRequest(q)
	assert.Equal(t, 42.0, req.Numbers[0])
	assert.Equal(t, 1.5, req.Numbers[1])
	assert.Equal(t, 0.0, req.Numbers[2])
	assert.Equal(t, 0.0, req.Numbers[3])
	assert.Equal(t, -300.0, req.Numbers[4])
	assert.True(t, math.IsInf(req.Numbers[31], 1))
	assert.Equal(t, 0.0, req.Numbers[5], "missing defaults to zero")
	assert.Equal(t, 2, req.Defaulted)
}

func TestDecodeRequest_Bools(t *testing.T) {
	q := url.Values{
		"bool1": {"true"},
		"bool2": {"TRUE"},
		"bool3": {"1"},
		"bool4": {"Yes"},
		"bool5": {"on"},
		"bool6": {"0"},
		"bool7": {""},
	}

	req := DecodeRequest(q)
	assert.True(t, req.Bools[0])
	assert.True(t, req.Bools[1])
	assert.True(t, req.Bools[2])
	assert.True(t, req.Bools[3])
	assert.False(t, req.Bools[4])
	assert.False(t, req.Bools[5])
	assert.False(t, req.Bools[6])
	assert.False(t, req.Bools[7], "missing defaults to false")
}

func TestEncodeResponse(t *testing.T) {
	var nums [channels.Size]float64
	var bools [channels.Size]bool
	nums[0] = 1.23
	nums[1] = math.NaN()
	nums[2] = math.Inf(-1)
	bools[0] = true

	resp := EncodeResponse(nums, bools)
	assert.Len(t, resp, 2*channels.Size)
	assert.Equal(t, 1.23, resp["num1"])
	assert.Equal(t, 0.0, resp["num2"])
	assert.Equal(t, 0.0, resp["num3"])
	assert.Equal(t, "true", resp["bool1"])
	assert.Equal(t, "false", resp["bool2"])
	assert.Equal(t, "false", resp["bool32"])
}

func TestExchange_RoundTrip(t *testing.T) {
	b := New("test")

	factory, err := sensors.Lookup(sensors.KindLaserDistance)
	require.NoError(t, err)
	_, err = b.RegisterSensor("distance", factory, sensors.Bindings{"distance": sensors.Channel(2)})
	require.NoError(t, err)

	require.NoError(t, b.Bus().WriteNumericOut(0, 1.23))
	require.NoError(t, b.Bus().WriteBooleanOut(0, true))

	_, resp := b.Exchange(fullQuery(map[string]string{"num2": "1.0"}))
	assert.Equal(t, 1.23, resp["num1"])
	assert.Equal(t, "true", resp["bool1"])

	v, err := b.Bus().ReadNumericIn(1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	dist, err := sensors.AccessAs[*sensors.LaserDistanceSensor](b.Sensors(), "distance")
	require.NoError(t, err)
	assert.Equal(t, 1.0, dist.Distance())
}

func TestExchange_OverwritesAllInputs(t *testing.T) {
	b := New("test")
	require.NoError(t, b.Bus().WriteNumericIn(5, 9))
	require.NoError(t, b.Bus().WriteBooleanIn(5, true))

	req, _ := b.Exchange(url.Values{"num1": {"42"}, "bool1": {"true"}})
	assert.Equal(t, 0, req.Defaulted)

	v, err := b.Bus().ReadNumericIn(5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
	on, err := b.Bus().ReadBooleanIn(5)
	require.NoError(t, err)
	assert.False(t, on)

	v, err = b.Bus().ReadNumericIn(0)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)
	on, err = b.Bus().ReadBooleanIn(0)
	require.NoError(t, err)
	assert.True(t, on)
}
