// Package sensors derives typed readings from the bus input channels.
//
// A sensor's channel bindings are fixed when it is built. Its values are
// pulled from the bus when it is accessed through a Registry, never pushed:
// the bus knows nothing about sensors.
package sensors

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/KevinKickass/StormBridge/internal/channels"
)

var (
	ErrDuplicateName = channels.ErrDuplicateName
	ErrUnknownName   = channels.ErrUnknownName
	ErrUnknownSignal = errors.New("unknown sensor signal")
	ErrWrongKind     = errors.New("sensor has a different kind")
	ErrUnknownKind   = errors.New("unknown sensor kind")
)

// SignalType says which input array a signal is read from.
type SignalType int

const (
	Numeric SignalType = iota
	Boolean
)

func (t SignalType) String() string {
	if t == Boolean {
		return "boolean"
	}
	return "numeric"
}

// Signal is one named value a sensor exposes.
type Signal struct {
	Name string
	Type SignalType
}

// Binding ties a signal to a zero-based bus index. The zero value is unbound.
type Binding struct {
	index int
	bound bool
}

// Unbound leaves a signal at its default value.
var Unbound = Binding{}

// Channel binds to a 1-based channel number as the vehicle numbers them
// (num1..num32, bool1..bool32). Channel(2) reads bus index 1.
func Channel(n int) Binding {
	return Binding{index: n - 1, bound: true}
}

// Index binds to a zero-based bus index.
func Index(i int) Binding {
	return Binding{index: i, bound: true}
}

// Lookup returns the bus index and whether the binding is set.
func (b Binding) Lookup() (int, bool) {
	return b.index, b.bound
}

func (b Binding) String() string {
	if !b.bound {
		return "unbound"
	}
	return fmt.Sprintf("index %d", b.index)
}

// Bindings maps signal names to their channel binding.
type Bindings map[string]Binding

// Readings is a keyed snapshot of a sensor's cached values.
// Numeric signals are float64, boolean signals are bool.
type Readings map[string]any

// MarshalJSON encodes non-finite numeric readings as 0.
func (r Readings) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r))
	for name, v := range r {
		if f, ok := v.(float64); ok {
			v = channels.Finite(f)
		}
		out[name] = v
	}
	return json.Marshal(out)
}

// Sensor is a read-only view over input channels.
type Sensor interface {
	Kind() string
	// Refresh copies bound values from the input arrays into the cache.
	// Bindings that are unset or outside the arrays are skipped.
	Refresh(nums []float64, bools []bool)
	Readings() Readings
}

// Factory builds a sensor from its bindings.
type Factory func(Bindings) (Sensor, error)

// Frame is the cache and binding table every catalog sensor is built on.
type Frame struct {
	kind     string
	signals  []Signal
	position map[string]int
	bindings []Binding

	mu    sync.RWMutex
	nums  []float64
	bools []bool
}

// NewFrame builds a frame for the declared signals. Bindings may name only
// declared signals; signals without a binding stay unbound.
func NewFrame(kind string, signals []Signal, bindings Bindings) (*Frame, error) {
	f := &Frame{
		kind:     kind,
		signals:  slices.Clone(signals),
		position: make(map[string]int, len(signals)),
		bindings: make([]Binding, len(signals)),
		nums:     make([]float64, len(signals)),
		bools:    make([]bool, len(signals)),
	}

	for i, sig := range signals {
		f.position[sig.Name] = i
	}

	for name, b := range bindings {
		pos, ok := f.position[name]
		if !ok {
			return nil, fmt.Errorf("%s: signal %q: %w", kind, name, ErrUnknownSignal)
		}
		f.bindings[pos] = b
	}

	return f, nil
}

func (f *Frame) Kind() string {
	return f.kind
}

// Signals returns a copy of the declared signals.
func (f *Frame) Signals() []Signal {
	return slices.Clone(f.signals)
}

func (f *Frame) Refresh(nums []float64, bools []bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for pos, sig := range f.signals {
		idx, bound := f.bindings[pos].Lookup()
		if !bound || idx < 0 {
			continue
		}

		switch sig.Type {
		case Numeric:
			if idx < len(nums) {
				f.nums[pos] = nums[idx]
			}
		case Boolean:
			if idx < len(bools) {
				f.bools[pos] = bools[idx]
			}
		}
	}
}

// Number returns the cached value of a numeric signal, 0 if it is not declared.
func (f *Frame) Number(name string) float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()

	pos, ok := f.position[name]
	if !ok {
		return 0
	}
	return f.nums[pos]
}

// Bool returns the cached value of a boolean signal, false if it is not declared.
func (f *Frame) Bool(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	pos, ok := f.position[name]
	if !ok {
		return false
	}
	return f.bools[pos]
}

func (f *Frame) Readings() Readings {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make(Readings, len(f.signals))
	for pos, sig := range f.signals {
		if sig.Type == Boolean {
			out[sig.Name] = f.bools[pos]
		} else {
			out[sig.Name] = f.nums[pos]
		}
	}
	return out
}
