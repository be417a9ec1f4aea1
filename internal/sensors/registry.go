package sensors

import (
	"fmt"
	"sort"
	"sync"
)

// InputSource supplies per-array copies of the input channels.
type InputSource interface {
	Inputs() ([]float64, []bool)
}

// Registry owns named sensors and refreshes them from the bus on access.
type Registry struct {
	source  InputSource
	mu      sync.RWMutex
	sensors map[string]Sensor
}

func NewRegistry(source InputSource) *Registry {
	return &Registry{
		source:  source,
		sensors: make(map[string]Sensor),
	}
}

// Register builds a sensor with the given bindings and stores it under name.
// The returned sensor is the instance the registry keeps.
func (r *Registry) Register(name string, factory Factory, bindings Bindings) (Sensor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sensors[name]; exists {
		return nil, fmt.Errorf("sensor %q: %w", name, ErrDuplicateName)
	}

	sensor, err := factory(bindings)
	if err != nil {
		return nil, fmt.Errorf("sensor %q: %w", name, err)
	}

	r.sensors[name] = sensor
	return sensor, nil
}

// Access refreshes the named sensor from the current inputs and returns it.
func (r *Registry) Access(name string) (Sensor, error) {
	r.mu.RLock()
	sensor, exists := r.sensors[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("sensor %q: %w", name, ErrUnknownName)
	}

	nums, bools := r.source.Inputs()
	sensor.Refresh(nums, bools)
	return sensor, nil
}

// AccessAs is Access with the concrete sensor type, e.g.
//
//	dist, err := sensors.AccessAs[*sensors.LaserDistanceSensor](reg, "distance")
func AccessAs[T Sensor](r *Registry, name string) (T, error) {
	var zero T

	sensor, err := r.Access(name)
	if err != nil {
		return zero, err
	}

	typed, ok := sensor.(T)
	if !ok {
		return zero, fmt.Errorf("sensor %q is %s, want %T: %w", name, sensor.Kind(), zero, ErrWrongKind)
	}
	return typed, nil
}

// Names returns registered sensor names in alphabetical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sensors))
	for name := range r.sensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReadAll refreshes every sensor from one copy of the inputs and returns
// their readings keyed by sensor name.
func (r *Registry) ReadAll() map[string]Readings {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nums, bools := r.source.Inputs()
	out := make(map[string]Readings, len(r.sensors))
	for name, sensor := range r.sensors {
		sensor.Refresh(nums, bools)
		out[name] = sensor.Readings()
	}
	return out
}
