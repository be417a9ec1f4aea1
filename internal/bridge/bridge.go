// Package bridge ties the channel bus, the four named-channel registries and
// the sensor registry together behind the surface the owning process and the
// HTTP exchange use.
package bridge

import (
	"errors"
	"fmt"

	"github.com/KevinKickass/StormBridge/internal/channels"
	"github.com/KevinKickass/StormBridge/internal/sensors"
	"github.com/google/uuid"
)

// ErrTooManyIndexes is returned when more than one explicit index is passed
// to a Register* call.
var ErrTooManyIndexes = errors.New("at most one channel index may be given")

type Bridge struct {
	ID      uuid.UUID
	Name    string
	bus     *channels.Bus
	named   map[channels.Role]*channels.Registry
	sensors *sensors.Registry
}

func New(name string) *Bridge {
	bus := channels.NewBus()

	named := make(map[channels.Role]*channels.Registry, len(channels.Roles))
	for _, role := range channels.Roles {
		named[role] = channels.NewRegistry(role)
	}

	return &Bridge{
		ID:      uuid.New(),
		Name:    name,
		bus:     bus,
		named:   named,
		sensors: sensors.NewRegistry(bus),
	}
}

// Bus gives indexed access to the raw arrays.
func (b *Bridge) Bus() *channels.Bus {
	return b.bus
}

func (b *Bridge) Registry(role channels.Role) *channels.Registry {
	return b.named[role]
}

func (b *Bridge) Sensors() *sensors.Registry {
	return b.sensors
}

// Register binds name in the role's registry. With no index the lowest free
// index is used.
func (b *Bridge) Register(role channels.Role, name string, index ...int) (int, error) {
	reg, ok := b.named[role]
	if !ok {
		return 0, fmt.Errorf("unknown channel role: %d", role)
	}

	switch len(index) {
	case 0:
		return reg.Register(name)
	case 1:
		return reg.RegisterAt(name, index[0])
	default:
		return 0, fmt.Errorf("%s %q: %w", role, name, ErrTooManyIndexes)
	}
}

func (b *Bridge) RegisterNumericOutput(name string, index ...int) (int, error) {
	return b.Register(channels.NumericOut, name, index...)
}

func (b *Bridge) RegisterNumericInput(name string, index ...int) (int, error) {
	return b.Register(channels.NumericIn, name, index...)
}

func (b *Bridge) RegisterBooleanOutput(name string, index ...int) (int, error) {
	return b.Register(channels.BooleanOut, name, index...)
}

func (b *Bridge) RegisterBooleanInput(name string, index ...int) (int, error) {
	return b.Register(channels.BooleanIn, name, index...)
}

func (b *Bridge) RegisterSensor(name string, factory sensors.Factory, bindings sensors.Bindings) (sensors.Sensor, error) {
	return b.sensors.Register(name, factory, bindings)
}

// Sensor returns the named sensor refreshed from the current inputs.
func (b *Bridge) Sensor(name string) (sensors.Sensor, error) {
	return b.sensors.Access(name)
}

func (b *Bridge) resolve(role channels.Role, name string) (int, error) {
	return b.named[role].Resolve(name)
}

func (b *Bridge) NumericOutput(name string) (float64, error) {
	i, err := b.resolve(channels.NumericOut, name)
	if err != nil {
		return 0, err
	}
	return b.bus.ReadNumericOut(i)
}

func (b *Bridge) SetNumericOutput(name string, v float64) error {
	i, err := b.resolve(channels.NumericOut, name)
	if err != nil {
		return err
	}
	return b.bus.WriteNumericOut(i, v)
}

func (b *Bridge) NumericInput(name string) (float64, error) {
	i, err := b.resolve(channels.NumericIn, name)
	if err != nil {
		return 0, err
	}
	return b.bus.ReadNumericIn(i)
}

func (b *Bridge) SetNumericInput(name string, v float64) error {
	i, err := b.resolve(channels.NumericIn, name)
	if err != nil {
		return err
	}
	return b.bus.WriteNumericIn(i, v)
}

func (b *Bridge) BooleanOutput(name string) (bool, error) {
	i, err := b.resolve(channels.BooleanOut, name)
	if err != nil {
		return false, err
	}
	return b.bus.ReadBooleanOut(i)
}

func (b *Bridge) SetBooleanOutput(name string, v bool) error {
	i, err := b.resolve(channels.BooleanOut, name)
	if err != nil {
		return err
	}
	return b.bus.WriteBooleanOut(i, v)
}

func (b *Bridge) BooleanInput(name string) (bool, error) {
	i, err := b.resolve(channels.BooleanIn, name)
	if err != nil {
		return false, err
	}
	return b.bus.ReadBooleanIn(i)
}

func (b *Bridge) SetBooleanInput(name string, v bool) error {
	i, err := b.resolve(channels.BooleanIn, name)
	if err != nil {
		return err
	}
	return b.bus.WriteBooleanIn(i, v)
}

// Value reads a named channel of any role. Numeric roles yield float64,
// boolean roles yield bool.
func (b *Bridge) Value(role channels.Role, name string) (any, error) {
	switch role {
	case channels.NumericIn:
		return b.NumericInput(name)
	case channels.NumericOut:
		return b.NumericOutput(name)
	case channels.BooleanIn:
		return b.BooleanInput(name)
	case channels.BooleanOut:
		return b.BooleanOutput(name)
	default:
		return nil, fmt.Errorf("unknown channel role: %d", role)
	}
}

// ErrValueType is returned by SetValue when the value does not match the role.
var ErrValueType = errors.New("value type does not match channel role")

// SetValue writes a named channel of any role. Numeric roles accept float64,
// boolean roles accept bool.
func (b *Bridge) SetValue(role channels.Role, name string, value any) error {
	switch v := value.(type) {
	case float64:
		switch role {
		case channels.NumericIn:
			return b.SetNumericInput(name, v)
		case channels.NumericOut:
			return b.SetNumericOutput(name, v)
		}
	case bool:
		switch role {
		case channels.BooleanIn:
			return b.SetBooleanInput(name, v)
		case channels.BooleanOut:
			return b.SetBooleanOutput(name, v)
		}
	}
	return fmt.Errorf("%s %q: got %T: %w", role, name, value, ErrValueType)
}

// NamedChannels lists the bindings of every role keyed by role name.
func (b *Bridge) NamedChannels() map[string][]channels.Entry {
	out := make(map[string][]channels.Entry, len(channels.Roles))
	for _, role := range channels.Roles {
		out[role.String()] = b.named[role].Entries()
	}
	return out
}
