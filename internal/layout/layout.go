// Package layout loads named channels and sensors from a YAML file and
// registers them on a bridge.
package layout

import (
	"fmt"
	"os"

	"github.com/KevinKickass/StormBridge/internal/bridge"
	"github.com/KevinKickass/StormBridge/internal/channels"
	"github.com/KevinKickass/StormBridge/internal/sensors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Layout struct {
	Name     string       `yaml:"name"`
	Channels ChannelsSpec `yaml:"channels"`
	Sensors  []SensorSpec `yaml:"sensors"`
}

type ChannelsSpec struct {
	NumericOutputs []ChannelSpec `yaml:"numeric_outputs"`
	NumericInputs  []ChannelSpec `yaml:"numeric_inputs"`
	BooleanOutputs []ChannelSpec `yaml:"boolean_outputs"`
	BooleanInputs  []ChannelSpec `yaml:"boolean_inputs"`
}

// ChannelSpec names a channel. Channel is 1-based; 0 means the lowest free slot.
type ChannelSpec struct {
	Name    string `yaml:"name"`
	Channel int    `yaml:"channel"`
}

// SensorSpec binds a catalog sensor's signals to 1-based channel numbers.
type SensorSpec struct {
	Name     string         `yaml:"name"`
	Kind     string         `yaml:"kind"`
	Bindings map[string]int `yaml:"bindings"`
}

type Loader struct {
	validator *Validator
	logger    *zap.Logger
}

func NewLoader(logger *zap.Logger) (*Loader, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}

	return &Loader{validator: validator, logger: logger}, nil
}

func (l *Loader) Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}

	layout, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}

	l.logger.Info("Layout loaded",
		zap.String("path", path),
		zap.String("name", layout.Name),
		zap.Int("sensors", len(layout.Sensors)))

	return layout, nil
}

// Parse validates and decodes a layout document.
func (l *Loader) Parse(data []byte) (*Layout, error) {
	if err := l.validator.ValidateYAML(data); err != nil {
		return nil, err
	}

	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("failed to unmarshal layout: %w", err)
	}

	return &layout, nil
}

func (c ChannelsSpec) byRole() []struct {
	role  channels.Role
	specs []ChannelSpec
} {
	return []struct {
		role  channels.Role
		specs []ChannelSpec
	}{
		{channels.NumericOut, c.NumericOutputs},
		{channels.NumericIn, c.NumericInputs},
		{channels.BooleanOut, c.BooleanOutputs},
		{channels.BooleanIn, c.BooleanInputs},
	}
}

// Apply registers every channel and sensor on b in file order and stops at the
// first failure. Sensor kinds are checked up front so an unknown kind
// registers nothing.
func (l *Loader) Apply(b *bridge.Bridge, layout *Layout) error {
	factories := make([]sensors.Factory, len(layout.Sensors))
	for i, s := range layout.Sensors {
		factory, err := sensors.Lookup(s.Kind)
		if err != nil {
			return fmt.Errorf("sensor %q: %w", s.Name, err)
		}
		factories[i] = factory
	}

	for _, group := range layout.Channels.byRole() {
		for _, spec := range group.specs {
			var (
				index int
				err   error
			)
			if spec.Channel > 0 {
				index, err = b.Register(group.role, spec.Name, spec.Channel-1)
			} else {
				index, err = b.Register(group.role, spec.Name)
			}
			if err != nil {
				return err
			}

			l.logger.Debug("Named channel registered",
				zap.String("role", group.role.String()),
				zap.String("name", spec.Name),
				zap.Int("index", index))
		}
	}

	for i, s := range layout.Sensors {
		bindings := make(sensors.Bindings, len(s.Bindings))
		for signal, channel := range s.Bindings {
			bindings[signal] = sensors.Channel(channel)
		}

		if _, err := b.RegisterSensor(s.Name, factories[i], bindings); err != nil {
			return err
		}

		l.logger.Debug("Sensor registered",
			zap.String("name", s.Name),
			zap.String("kind", s.Kind))
	}

	return nil
}
