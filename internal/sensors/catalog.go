package sensors

import (
	"fmt"
	"sort"
)

// Sensor kinds, as used in layout files.
const (
	KindPlayer        = "player_sensor"
	KindWind          = "wind_sensor"
	KindRain          = "rain_sensor"
	KindHumidity      = "humidity_sensor"
	KindTemperature   = "temperature_sensor"
	KindTilt          = "tilt_sensor"
	KindPhysics       = "physics_sensor"
	KindLinearSpeed   = "linear_speed_sensor"
	KindDistance      = "distance_sensor"
	KindLaserDistance = "laser_distance_sensor"
	KindLaserPoint    = "laser_point_sensor"
	KindCompass       = "compass"
	KindAltimeter     = "altimeter"
	KindGPS           = "gps"
	KindTorqueMeter   = "torque_meter"
	KindBasicRadar    = "basic_radar"
	KindPhalanxRadar  = "phalanx_radar"
	KindRadarDish     = "radar_dish"
	KindRadarAWACS    = "radar_awacs"
	KindMissileRadar  = "missile_radar"
	KindSonar         = "sonar"
	KindFluidPressure = "fluid_pressure_sensor"
	KindFluidMeter    = "fluid_meter"
	KindClock         = "clock"
)

func num(name string) Signal  { return Signal{Name: name, Type: Numeric} }
func flag(name string) Signal { return Signal{Name: name, Type: Boolean} }

// adapt turns a typed constructor into a Factory without leaking typed nils.
func adapt[T Sensor](ctor func(Bindings) (T, error)) Factory {
	return func(b Bindings) (Sensor, error) {
		s, err := ctor(b)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

var catalog = map[string]Factory{
	KindPlayer:        adapt(NewPlayerSensor),
	KindWind:          adapt(NewWindSensor),
	KindRain:          adapt(NewRainSensor),
	KindHumidity:      adapt(NewHumiditySensor),
	KindTemperature:   adapt(NewTemperatureSensor),
	KindTilt:          adapt(NewTiltSensor),
	KindPhysics:       adapt(NewPhysicsSensor),
	KindLinearSpeed:   adapt(NewLinearSpeedSensor),
	KindDistance:      adapt(NewDistanceSensor),
	KindLaserDistance: adapt(NewLaserDistanceSensor),
	KindLaserPoint:    adapt(NewLaserPointSensor),
	KindCompass:       adapt(NewCompass),
	KindAltimeter:     adapt(NewAltimeter),
	KindGPS:           adapt(NewGPS),
	KindTorqueMeter:   adapt(NewTorqueMeter),
	KindBasicRadar:    adapt(NewBasicRadar),
	KindPhalanxRadar:  adapt(NewPhalanxRadar),
	KindRadarDish:     adapt(NewRadarDish),
	KindRadarAWACS:    adapt(NewRadarAWACS),
	KindMissileRadar:  adapt(NewMissileRadar),
	KindSonar:         adapt(NewSonar),
	KindFluidPressure: adapt(NewFluidPressureSensor),
	KindFluidMeter:    adapt(NewFluidMeter),
	KindClock:         adapt(NewClock),
}

// Lookup returns the factory for a sensor kind.
func Lookup(kind string) (Factory, error) {
	f, ok := catalog[kind]
	if !ok {
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
	}
	return f, nil
}

// Kinds lists all catalog kinds in alphabetical order.
func Kinds() []string {
	kinds := make([]string, 0, len(catalog))
	for k := range catalog {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// PlayerSensor counts players in range.
type PlayerSensor struct{ *Frame }

func NewPlayerSensor(b Bindings) (*PlayerSensor, error) {
	f, err := NewFrame(KindPlayer, []Signal{num("players"), flag("detected")}, b)
	if err != nil {
		return nil, err
	}
	return &PlayerSensor{f}, nil
}

// Players truncates the channel value toward zero.
func (s *PlayerSensor) Players() int   { return int(s.Number("players")) }
func (s *PlayerSensor) Detected() bool { return s.Bool("detected") }

// WindSensor reports relative wind direction and speed in m/s.
type WindSensor struct{ *Frame }

func NewWindSensor(b Bindings) (*WindSensor, error) {
	f, err := NewFrame(KindWind, []Signal{num("direction"), num("speed")}, b)
	if err != nil {
		return nil, err
	}
	return &WindSensor{f}, nil
}

func (s *WindSensor) Direction() float64 { return s.Number("direction") }
func (s *WindSensor) Speed() float64     { return s.Number("speed") }

// RainSensor: 0 is sunny, 1 is a thunderstorm.
type RainSensor struct{ *Frame }

func NewRainSensor(b Bindings) (*RainSensor, error) {
	f, err := NewFrame(KindRain, []Signal{num("intensity")}, b)
	if err != nil {
		return nil, err
	}
	return &RainSensor{f}, nil
}

func (s *RainSensor) Intensity() float64 { return s.Number("intensity") }

// HumiditySensor reports fog density between 0 and 1.
type HumiditySensor struct{ *Frame }

func NewHumiditySensor(b Bindings) (*HumiditySensor, error) {
	f, err := NewFrame(KindHumidity, []Signal{num("humidity")}, b)
	if err != nil {
		return nil, err
	}
	return &HumiditySensor{f}, nil
}

func (s *HumiditySensor) Humidity() float64 { return s.Number("humidity") }

type TemperatureSensor struct{ *Frame }

func NewTemperatureSensor(b Bindings) (*TemperatureSensor, error) {
	f, err := NewFrame(KindTemperature, []Signal{num("temperature")}, b)
	if err != nil {
		return nil, err
	}
	return &TemperatureSensor{f}, nil
}

// Temperature is in °C.
func (s *TemperatureSensor) Temperature() float64 { return s.Number("temperature") }

// TiltSensor reports tilt in turns: -0.25 is -90°, 0.25 is +90°.
type TiltSensor struct{ *Frame }

func NewTiltSensor(b Bindings) (*TiltSensor, error) {
	f, err := NewFrame(KindTilt, []Signal{num("tilt")}, b)
	if err != nil {
		return nil, err
	}
	return &TiltSensor{f}, nil
}

func (s *TiltSensor) Tilt() float64 { return s.Number("tilt") }

// PhysicsSignals are the composite physics sensor outputs in channel order.
var PhysicsSignals = []string{
	"pos_x", "pos_y", "pos_z",
	"rot_x", "rot_y", "rot_z",
	"vel_x", "vel_y", "vel_z",
	"angvel_x", "angvel_y", "angvel_z",
	"speed_absolute", "angspeed_absolute",
	"pitch", "roll", "heading",
}

// PhysicsSensor exposes position, rotation and velocities as one keyed snapshot.
type PhysicsSensor struct{ *Frame }

func NewPhysicsSensor(b Bindings) (*PhysicsSensor, error) {
	signals := make([]Signal, len(PhysicsSignals))
	for i, name := range PhysicsSignals {
		signals[i] = num(name)
	}
	f, err := NewFrame(KindPhysics, signals, b)
	if err != nil {
		return nil, err
	}
	return &PhysicsSensor{f}, nil
}

func (s *PhysicsSensor) All() map[string]float64 {
	out := make(map[string]float64, len(PhysicsSignals))
	for _, name := range PhysicsSignals {
		out[name] = s.Number(name)
	}
	return out
}

type LinearSpeedSensor struct{ *Frame }

func NewLinearSpeedSensor(b Bindings) (*LinearSpeedSensor, error) {
	f, err := NewFrame(KindLinearSpeed, []Signal{num("speed")}, b)
	if err != nil {
		return nil, err
	}
	return &LinearSpeedSensor{f}, nil
}

func (s *LinearSpeedSensor) Speed() float64 { return s.Number("speed") }

// DistanceSensor measures to the next block ahead, up to 500m.
type DistanceSensor struct{ *Frame }

func NewDistanceSensor(b Bindings) (*DistanceSensor, error) {
	f, err := NewFrame(KindDistance, []Signal{num("distance")}, b)
	if err != nil {
		return nil, err
	}
	return &DistanceSensor{f}, nil
}

func (s *DistanceSensor) Distance() float64 { return s.Number("distance") }

type LaserDistanceSensor struct{ *Frame }

func NewLaserDistanceSensor(b Bindings) (*LaserDistanceSensor, error) {
	f, err := NewFrame(KindLaserDistance, []Signal{num("distance")}, b)
	if err != nil {
		return nil, err
	}
	return &LaserDistanceSensor{f}, nil
}

func (s *LaserDistanceSensor) Distance() float64 { return s.Number("distance") }

type LaserPointSensor struct{ *Frame }

func NewLaserPointSensor(b Bindings) (*LaserPointSensor, error) {
	f, err := NewFrame(KindLaserPoint, []Signal{num("direction")}, b)
	if err != nil {
		return nil, err
	}
	return &LaserPointSensor{f}, nil
}

func (s *LaserPointSensor) Direction() float64 { return s.Number("direction") }

type Compass struct{ *Frame }

func NewCompass(b Bindings) (*Compass, error) {
	f, err := NewFrame(KindCompass, []Signal{num("heading"), flag("backlight")}, b)
	if err != nil {
		return nil, err
	}
	return &Compass{f}, nil
}

func (s *Compass) Heading() float64 { return s.Number("heading") }
func (s *Compass) Backlight() bool  { return s.Bool("backlight") }

type Altimeter struct{ *Frame }

func NewAltimeter(b Bindings) (*Altimeter, error) {
	f, err := NewFrame(KindAltimeter, []Signal{num("altitude")}, b)
	if err != nil {
		return nil, err
	}
	return &Altimeter{f}, nil
}

func (s *Altimeter) Altitude() float64 { return s.Number("altitude") }

type GPS struct{ *Frame }

func NewGPS(b Bindings) (*GPS, error) {
	f, err := NewFrame(KindGPS, []Signal{num("x"), num("y")}, b)
	if err != nil {
		return nil, err
	}
	return &GPS{f}, nil
}

func (s *GPS) X() float64 { return s.Number("x") }
func (s *GPS) Y() float64 { return s.Number("y") }

type TorqueMeter struct{ *Frame }

func NewTorqueMeter(b Bindings) (*TorqueMeter, error) {
	f, err := NewFrame(KindTorqueMeter, []Signal{num("rps"), num("force")}, b)
	if err != nil {
		return nil, err
	}
	return &TorqueMeter{f}, nil
}

func (s *TorqueMeter) RPS() float64   { return s.Number("rps") }
func (s *TorqueMeter) Force() float64 { return s.Number("force") }

// Radar covers every radar variant; they differ only in kind.
type Radar struct{ *Frame }

func newRadar(kind string, b Bindings) (*Radar, error) {
	f, err := NewFrame(kind, []Signal{num("direction"), num("distance")}, b)
	if err != nil {
		return nil, err
	}
	return &Radar{f}, nil
}

func NewBasicRadar(b Bindings) (*Radar, error)   { return newRadar(KindBasicRadar, b) }
func NewPhalanxRadar(b Bindings) (*Radar, error) { return newRadar(KindPhalanxRadar, b) }
func NewRadarDish(b Bindings) (*Radar, error)    { return newRadar(KindRadarDish, b) }
func NewRadarAWACS(b Bindings) (*Radar, error)   { return newRadar(KindRadarAWACS, b) }
func NewMissileRadar(b Bindings) (*Radar, error) { return newRadar(KindMissileRadar, b) }

func (s *Radar) Direction() float64 { return s.Number("direction") }
func (s *Radar) Distance() float64  { return s.Number("distance") }

// Sonar: ping is the trigger input, angle the bearing to the contact.
type Sonar struct{ *Frame }

func NewSonar(b Bindings) (*Sonar, error) {
	f, err := NewFrame(KindSonar, []Signal{flag("ping"), num("angle")}, b)
	if err != nil {
		return nil, err
	}
	return &Sonar{f}, nil
}

func (s *Sonar) Ping() bool     { return s.Bool("ping") }
func (s *Sonar) Angle() float64 { return s.Number("angle") }

type FluidPressureSensor struct{ *Frame }

func NewFluidPressureSensor(b Bindings) (*FluidPressureSensor, error) {
	f, err := NewFrame(KindFluidPressure, []Signal{num("pressure")}, b)
	if err != nil {
		return nil, err
	}
	return &FluidPressureSensor{f}, nil
}

func (s *FluidPressureSensor) Pressure() float64 { return s.Number("pressure") }

// FluidMeter reports room capacity and fluid amount in litres.
type FluidMeter struct{ *Frame }

func NewFluidMeter(b Bindings) (*FluidMeter, error) {
	f, err := NewFrame(KindFluidMeter, []Signal{num("capacity"), num("amount")}, b)
	if err != nil {
		return nil, err
	}
	return &FluidMeter{f}, nil
}

func (s *FluidMeter) Capacity() float64 { return s.Number("capacity") }
func (s *FluidMeter) Amount() float64   { return s.Number("amount") }

// Clock outputs the fraction of the day: 0 is midnight, 0.5 is noon.
type Clock struct{ *Frame }

func NewClock(b Bindings) (*Clock, error) {
	f, err := NewFrame(KindClock, []Signal{num("time")}, b)
	if err != nil {
		return nil, err
	}
	return &Clock{f}, nil
}

func (s *Clock) Time() float64 { return s.Number("time") }
