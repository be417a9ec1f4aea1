package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Control ControlConfig `mapstructure:"control"`
	Layout  LayoutConfig  `mapstructure:"layout"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Name            string        `mapstructure:"name"`
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	GRPCPort        int           `mapstructure:"grpc_port"` // 0 disables gRPC
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ControlConfig drives the owning-process loop.
type ControlConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type LayoutConfig struct {
	Path string `mapstructure:"path"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load reads the YAML config at path. An empty path yields defaults plus
// SWB_ environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("server.name", "default")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.http_port", 5000)
	v.SetDefault("server.grpc_port", 50051)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("control.interval", "100ms")
	v.SetDefault("layout.path", "")
	v.SetDefault("logging.development", false)

	// SWB_SERVER_HTTP_PORT etc.
	v.SetEnvPrefix("SWB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid server.http_port: %d", c.Server.HTTPPort)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("invalid server.grpc_port: %d", c.Server.GRPCPort)
	}
	if c.Control.Interval <= 0 {
		return fmt.Errorf("control.interval must be positive, got %s", c.Control.Interval)
	}
	return nil
}

// HTTPAddr is the listen address of the exchange endpoint.
func (s *ServerConfig) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.HTTPPort)
}

func (s *ServerConfig) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.GRPCPort)
}
