package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial  SerialConfig   `yaml:"serial"`
	Sensors []SensorConfig `yaml:"sensors"`
	Filter  FilterConfig   `yaml:"filter"`
	Monitor MonitorConfig  `yaml:"monitor"`
	Mock    MockConfig     `yaml:"mock"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// SensorConfig describes one sensor as wired on the board. The order must
// match the order of values reported by the firmware.
type SensorConfig struct {
	Name      string `yaml:"name"`
	Pin       uint8  `yaml:"pin"`
	Threshold uint8  `yaml:"threshold"` // Values at or above are reported as touched
}

// FilterConfig selects the firmware filter.
type FilterConfig struct {
	Mode    string `yaml:"mode"`    // "average" or "median"
	Samples uint8  `yaml:"samples"` // Samples for the average filter (>= 1)
}

// MonitorConfig contains touch event tracking parameters.
type MonitorConfig struct {
	Window           time.Duration `yaml:"window"`             // How long ended touches are kept
	MinTouchDuration time.Duration `yaml:"min_touch_duration"` // Shorter touches are dropped
}

// MockConfig contains mock device configuration. The mock models every plate
// as an RC circuit charged through Resistance.
type MockConfig struct {
	SampleRate       time.Duration `yaml:"sample_rate"`       // Time between sweeps
	Resistance       float32       `yaml:"resistance"`        // Charge resistor (Ohm)
	Capacitance      float32       `yaml:"capacitance"`       // Untouched plate capacitance (pF)
	TouchCapacitance float32       `yaml:"touch_capacitance"` // Added by a finger (pF)
	ThresholdRatio   float32       `yaml:"threshold_ratio"`   // Input HIGH level / Vdd
	LoopPeriod       time.Duration `yaml:"loop_period"`       // Duration of one charge loop iteration
	NoiseLevel       float32       `yaml:"noise_level"`       // Noise amplitude (loop iterations)
	TouchPeriod      time.Duration `yaml:"touch_period"`      // Time between simulated touches
	TouchDuration    time.Duration `yaml:"touch_duration"`    // Simulated touch length
}

// MetricsConfig contains Prometheus exporter configuration.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // Empty disables the exporter
}

// Filter modes.
const (
	FilterAverage = "average"
	FilterMedian  = "median"
)

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0", // "COM3" on Windows
			BaudRate: 115200,
		},
		Sensors: []SensorConfig{
			{Name: "left", Pin: 8, Threshold: 40},
			{Name: "right", Pin: 9, Threshold: 40},
			{Name: "center", Pin: 2, Threshold: 40},
		},
		Filter: FilterConfig{
			Mode:    FilterMedian,
			Samples: 4,
		},
		Monitor: MonitorConfig{
			Window:           30 * time.Second,
			MinTouchDuration: 50 * time.Millisecond,
		},
		Mock: MockConfig{
			SampleRate:       20 * time.Millisecond,
			Resistance:       1e6,
			Capacitance:      10,
			TouchCapacitance: 15,
			ThresholdRatio:   0.6,
			LoopPeriod:       375 * time.Nanosecond, // 6 cycles at 16 MHz
			NoiseLevel:       1.5,
			TouchPeriod:      3 * time.Second,
			TouchDuration:    700 * time.Millisecond,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that have no usable default.
func (c *Config) Validate() error {
	switch c.Filter.Mode {
	case FilterAverage, FilterMedian:
	default:
		return fmt.Errorf("unknown filter mode %q", c.Filter.Mode)
	}

	pins := make(map[uint8]string, len(c.Sensors))
	names := make(map[string]struct{}, len(c.Sensors))
	for i, s := range c.Sensors {
		if s.Name == "" {
			return fmt.Errorf("sensor %d has no name", i)
		}
		if _, ok := names[s.Name]; ok {
			return fmt.Errorf("sensor name %q is used twice", s.Name)
		}
		names[s.Name] = struct{}{}
		if prev, ok := pins[s.Pin]; ok {
			return fmt.Errorf("sensors %q and %q share pin %d", prev, s.Name, s.Pin)
		}
		pins[s.Pin] = s.Name
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if len(c.Sensors) == 0 {
		c.Sensors = def.Sensors
	}

	if c.Filter.Mode == "" {
		c.Filter.Mode = def.Filter.Mode
	}
	if c.Filter.Samples == 0 {
		c.Filter.Samples = def.Filter.Samples
	}

	if c.Monitor.Window == 0 {
		c.Monitor.Window = def.Monitor.Window
	}

	if c.Mock.SampleRate == 0 {
		c.Mock.SampleRate = def.Mock.SampleRate
	}
	if c.Mock.Resistance == 0 {
		c.Mock.Resistance = def.Mock.Resistance
	}
	if c.Mock.Capacitance == 0 {
		c.Mock.Capacitance = def.Mock.Capacitance
	}
	if c.Mock.ThresholdRatio == 0 {
		c.Mock.ThresholdRatio = def.Mock.ThresholdRatio
	}
	if c.Mock.LoopPeriod == 0 {
		c.Mock.LoopPeriod = def.Mock.LoopPeriod
	}
	if c.Mock.TouchPeriod == 0 {
		c.Mock.TouchPeriod = def.Mock.TouchPeriod
	}
	if c.Mock.TouchDuration == 0 {
		c.Mock.TouchDuration = def.Mock.TouchDuration
	}
}
