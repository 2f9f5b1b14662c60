package stream

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/matt-g-everett/ledease/tween"
)

// Config is the streamer configuration read from YAML.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientId"`
		Topics   struct {
			Stream  string `yaml:"stream"`
			Control string `yaml:"control"`
			State   string `yaml:"state"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`

	// Listen is the HTTP address of the control API. Empty disables it.
	Listen    string `yaml:"listen"`
	StaticDir string `yaml:"staticDir"`

	Pixels       int     `yaml:"pixels"`
	FrameRate    float64 `yaml:"frameRate"`
	CycleSeconds float64 `yaml:"cycleSeconds"`

	Brightness tween.Options `yaml:"brightness"`
	Tint       tween.Options `yaml:"tint"`
	Transition tween.Options `yaml:"transition"`
}

// DefaultConfig returns the configuration used for fields left unset.
func DefaultConfig() Config {
	var c Config
	c.Mqtt.ClientID = "ledease"
	c.Mqtt.Topics.Stream = "home/xmastree/stream"
	c.Mqtt.Topics.Control = "home/xmastree/control"
	c.Mqtt.Topics.State = "home/xmastree/state"
	c.Listen = ":3000"
	c.StaticDir = "client/dist"
	c.Pixels = 500
	c.FrameRate = 30
	c.CycleSeconds = 60
	c.Brightness = tween.Options{Force: 0.08, Precision: 0.001, Value: tween.Float(1)}
	c.Tint = tween.Options{Force: 0.05, Precision: 0.001}
	c.Transition = tween.Options{Force: 0.004, Precision: 0.001, Easing: "linear", Value: tween.Float(0)}
	return c
}

// LoadConfig reads the YAML file at path over DefaultConfig, applies
// environment overrides and validates the result.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return c, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&c); err != nil {
		return c, fmt.Errorf("decode config %s: %w", path, err)
	}

	c.ApplyEnv(os.Getenv)
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// ApplyEnv overrides the MQTT connection settings from LEDEASE_MQTT_URL,
// LEDEASE_MQTT_USERNAME and LEDEASE_MQTT_PASSWORD when they are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("LEDEASE_MQTT_URL"); v != "" {
		c.Mqtt.URL = v
	}
	if v := getenv("LEDEASE_MQTT_USERNAME"); v != "" {
		c.Mqtt.Username = v
	}
	if v := getenv("LEDEASE_MQTT_PASSWORD"); v != "" {
		c.Mqtt.Password = v
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Mqtt.URL == "":
		return errors.New("config: mqtt.url is required")
	case c.Mqtt.Topics.Stream == "":
		return errors.New("config: mqtt.topics.stream is required")
	case c.Pixels <= 0 || c.Pixels > 0xffff:
		return fmt.Errorf("config: pixels must be in 1..65535, got %d", c.Pixels)
	case c.FrameRate <= 0 || c.FrameRate > 240:
		return fmt.Errorf("config: frameRate must be in (0, 240], got %v", c.FrameRate)
	case c.CycleSeconds < 0:
		return fmt.Errorf("config: cycleSeconds must not be negative, got %v", c.CycleSeconds)
	}
	return nil
}

// FrameInterval is the time between frames.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.FrameRate)
}
