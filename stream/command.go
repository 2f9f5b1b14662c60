package stream

import (
	"encoding/json"
	"fmt"
	"math"
)

// Tint channel names.
const (
	TintHue    = "hue"
	TintChroma = "chroma"
	TintLuma   = "luma"
)

// Command changes what the Controller shows. Omitted fields are left alone.
type Command struct {
	Brightness *float64           `json:"brightness,omitempty"`
	Tint       map[string]float64 `json:"tint,omitempty"`

	// Next starts a cross-fade to the next animation.
	Next bool `json:"next,omitempty"`

	// Reset jumps to the new values instead of easing toward them.
	Reset bool `json:"reset,omitempty"`
}

// State is a snapshot of the Controller's eased properties.
type State struct {
	Brightness float64            `json:"brightness"`
	Tint       map[string]float64 `json:"tint"`
	Transition float64            `json:"transition"`
	Animation  string             `json:"animation"`
	Running    bool               `json:"running"`
}

// DecodeCommand parses and validates a JSON command.
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return cmd, fmt.Errorf("decode command: %w", err)
	}
	if err := cmd.Validate(); err != nil {
		return cmd, err
	}
	return cmd, nil
}

// Validate checks value ranges.
func (c Command) Validate() error {
	if c.Brightness != nil {
		if b := *c.Brightness; math.IsNaN(b) || b < 0 || b > 1 {
			return fmt.Errorf("command: brightness %v outside [0, 1]", b)
		}
	}
	for name, v := range c.Tint {
		lo, hi, ok := tintRange(name)
		if !ok {
			return fmt.Errorf("command: unknown tint channel %q", name)
		}
		if math.IsNaN(v) || v < lo || v > hi {
			return fmt.Errorf("command: tint %s %v outside [%v, %v]", name, v, lo, hi)
		}
	}
	return nil
}

func tintRange(name string) (lo, hi float64, ok bool) {
	switch name {
	case TintHue:
		return 0, 360, true
	case TintChroma, TintLuma:
		return 0, 1, true
	}
	return 0, 0, false
}
