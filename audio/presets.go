package audio

import (
	"fmt"
	"sort"
)

// Device is anything configurable through named properties.
type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
}

type preset map[string]interface{}

// The saw-heavy presets sit lower since the saw shape is hotter than the
// other three.
var presets = map[string]preset{
	"pure": preset{
		PropMorph: 0.0,
		PropLevel: 0.0,
	},
	"crunch": preset{
		PropMorph: 0.9,
		PropLevel: -3.0,
	},
	"glass": preset{
		PropMorph: 1.5,
		PropLevel: -2.0,
	},
	"buzz": preset{
		PropMorph: 2.7,
		PropLevel: -8.0,
	},
	"razor": preset{
		PropMorph: 3.0,
		PropLevel: -10.0,
	},
}

func LoadPreset(name string, d Device) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	for k, v := range p {
		if err := d.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Presets returns the available preset names, sorted.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
