package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Dump renders the effective settings of v as YAML. Durations are written
// in Go duration syntax so the output can be loaded back.
func Dump(v *viper.Viper) ([]byte, error) {
	out, err := yaml.Marshal(humanize(v.AllSettings()))
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return out, nil
}

func humanize(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case map[string]any:
			out[k] = humanize(val)
		case time.Duration:
			out[k] = val.String()
		default:
			out[k] = val
		}
	}
	return out
}
