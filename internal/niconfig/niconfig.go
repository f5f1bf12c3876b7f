// Package niconfig loads the developer tool's optional TOML configuration
// file, the way the broader example pack's emulator tooling loads a
// config.toml: defaults first, then overridden by whatever the file
// specifies. Only cmd/niplangtool reads this; the spec-mandated niplang
// binary's behavior is fixed and never consults a config file.
package niconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the developer-facing knobs niplangtool exposes beyond the
// fixed interpreter behavior: whether to trace VM execution, and the
// capacities the compiler and VM enforce.
type Config struct {
	Trace struct {
		Enabled bool `toml:"enabled"`
	} `toml:"trace"`

	Limits struct {
		StackSize    int `toml:"stack_size"`
		MaxLocals    int `toml:"max_locals"`
		MaxConstants int `toml:"max_constants"`
	} `toml:"limits"`
}

// Default returns the configuration niplangtool uses when no niplang.toml
// is present or specified.
func Default() *Config {
	cfg := &Config{}
	cfg.Trace.Enabled = false
	cfg.Limits.StackSize = 256
	cfg.Limits.MaxLocals = 256
	cfg.Limits.MaxConstants = 256
	return cfg
}

// Load reads path, falling back silently to Default when the file does not
// exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}
