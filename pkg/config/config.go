// Package config defines atf's on-disk/environment configuration shape
// and loads it with koanf, mirroring the teacher's layered
// file-then-env-then-validate loader.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete atf configuration: which technique and
// abort condition to run, where the tuning log goes, and the
// cost-function back-end's settings.
type Config struct {
	Run       RunConfig          `yaml:"run" koanf:"run"`
	Technique CapabilityConfig   `yaml:"technique" koanf:"technique"`
	Abort     CapabilityConfig   `yaml:"abort" koanf:"abort"`
	Backend   BackendConfig      `yaml:"backend" koanf:"backend"`
	Output    OutputConfig       `yaml:"output" koanf:"output"`
	Profiles  map[string]Profile `yaml:"profiles,omitempty" koanf:"profiles"`
}

// Profile represents a named configuration profile overlaid onto the
// base Config by ApplyProfile.
type Profile struct {
	Run       RunConfig        `yaml:"run,omitempty"`
	Technique CapabilityConfig `yaml:"technique,omitempty"`
	Abort     CapabilityConfig `yaml:"abort,omitempty"`
	Backend   BackendConfig    `yaml:"backend,omitempty"`
	Output    OutputConfig     `yaml:"output,omitempty"`
}

// RunConfig contains runtime tuning configuration.
type RunConfig struct {
	ParamsFile    string `yaml:"params_file" koanf:"params_file"`
	Seed          int64  `yaml:"seed,omitempty" koanf:"seed"`
	FlushInterval string `yaml:"flush_interval,omitempty" koanf:"flush_interval"`
	Verbose       bool   `yaml:"verbose,omitempty" koanf:"verbose"`
}

// CapabilityConfig names a registry.Registry entry (a search technique
// or an abort condition) plus the settings passed to its factory.
type CapabilityConfig struct {
	Name     string         `yaml:"name" koanf:"name"`
	Settings map[string]any `yaml:"settings,omitempty" koanf:"settings"`
}

// BackendConfig configures the cost-function back-end.
type BackendConfig struct {
	// Kind selects the back-end: "shell" or "gpu".
	Kind           string   `yaml:"kind" koanf:"kind" validate:"omitempty,oneof=shell gpu"`
	Command        []string `yaml:"command,omitempty" koanf:"command"`
	CompileCommand []string `yaml:"compile_command,omitempty" koanf:"compile_command"`
	CostFile       string   `yaml:"cost_file,omitempty" koanf:"cost_file"`
	WorkDir        string   `yaml:"work_dir,omitempty" koanf:"work_dir"`
	Timeout        string   `yaml:"timeout,omitempty" koanf:"timeout"`
	// RateLimit is requests per second; 0 disables throttling.
	RateLimit float64 `yaml:"rate_limit,omitempty" koanf:"rate_limit" validate:"gte=0"`
	// MaxAttempts bounds transient-launch-failure retries; 0 uses
	// retry.DefaultConfig().
	MaxAttempts int `yaml:"max_attempts,omitempty" koanf:"max_attempts" validate:"gte=0"`
}

// OutputConfig contains tuning-log output configuration.
type OutputConfig struct {
	LogPath string `yaml:"log_path" koanf:"log_path"`
	Format  string `yaml:"format,omitempty" koanf:"format" validate:"omitempty,oneof=json"`
}

// Validate validates the configuration and returns helpful error
// messages beyond what struct tags alone can express.
func (c *Config) Validate() error {
	if c.Run.ParamsFile == "" {
		return fmt.Errorf("run.params_file is required")
	}
	if c.Run.FlushInterval != "" {
		if _, err := time.ParseDuration(c.Run.FlushInterval); err != nil {
			return fmt.Errorf("invalid run.flush_interval: %w", err)
		}
	}

	if c.Technique.Name == "" {
		return fmt.Errorf("technique.name is required")
	}
	if c.Abort.Name == "" {
		return fmt.Errorf("abort.name is required")
	}

	switch c.Backend.Kind {
	case "", "shell":
		if c.Backend.Kind == "shell" && len(c.Backend.Command) == 0 {
			return fmt.Errorf("backend.command is required when backend.kind is \"shell\"")
		}
	case "gpu":
		// GPU back-end is a contract stub; no further fields required.
	default:
		return fmt.Errorf("invalid backend.kind: %s (valid: shell, gpu)", c.Backend.Kind)
	}
	if c.Backend.Timeout != "" {
		if _, err := time.ParseDuration(c.Backend.Timeout); err != nil {
			return fmt.Errorf("invalid backend.timeout: %w", err)
		}
	}

	return nil
}

// Merge merges another config into this one, with the other config
// taking precedence on any field it sets.
func (c *Config) Merge(other *Config) {
	if other.Run.ParamsFile != "" {
		c.Run.ParamsFile = other.Run.ParamsFile
	}
	if other.Run.Seed != 0 {
		c.Run.Seed = other.Run.Seed
	}
	if other.Run.FlushInterval != "" {
		c.Run.FlushInterval = other.Run.FlushInterval
	}
	if other.Run.Verbose {
		c.Run.Verbose = true
	}

	if other.Technique.Name != "" {
		c.Technique = other.Technique
	}
	if other.Abort.Name != "" {
		c.Abort = other.Abort
	}

	if other.Backend.Kind != "" {
		c.Backend = other.Backend
	}

	if other.Output.LogPath != "" {
		c.Output.LogPath = other.Output.LogPath
	}
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
}

// ApplyProfile overlays the named profile onto c. It returns an error if
// the profile does not exist.
func (c *Config) ApplyProfile(name string) error {
	profile, ok := c.Profiles[name]
	if !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	c.Merge(&Config{
		Run:       profile.Run,
		Technique: profile.Technique,
		Abort:     profile.Abort,
		Backend:   profile.Backend,
		Output:    profile.Output,
	})
	return nil
}
