// Package config holds the settings for a gbsim run.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/gbsim/cache"
)

// RunConfig describes how a program image is loaded and executed.
type RunConfig struct {
	// Origin is the address the image is loaded at. Default: 0x0000.
	Origin uint16 `json:"origin"`

	// EntryPoint is the initial PC. Default: 0x0100, where cartridge code
	// starts after the boot ROM.
	EntryPoint uint16 `json:"entry_point"`

	// StackPointer is the initial SP. Default: 0xFFFE.
	StackPointer uint16 `json:"stack_pointer"`

	// MaxInstructions stops runaway programs. 0 means no limit.
	// Default: 1,000,000.
	MaxInstructions uint64 `json:"max_instructions"`

	// Trace prints one line per executed instruction.
	Trace bool `json:"trace"`

	// Cache puts a cache model in front of memory when set.
	Cache *cache.Config `json:"cache,omitempty"`
}

// Default returns a RunConfig with the post-boot-ROM defaults.
func Default() *RunConfig {
	return &RunConfig{
		Origin:          0x0000,
		EntryPoint:      0x0100,
		StackPointer:    0xFFFE,
		MaxInstructions: 1_000_000,
	}
}

// Load loads a RunConfig from a JSON file. Fields missing from the file
// keep their defaults.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse run config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}

	return config, nil
}

// Save writes a RunConfig to a JSON file.
func (c *RunConfig) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize run config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration values are usable.
func (c *RunConfig) Validate() error {
	if c.Cache != nil {
		if err := c.Cache.Validate(); err != nil {
			return err
		}
	}
	if c.StackPointer == 0 {
		return fmt.Errorf("stack_pointer must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the RunConfig.
func (c *RunConfig) Clone() *RunConfig {
	clone := *c
	if c.Cache != nil {
		cacheConfig := *c.Cache
		clone.Cache = &cacheConfig
	}
	return &clone
}
