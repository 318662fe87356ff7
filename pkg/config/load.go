package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flexsdr/flexsdr/pkg/names"
)

// EnvConfigFile names the environment variable holding the default
// configuration file path.
const EnvConfigFile = "CONFIG_FILE_PATH"

// ErrInvalid marks a malformed or semantically inconsistent configuration.
var ErrInvalid = errors.New("invalid configuration")

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w: %v", path, ErrInvalid, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault loads the file named by CONFIG_FILE_PATH, falling back to
// the given path when the variable is unset.
func LoadDefault(fallback string) (*Config, error) {
	path := os.Getenv(EnvConfigFile)
	if path == "" {
		path = fallback
	}
	return Load(path)
}

func (c *Config) applyDefaults() {
	if c.Defaults.NbMbuf == 0 {
		c.Defaults.NbMbuf = 8192
	}
	if c.Defaults.MPCache == 0 {
		c.Defaults.MPCache = 256
	}
	if c.Defaults.RingSize == 0 {
		c.Defaults.RingSize = 512
	}
	if c.Defaults.DataFormat == "" {
		c.Defaults.DataFormat = "sc16"
	}
	if c.EAL.IOVA == "" {
		c.EAL.IOVA = "va"
	}
	if c.Naming.Separator == "" {
		c.Naming.Separator = "_"
	}
	for _, rb := range []*RoleConfig{c.PrimaryUE, c.UE, c.PrimaryGNB, c.GNB} {
		if rb == nil {
			continue
		}
		for _, s := range []*Stream{rb.TxStream, rb.RxStream} {
			if s == nil {
				continue
			}
			if s.Mode == "" {
				s.Mode = ModePlanar
			}
			if s.NumChannels == 0 {
				s.NumChannels = 1
			}
			if s.SPP == 0 {
				s.SPP = 1024
			}
			if s.PktsPerChan == 0 {
				s.PktsPerChan = 8
			}
		}
	}
}

// Validate checks semantic consistency of the configuration.
func (c *Config) Validate() error {
	if c.Defaults.Role == "" {
		return fmt.Errorf("%w: missing defaults.role", ErrInvalid)
	}
	role, ok := names.ParseRole(c.Defaults.Role)
	if !ok {
		return fmt.Errorf("%w: unknown role %q", ErrInvalid, c.Defaults.Role)
	}
	if c.RoleBlock(role) == nil {
		return fmt.Errorf("%w: no config block for role %q", ErrInvalid, c.Defaults.Role)
	}
	if f := c.Defaults.DataFormat; f != "sc16" {
		return fmt.Errorf("%w: unsupported data_format %q", ErrInvalid, f)
	}

	rb := c.RoleBlock(role)
	for _, s := range []*Stream{rb.TxStream, rb.RxStream} {
		if s == nil {
			continue
		}
		if s.Mode != ModePlanar && s.Mode != ModeInterleaved {
			return fmt.Errorf("%w: unknown stream mode %q", ErrInvalid, s.Mode)
		}
		if s.NumChannels == 0 {
			return fmt.Errorf("%w: stream with zero channels", ErrInvalid)
		}
		for _, r := range s.Rings {
			if r.Name == "" {
				return fmt.Errorf("%w: stream ring with empty name", ErrInvalid)
			}
		}
	}
	for _, p := range rb.Pools {
		if p.Name == "" {
			return fmt.Errorf("%w: pool with empty name", ErrInvalid)
		}
	}
	if ic := rb.Interconnect; ic != nil {
		for _, r := range ic.Rings {
			if r.Name == "" {
				return fmt.Errorf("%w: interconnect ring with empty name", ErrInvalid)
			}
			if r.Direction != DirectionIn && r.Direction != DirectionOut {
				return fmt.Errorf("%w: interconnect ring %q needs direction in|out", ErrInvalid, r.Name)
			}
		}
	}
	return nil
}
