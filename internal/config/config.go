// Package config loads the decoder's run-time configuration from YAML,
// following the teacher's decoder_config.go conventions (tagged-struct
// fields, a custom protocol (Un)MarshalYAML, and a Validate step run once
// at startup rather than scattered nil-checks at call sites).
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	"github.com/ka9q/ft8-lib/internal/ft8"
)

// SchemaVersion is the configuration file format this build understands.
// Bumped whenever a field is added or renamed in a way old config files
// can't be read as-is.
const SchemaVersion = "1.0.0"

// schemaConstraint rejects config files from a future, incompatible schema
// while tolerating older compatible ones, the same spirit as Go modules'
// own version constraint checking, applied here to a one-file config format
// instead of a dependency graph.
var schemaConstraint = version.MustConstraints(version.NewConstraint("<= " + SchemaVersion))

// Config is the top-level decoder configuration file.
type Config struct {
	Schema      string      `yaml:"schema_version"`
	Protocol    ft8.Protocol `yaml:"protocol"`
	SampleRate  int         `yaml:"sample_rate"`
	BaseFreqMHz float64     `yaml:"base_freq_mhz"`

	MinScore       int `yaml:"min_score"`
	MaxCandidates  int `yaml:"max_candidates"`
	LDPCIterations int `yaml:"ldpc_iterations"`

	HashTableSize int `yaml:"hash_table_size"`

	Spool SpoolConfig `yaml:"spool"`

	MetricsEnabled bool   `yaml:"metrics_enabled"`
	MetricsAddr    string `yaml:"metrics_addr"`
}

// SpoolConfig configures the input file-discovery layer (spec §6's spool
// collaborator, specified only at its calling contract, see
// internal/spool).
type SpoolConfig struct {
	Dir           string `yaml:"dir"`
	DeleteOnDone  bool   `yaml:"delete_on_done"`
	PollInterval  string `yaml:"poll_interval"`
}

// Default returns the reference configuration for one protocol, mirroring
// ft8.DefaultConfig plus the ambient fields a standalone binary needs that
// the core package has no opinion about.
func Default(protocol ft8.Protocol) Config {
	core := ft8.DefaultConfig(protocol)
	sampleRate := 12000

	return Config{
		Schema:         SchemaVersion,
		Protocol:       protocol,
		SampleRate:     sampleRate,
		BaseFreqMHz:    14.074,
		MinScore:       core.MinScore,
		MaxCandidates:  core.MaxCandidates,
		LDPCIterations: core.LDPCIterations,
		HashTableSize:  1024,
		Spool: SpoolConfig{
			Dir:          "/var/spool/ft8batch",
			DeleteOnDone: true,
			PollInterval: "1s",
		},
		MetricsEnabled: false,
		MetricsAddr:    ":9091",
	}
}

// Load reads and validates a YAML config file at path.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default(ft8.ProtocolFT8)
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration is internally consistent and
// from a schema version this build can read.
func (c Config) Validate() error {
	if c.Schema == "" {
		return fmt.Errorf("config: schema_version is required")
	}
	v, err := version.NewVersion(c.Schema)
	if err != nil {
		return fmt.Errorf("config: invalid schema_version %q: %w", c.Schema, err)
	}
	if !schemaConstraint.Check(v) {
		return fmt.Errorf("config: schema_version %s is newer than this build supports (<= %s)", c.Schema, SchemaVersion)
	}

	if c.SampleRate <= 0 {
		return fmt.Errorf("config: sample_rate must be positive")
	}
	if c.MaxCandidates <= 0 {
		return fmt.Errorf("config: max_candidates must be positive")
	}
	if c.LDPCIterations <= 0 {
		return fmt.Errorf("config: ldpc_iterations must be positive")
	}
	if c.Spool.Dir == "" {
		return fmt.Errorf("config: spool.dir is required")
	}
	return nil
}

// ToFT8Config projects the fields ft8.Decode needs out of the full
// configuration file.
func (c Config) ToFT8Config() ft8.Config {
	return ft8.Config{
		Protocol:       c.Protocol,
		MinScore:       c.MinScore,
		MaxCandidates:  c.MaxCandidates,
		LDPCIterations: c.LDPCIterations,
	}
}
