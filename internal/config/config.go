package config

import "github.com/spf13/viper"

// Config is the tool configuration, read from pod2unit.yml with viper and
// overridable per-flag from the CLI.
type Config struct {
	Manifest  string        `mapstructure:"manifest"`   // pod manifest path
	OutputDir string        `mapstructure:"output_dir"` // where unit files land
	Handoff   string        `mapstructure:"handoff"`    // rewritten-containers document, relative to output_dir
	Runtime   RuntimeConfig `mapstructure:"runtime"`
}

// RuntimeConfig describes the external container runtime.
type RuntimeConfig struct {
	Binary string `mapstructure:"binary"`  // executable name or absolute path
	PIDDir string `mapstructure:"pid_dir"` // directory for infra pid files
}

func Load() (*Config, error) {
	cfg := &Config{
		Manifest:  "pods.yml",
		OutputDir: "units",
		Handoff:   "containers.yml",
	}
	cfg.Runtime.Binary = "podman"
	cfg.Runtime.PIDDir = "/run"

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
