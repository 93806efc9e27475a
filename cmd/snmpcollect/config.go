package main

import (
	"github.com/pkg/errors"

	"github.com/damianoneill/snmpcollect/config"
)

// loadConfig enforces the CLI's "-c FILE XOR -d DIRECTORY" contract,
// loads and validates the configuration, and treats any failure as
// fatal — configuration and resolution errors are a startup concern,
// never a per-device one.
func loadConfig(opts *cliOptions) (*config.Config, error) {
	switch {
	case opts.configFile != "" && opts.configDir != "":
		return nil, errors.New("snmpcollect: --config and --config-dir are mutually exclusive")
	case opts.configFile != "":
		cfg, err := config.LoadFile(opts.configFile)
		if err != nil {
			return nil, err
		}
		return cfg, config.Validate(cfg)
	case opts.configDir != "":
		cfg, err := config.LoadDirectory(opts.configDir)
		if err != nil {
			return nil, err
		}
		return cfg, config.Validate(cfg)
	default:
		return nil, errors.New("snmpcollect: one of --config or --config-dir is required")
	}
}
