package config

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrConflict is returned by LoadDirectory when two files in the
// directory define the same data-group or device name with different
// contents.
var ErrConflict = errors.New("config: conflicting data definitions across files")

// ErrOutputMismatch is returned by LoadDirectory when two files in the
// directory specify different, non-empty output sections.
var ErrOutputMismatch = errors.New("config: conflicting output sections across files")

var deviceDefaults = Device{
	Port:            161,
	AuthProtocol:    "SHA",
	PrivProtocol:    "AES",
	TimeoutSeconds:  10,
	IntervalSeconds: 60,
}

// LoadFile parses a single YAML configuration file and applies device
// defaults to any field each device left unset.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: read %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "config: parse %s", path)
	}

	applyDeviceDefaults(&cfg)
	return &cfg, nil
}

// LoadDirectory parses every *.yaml file in dir and merges them into one
// Config. Each file may contribute its own devices and data groups, but
// a data-group name, a device name or a non-empty output section must
// agree across every file that defines it.
func LoadDirectory(dir string) (*Config, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, errors.Wrapf(err, "config: glob %s", dir)
	}
	sort.Strings(matches)

	combined := &Config{Data: make(map[string]DataEntry), Devices: make(map[string]Device)}

	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "config: read %s", path)
		}

		var next Config
		if err := yaml.Unmarshal(data, &next); err != nil {
			return nil, errors.Wrapf(err, "config: parse %s", path)
		}

		if err := mergeOutput(&combined.Output, next.Output); err != nil {
			return nil, errors.Wrapf(err, "config: %s", path)
		}

		for name, entry := range next.Data {
			if existing, ok := combined.Data[name]; ok && !dataEntryEqual(existing, entry) {
				return nil, errors.Wrapf(ErrConflict, "data group %q (from %s)", name, path)
			}
			combined.Data[name] = entry
		}

		for name, dev := range next.Devices {
			if existing, ok := combined.Devices[name]; ok && !deviceEqual(existing, dev) {
				return nil, errors.Wrapf(ErrConflict, "device %q (from %s)", name, path)
			}
			combined.Devices[name] = dev
		}
	}

	applyDeviceDefaults(combined)
	return combined, nil
}

func mergeOutput(into *Output, from Output) error {
	if from == (Output{}) {
		return nil
	}
	if *into == (Output{}) {
		*into = from
		return nil
	}
	if *into != from {
		return ErrOutputMismatch
	}
	return nil
}

func dataEntryEqual(a, b DataEntry) bool {
	if a.Table != b.Table || a.Instance != b.Instance || len(a.Values) != len(b.Values) {
		return false
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			return false
		}
	}
	return true
}

func deviceEqual(a, b Device) bool {
	if a.Host != b.Host || a.Port != b.Port || a.SecName != b.SecName ||
		a.AuthProtocol != b.AuthProtocol || a.AuthPassword != b.AuthPassword ||
		a.PrivProtocol != b.PrivProtocol || a.PrivPassword != b.PrivPassword ||
		a.TimeoutSeconds != b.TimeoutSeconds || a.IntervalSeconds != b.IntervalSeconds ||
		len(a.Collect) != len(b.Collect) {
		return false
	}
	for i := range a.Collect {
		if a.Collect[i] != b.Collect[i] {
			return false
		}
	}
	return true
}

func applyDeviceDefaults(cfg *Config) {
	for name, dev := range cfg.Devices {
		_ = mergo.Merge(&dev, deviceDefaults)
		cfg.Devices[name] = dev
	}
}

// Validate checks structural invariants that yaml.Unmarshal cannot
// express: every device's Collect entries must reference a data group
// defined in Data, and every table data group needs an Instance column.
func Validate(cfg *Config) error {
	if cfg.Output.Kind == "" {
		return errors.New("config: output.kind is required")
	}
	if cfg.Output.Kind != "carbon" && cfg.Output.Kind != "graphite" {
		return errors.Errorf("config: unsupported output kind %q", cfg.Output.Kind)
	}

	for name, entry := range cfg.Data {
		if entry.Table && entry.Instance == "" {
			return errors.Errorf("config: data group %q is a table but has no instance column", name)
		}
		if len(entry.Values) == 0 {
			return errors.Errorf("config: data group %q has no values", name)
		}
	}

	for devName, dev := range cfg.Devices {
		if dev.Host == "" {
			return errors.Errorf("config: device %q has no host", devName)
		}
		if dev.SecName == "" {
			return errors.Errorf("config: device %q has no secname", devName)
		}
		for _, name := range dev.Collect {
			if _, ok := cfg.Data[name]; !ok {
				return errors.Errorf("config: device %q collects undefined data group %q", devName, name)
			}
		}
	}

	return nil
}
