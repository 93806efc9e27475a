// Package config loads and validates the YAML configuration that drives
// the collector: the devices to poll, the OID groups to collect from
// each, and where to forward the resulting metrics.
package config

// Config is the top-level document, either a single file or the result
// of merging every *.yaml file in a directory.
type Config struct {
	Output  Output               `yaml:"output"`
	Data    map[string]DataEntry `yaml:"data"`
	Devices map[string]Device    `yaml:"devices"`
}

// Output describes where collected metrics are forwarded.
type Output struct {
	Kind           string `yaml:"kind"` // "carbon" or its alias "graphite"
	Prefix         string `yaml:"prefix"`
	GraphiteServer string `yaml:"graphite_server"`
	GraphitePort   int    `yaml:"graphite_port"`
}

// DataEntry names one OID group: an instance column walked as a table
// and the value columns joined against it by row index. Collection
// always walks Instance, whatever Table says; an entry without Instance
// fails symbol resolution, so scalar values are not collected.
type DataEntry struct {
	Table    bool     `yaml:"table"`
	Instance string   `yaml:"instance"`
	Values   []string `yaml:"values"`
}

// Device is one SNMPv3 target and the data groups to collect from it.
type Device struct {
	Host            string   `yaml:"host"`
	Port            uint16   `yaml:"port"`
	SecName         string   `yaml:"secname"`
	AuthProtocol    string   `yaml:"auth_protocol"` // "SHA" or "MD5"
	AuthPassword    string   `yaml:"auth_password"`
	PrivProtocol    string   `yaml:"priv_protocol"` // "AES" or "DES"
	PrivPassword    string   `yaml:"priv_password"`
	TimeoutSeconds  int      `yaml:"timeout_seconds"`
	IntervalSeconds int      `yaml:"interval_seconds"`
	Collect         []string `yaml:"collect"`
}
