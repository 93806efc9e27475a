package main

import (
	"os"

	"github.com/damianoneill/snmpcollect/config"
	"github.com/damianoneill/snmpcollect/mib"
)

const (
	defaultMIBDirs = "/var/lib/snmp/mibs:/usr/share/mibs:/usr/share/snmp/mibs"
	defaultMIBs    = "SNMPv2-MIB:SNMPv2-SMI"
)

// resolveMIBs computes the symbolic OID names configuration requires,
// loads the modules that define them (plus the extra baseline set named
// by MIBS) from the directories named by MIBDIRS, and resolves every
// name into the shared oid-map.
func resolveMIBs(cfg *config.Config) (*mib.Map, error) {
	names := requiredNames(cfg)

	required := make(map[string]bool)
	for _, name := range names {
		module, _, err := mib.SplitSymbolic(name)
		if err != nil {
			return nil, err
		}
		required[module] = true
	}
	for _, module := range mib.SplitEnvList(envOrDefault("MIBS", defaultMIBs)) {
		required[module] = true
	}

	dirs := mib.SplitEnvList(envOrDefault("MIBDIRS", defaultMIBDirs))

	info, err := mib.LoadDirs(dirs, required)
	if err != nil {
		return nil, err
	}

	return mib.ResolveAll(info, names)
}

// requiredNames collects every symbolic OID (instance and value
// columns) named across all configured data entries, deduplicated.
func requiredNames(cfg *config.Config) []string {
	seen := make(map[string]bool)
	var names []string

	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, entry := range cfg.Data {
		add(entry.Instance)
		for _, v := range entry.Values {
			add(v)
		}
	}
	return names
}

func envOrDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
