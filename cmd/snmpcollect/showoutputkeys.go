package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/damianoneill/snmpcollect/carbon"
	"github.com/damianoneill/snmpcollect/config"
	"github.com/damianoneill/snmpcollect/mib"
)

func newShowOutputKeysCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show-output-keys",
		Short: "Print the Carbon key template for every (device, data entry, value) triple",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			for _, key := range outputKeys(cfg) {
				fmt.Println(key)
			}
			return nil
		},
	}
}

// outputKeys renders the Carbon key template for every (device, data
// entry, value) triple a configuration declares, using the instance's
// symbolic name itself as a placeholder for the per-row instance string
// a live poll would substitute.
func outputKeys(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Devices))
	for name := range cfg.Devices {
		names = append(names, name)
	}
	sort.Strings(names)

	var keys []string
	for _, name := range names {
		dev := cfg.Devices[name]
		for _, collect := range dev.Collect {
			entry, ok := cfg.Data[collect]
			if !ok {
				continue
			}
			for _, value := range entry.Values {
				_, valName, err := mib.SplitSymbolic(value)
				if err != nil {
					continue
				}
				keys = append(keys, fmt.Sprintf("%s.%s.<%s>.%s",
					cfg.Output.Prefix, carbon.Sanitize(dev.Host), entry.Instance, valName))
			}
		}
	}
	return keys
}
