// Command snmpcollect polls a fleet of SNMPv3 devices and forwards
// harvested counters to a Carbon/Graphite line-protocol sink.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "snmpcollect",
		Short:         "Poll SNMPv3 devices and forward counters to Carbon/Graphite",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to a configuration file")
	root.PersistentFlags().StringVarP(&opts.configDir, "config-dir", "d", "", "path to a configuration directory (mutually exclusive with --config)")

	root.AddCommand(
		newConfigTestCmd(opts),
		newMibTestCmd(opts),
		newPreflightCheckCmd(opts),
		newShowOutputKeysCmd(opts),
		newRunCmd(opts),
	)
	return root
}

// cliOptions carries the two mutually-exclusive configuration-location
// flags shared by every subcommand.
type cliOptions struct {
	configFile string
	configDir  string
}
