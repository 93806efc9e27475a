package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPreflightCheckCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight-check",
		Short: "Run config-test followed by mib-test",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			oids, err := resolveMIBs(cfg)
			if err != nil {
				return err
			}
			fmt.Printf("preflight ok: %d device(s), %d symbol(s) resolved\n", len(cfg.Devices), len(oids.Names()))
			return nil
		},
	}
}
