package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigTestCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config-test",
		Short: "Parse and validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			fmt.Printf("config ok: %d device(s), %d data entry(ies)\n", len(cfg.Devices), len(cfg.Data))
			return nil
		},
	}
}
