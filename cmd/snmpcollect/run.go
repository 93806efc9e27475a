package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/damianoneill/snmpcollect/carbon"
	"github.com/damianoneill/snmpcollect/collector"
	"github.com/damianoneill/snmpcollect/snmp"
)

func newRunCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Begin collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}
}

// run wires the collection pipeline: config/oid-map feed one
// supervised collector per device, all emitting into a shared result
// queue a single formatter drains into a single supervised Carbon
// sender.
func run(opts *cliOptions) error {
	log := logrus.NewEntry(logrus.StandardLogger())

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	oids, err := resolveMIBs(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	factory := snmp.NewFactory()
	results := collector.NewReadingQueue()

	for name, dev := range cfg.Devices {
		c, err := collector.New(dev, cfg.Data, oids, factory, results.In(), log)
		if err != nil {
			return err
		}
		interval := time.Duration(dev.IntervalSeconds) * time.Second
		go collector.Supervise(ctx, name, interval, c, log)
	}

	log.WithField("devices", len(cfg.Devices)).Info("snmpcollect: started collection")

	sender := carbon.NewSender(cfg.Output.GraphiteServer, cfg.Output.GraphitePort, cfg.Output.Prefix, log)
	go sender.RunSupervised()

	formatter := carbon.NewFormatter(oids, log)
	for r := range results.Out() {
		if m, ok := formatter.Format(r); ok {
			sender.Send(m)
		}
	}
	return nil
}
