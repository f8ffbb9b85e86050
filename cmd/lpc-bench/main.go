package main

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"lpc"
	"lpc/pkg/component"
	"lpc/pkg/glog"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		glog.Error("lpc-bench failed", zap.Error(err))
		glog.Stop()
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "lpc-bench",
		Usage: "drive events around a ring of mailboxes and report where they ran",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
			&cli.IntFlag{Name: "threads", Usage: "override pool.threads"},
			&cli.StringFlag{Name: "factory", Usage: "override pool.factory (goroutine|ants)"},
			&cli.IntFlag{Name: "capacity", Value: -1, Usage: "override mailbox.capacity"},
			&cli.IntFlag{Name: "mailboxes", Value: 8, Usage: "mailboxes in the ring"},
			&cli.IntFlag{Name: "producers", Value: 4, Usage: "concurrent producers"},
			&cli.IntFlag{Name: "events", Value: 10000, Usage: "events per producer"},
			&cli.IntFlag{Name: "hops", Value: 16, Usage: "mailboxes each event visits"},
			&cli.BoolFlag{Name: "async", Usage: "use async mailboxes (always hand off to the pool)"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "serve prometheus metrics on this address, e.g. :9100"},
			&cli.DurationFlag{Name: "linger", Usage: "keep the metrics endpoint up after the run"},
		},
		Action: run,
	}
}

func loadConfig(cmd *cli.Command) (*lpc.Config, error) {
	cfg := lpc.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		loaded, err := lpc.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if n := int(cmd.Int("threads")); n > 0 {
		cfg.Pool.Threads = n
	}
	if kind := cmd.String("factory"); kind != "" {
		cfg.Pool.Factory = kind
	}
	if c := int(cmd.Int("capacity")); c >= 0 {
		cfg.Mailbox.Capacity = c
	}
	if cmd.String("metrics-addr") != "" {
		cfg.Metrics.Enabled = true
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var comps []component.Component
	reg := prometheus.NewRegistry()
	if addr := cmd.String("metrics-addr"); addr != "" {
		comps = append(comps, newMetricsServer(addr, reg))
	}

	runtime, err := lpc.NewWithConfig(cfg, reg, comps...)
	if err != nil {
		return err
	}
	if err = runtime.Startup(ctx); err != nil {
		return err
	}

	b := newRingBench(runtime.Factory(), benchOptions{
		mailboxes: int(cmd.Int("mailboxes")),
		producers: int(cmd.Int("producers")),
		events:    int(cmd.Int("events")),
		hops:      int(cmd.Int("hops")),
		async:     cmd.Bool("async"),
	})
	result, runErr := b.run(ctx)
	if runErr == nil {
		result.print(os.Stdout)
	}

	if linger := cmd.Duration("linger"); linger > 0 && runErr == nil {
		glog.Info("lingering for metrics scrape", zap.Duration("linger", linger))
		select {
		case <-time.After(linger):
		case <-ctx.Done():
		}
	}

	if err = runtime.Shutdown(context.Background()); err != nil {
		return err
	}
	if runErr != nil {
		return errors.Wrap(runErr, "bench")
	}
	return nil
}
