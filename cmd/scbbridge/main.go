// cmd/scbbridge/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tamzrod/scb-bridge/internal/command"
	"github.com/tamzrod/scb-bridge/internal/config"
	"github.com/tamzrod/scb-bridge/internal/device"
	"github.com/tamzrod/scb-bridge/internal/logging"
	"github.com/tamzrod/scb-bridge/internal/metrics"
	"github.com/tamzrod/scb-bridge/internal/writer"
)

var version = "dev"

// optFlags collects repeated -opt key=value flags.
type optFlags map[string]string

func (o optFlags) String() string {
	parts := make([]string, 0, len(o))
	for k, v := range o {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (o optFlags) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("option %q: want key=value", s)
	}
	o[k] = v
	return nil
}

func main() {
	opts := optFlags{}

	cfgPath := flag.String("config", "", "path to the bridge YAML config")
	deviceID := flag.String("device", "", "device id for -action (optional with a single device)")
	actionName := flag.String("action", "", "send one button action (command name or token) and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	list := flag.Bool("list", false, "print commands, variables, actions and feedbacks and exit")
	flag.Var(opts, "opt", "action option key=value (repeatable)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}
	if *list {
		if err := describe(os.Stdout, command.NewRegistry()); err != nil {
			os.Exit(1)
		}
		return
	}
	if *cfgPath == "" {
		fmt.Fprintln(os.Stderr, "usage: scbbridge -config <bridge.yaml> [-device id -action CMD -opt k=v ...] | -list | -version")
		os.Exit(2)
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logrus.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		logrus.Fatalf("logging setup failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	reg := command.NewRegistry()
	if *actionName != "" {
		err = runAction(ctx, cfg, reg, log, *deviceID, *actionName, opts)
	} else {
		log.WithField("version", version).Info("scbbridge starting")
		err = run(ctx, cfg, reg, log)
	}

	stop()
	if err != nil {
		log.WithError(err).Error("scbbridge failed")
		_ = closeLog()
		os.Exit(1)
	}
	_ = closeLog()
}

// run starts one runner per device plus the metrics server and blocks until
// ctx is done.
func run(ctx context.Context, cfg *config.Config, reg *command.Registry, log *logrus.Logger) error {
	var m *metrics.Metrics
	promReg := prometheus.NewRegistry()

	if cfg.Metrics.Enabled {
		promReg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		var err error
		if m, err = metrics.New(promReg); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Enabled {
		g.Go(func() error {
			return metrics.Serve(ctx, cfg.Metrics.Listen, promReg, log)
		})
	}

	// --------------------
	// Build per-device pipelines
	// --------------------

	for _, d := range cfg.Bridge.Devices {
		dlog := log.WithField("device", d.ID)

		a, sc, err := device.Build(d, reg, log, m)
		if err != nil {
			return err
		}

		r := &runner{
			adapter:   a,
			session:   sc,
			reconnect: time.Duration(d.ReconnectMs) * time.Millisecond,
			log:       dlog,
			m:         m,
		}

		if d.Mirror != nil {
			plan, err := writer.BuildPlan(d)
			if err != nil {
				return err
			}
			cli, err := writer.BuildEndpointClient(d)
			if err != nil {
				return fmt.Errorf("device %q: mirror client: %w", d.ID, err)
			}
			defer cli.Close()

			r.mirror = writer.New(plan, cli)
			if sw, enabled := writer.NewDeviceStatusWriter(plan, cli); enabled {
				r.status = sw
			}
			dlog.WithField("endpoint", plan.Endpoint).Info("mirror enabled")
		}

		g.Go(func() error { return r.run(ctx) })
	}

	return g.Wait()
}
