// Command obstacle-layout previews obstacle layouts, prints the configuration
// schema, or serves a live layout stream.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/SumeetBatra/quad-swarm-rl/internal/app"
	"github.com/SumeetBatra/quad-swarm-rl/internal/config"
	"github.com/SumeetBatra/quad-swarm-rl/internal/obstacles"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "obstacle-layout: %v\n", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	configPath  string
	level       int
	scenario    string
	format      string
	schema      bool
	serveAddr   string
	interval    time.Duration
	metricsAddr string
	set         map[string]bool
}

func parseFlags(args []string) (cliFlags, error) {
	var f cliFlags
	fs := flag.NewFlagSet("obstacle-layout", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", "", "path to a configuration file")
	fs.IntVar(&f.level, "level", -1, "curriculum level to preview")
	fs.StringVar(&f.scenario, "scenario", "", "scenario name, overrides the configuration")
	fs.StringVar(&f.format, "format", "yaml", "layout dump format: yaml or json")
	fs.BoolVar(&f.schema, "schema", false, "print the configuration JSON schema and exit")
	fs.StringVar(&f.serveAddr, "serve", "", "serve the layout stream on this address")
	fs.DurationVar(&f.interval, "interval", 0, "layout stream resample interval")
	fs.StringVar(&f.metricsAddr, "metrics", "", "serve prometheus metrics on this address")
	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}
	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	if f.format != "yaml" && f.format != "json" {
		return cliFlags{}, errors.Errorf("unknown format %q", f.format)
	}
	return f, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if f.schema {
		return writeSchema(out)
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if f.set["level"] {
		cfg.Level = f.level
	}
	if f.set["scenario"] {
		cfg.Scenario = f.scenario
	}
	if f.set["interval"] {
		cfg.Viz.Interval = f.interval
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rt, err := app.New(cfg, app.Options{})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rt.Close(closeCtx)
	}()

	if f.serveAddr == "" {
		snap, err := rt.Preview(ctx, cfg.Level)
		if err != nil {
			return err
		}
		return writeLayout(out, f.format, snap)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return rt.Serve(groupCtx, f.serveAddr) })
	group.Go(func() error { return rt.Stream(groupCtx, cfg.Viz.Interval) })
	if f.metricsAddr != "" {
		group.Go(func() error { return serveMetrics(groupCtx, rt, f.metricsAddr) })
	}
	return group.Wait()
}

func serveMetrics(ctx context.Context, rt *app.Runtime, addr string) error {
	srv := &nethttp.Server{Addr: addr, Handler: promhttp.HandlerFor(rt.Registry(), promhttp.HandlerOpts{})}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return errors.Wrap(err, "metrics server failed")
	}
	return nil
}

func writeLayout(out io.Writer, format string, snap obstacles.Snapshot) error {
	if format == "json" {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return errors.Wrap(err, "marshal layout")
		}
		_, err = out.Write(append(data, '\n'))
		return err
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return errors.Wrap(err, "marshal layout")
	}
	return enc.Close()
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(config.Config))
	schema.Title = "Obstacle Layout Configuration"
	schema.Description = "Configuration accepted by obstacle-layout -config and OBSTACLES_* environment overrides."
	return schema
}

func writeSchema(out io.Writer) error {
	data, err := json.MarshalIndent(buildSchema(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal schema")
	}
	_, err = out.Write(append(data, '\n'))
	return err
}
