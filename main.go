package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/cohesivestack/valgo"
	"github.com/joshjon/kit/config"
	"github.com/urfave/cli/v2"

	"github.com/metaed/metaed/app"
	"github.com/metaed/metaed/constants"
	"github.com/metaed/metaed/logkey"

	"github.com/joshjon/kit/log"
)

var errBuildFailed = errors.New("build produced validation errors")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancel()

	cliApp := cli.NewApp()
	cliApp.Name = constants.AppName
	cliApp.Usage = "Builds the entity repository of a model from recorded parser events"

	cliApp.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "",
			Usage:   "path to yaml config file (required if not using env vars)",
		},
		&cli.StringSliceFlag{
			Name:    "unit",
			Aliases: []string{"u"},
			Usage:   "compilation unit to build, repeatable (default: all configured units)",
		},
	}

	logger := log.NewLogger()

	cliApp.Commands = []*cli.Command{
		{
			Name:  "build",
			Usage: "[default] builds the configured compilation units",
			Action: func(c *cli.Context) error {
				f := parseFlags(c)
				var cfg app.BuildConfig
				config.Load(f.configFile, &cfg)
				logger = loggerFromConfig(cfg.Logger).With(logkey.Service, constants.AppName)

				units, err := selectUnits(cfg, f.units)
				if err != nil {
					return err
				}
				results, err := app.Run(ctx, logger, cfg, units...)
				if err != nil {
					return err
				}
				if report(os.Stdout, results) && cfg.FailOnError {
					return errBuildFailed
				}
				return nil
			},
		},
	}

	cliApp.DefaultCommand = "build"

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		logger.Error("build failed", "error", err)
		os.Exit(1)
	}
}

type flags struct {
	configFile string
	units      []string
}

func (c flags) validate() *valgo.Validation {
	v := valgo.New()
	for i, unit := range c.units {
		v.InRow("unit", i, valgo.Is(valgo.String(unit, "unit").Not().Blank()))
	}
	return v
}

func parseFlags(c *cli.Context) flags {
	f := flags{
		configFile: c.String("config"),
		units:      c.StringSlice("unit"),
	}
	exitOnInvalidFlags(c, f.validate())
	return f
}

func exitOnInvalidFlags(c *cli.Context, v *valgo.Validation) {
	if v.ToError() == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Flag errors:")

	for _, verr := range v.ToError().(*valgo.Error).Errors() {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", verr.Name(), strings.Join(verr.Messages(), ","))
	}

	fmt.Fprintln(os.Stdout) //nolint:errcheck
	cli.ShowAppHelpAndExit(c, 1)
}

func selectUnits(cfg app.BuildConfig, names []string) ([]app.UnitConfig, error) {
	units := make([]app.UnitConfig, 0, len(names))
	for _, name := range names {
		unit, ok := cfg.Unit(name)
		if !ok {
			return nil, fmt.Errorf("unknown unit: %s", name)
		}
		units = append(units, unit)
	}
	return units, nil
}

// report prints every failure and a per-unit summary. It reports whether any
// unit produced an error.
func report(w io.Writer, results []*app.UnitResult) bool {
	hasErrors := false
	for _, res := range results {
		for _, f := range res.Result.Failures {
			fmt.Fprintf(w, "%s: %s\n", res.Unit, f) //nolint:errcheck
		}
		fmt.Fprintf(w, "%s: %d entities, %d failures\n", //nolint:errcheck
			res.Unit, res.Result.Repository.Count(), len(res.Result.Failures))
		hasErrors = hasErrors || res.Result.HasErrors()
	}
	return hasErrors
}

func loggerFromConfig(cfg app.LoggerConfig) log.Logger {
	level, ok := log.ParseLevel(cfg.Level)
	if !ok {
		level = slog.LevelInfo
	}
	opts := []log.LoggerOption{log.WithLevel(level)}
	if !cfg.Structured {
		opts = append(opts, log.WithDevelopment())
	}
	return log.NewLogger(opts...)
}
