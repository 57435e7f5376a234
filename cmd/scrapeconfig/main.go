// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Command scrape-config is run by the charm's dispatch script for every
// hook and action delivered to a unit of prometheus-scrape-config.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo/v2"

	"github.com/canonical/prometheus-scrape-config-k8s-operator/hook"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/internal/charm"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/internal/hooktools"
)

var logger = loggo.GetLogger("scrapeconfig")

const (
	// exitFailure is returned when the hook or action failed and the agent
	// should retry it.
	exitFailure = 1
	// exitUsage is returned when the binary was run in an invalid way.
	exitUsage = 2
	// exitPanic is returned when we exit due to an unhandled panic.
	exitPanic = 3
)

const defaultLoggingConfig = "<root>=INFO"

type options struct {
	loggingConfig string
	dispatchPath  string
}

func parseArgs(args []string) (options, error) {
	name := "scrape-config"
	if len(args) > 0 {
		name = filepath.Base(args[0])
		args = args[1:]
	}
	flags := gnuflag.NewFlagSet(name, gnuflag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts options
	flags.StringVar(&opts.loggingConfig, "log-level", "",
		"logging configuration, e.g. <root>=DEBUG (defaults to $JUJU_LOGGING_CONFIG)")
	flags.StringVar(&opts.dispatchPath, "dispatch-path", "",
		"hook or action to handle, e.g. hooks/config-changed (defaults to $JUJU_DISPATCH_PATH)")
	if err := flags.Parse(true, args); err != nil {
		return options{}, errors.Trace(err)
	}
	if flags.NArg() > 0 {
		return options{}, errors.Errorf("unrecognized args: %q", flags.Args())
	}
	return opts, nil
}

// eventInfo returns the event to handle, preferring the dispatch path given
// on the command line over the one set by the agent.
func eventInfo(opts options, getenv func(string) string) (hook.Info, error) {
	if opts.dispatchPath != "" {
		inner := getenv
		getenv = func(key string) string {
			if key == "JUJU_DISPATCH_PATH" {
				return opts.dispatchPath
			}
			return inner(key)
		}
	}
	info, err := hook.FromEnvironment(getenv)
	return info, errors.Trace(err)
}

func setupLogging(host *hooktools.Host, stderr io.Writer, config string) error {
	if _, err := loggo.ReplaceDefaultWriter(hooktools.NewLogWriter(host, stderr)); err != nil {
		return errors.Trace(err)
	}
	if config == "" {
		config = defaultLoggingConfig
	}
	return errors.Trace(loggo.ConfigureLoggers(config))
}

func run(args []string, getenv func(string) string, runner hooktools.CommandRunner, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR %v\n", err)
		return exitUsage
	}

	host, err := hooktools.NewHost(hooktools.Config{
		Runner:           runner,
		ProviderEndpoint: charm.ProviderEndpoint,
		ConsumerEndpoint: charm.ConsumerEndpoint,
		Logger:           logger.Child("hooktools"),
	})
	if err != nil {
		fmt.Fprintf(stderr, "ERROR %v\n", err)
		return exitFailure
	}
	loggingConfig := opts.loggingConfig
	if loggingConfig == "" {
		loggingConfig = getenv("JUJU_LOGGING_CONFIG")
	}
	if err := setupLogging(host, stderr, loggingConfig); err != nil {
		fmt.Fprintf(stderr, "ERROR setting up logging: %v\n", err)
		return exitUsage
	}

	info, err := eventInfo(opts, getenv)
	if errors.Is(err, errors.NotSupported) {
		logger.Debugf("ignoring event: %v", err)
		return 0
	} else if err != nil {
		logger.Errorf("cannot determine event: %v", err)
		return exitFailure
	}
	ch, err := charm.New(charm.Config{
		Host:   host,
		Logger: logger.Child("charm"),
	})
	if err != nil {
		logger.Errorf("%v", err)
		return exitFailure
	}
	logger.Debugf("handling %+v", info)
	if err := ch.Run(info); err != nil {
		logger.Errorf("%v", err)
		return exitFailure
	}
	return 0
}

// Main is not redundant with main(), because it provides an entry point
// for testing with arbitrary command line arguments.
func Main(args []string) int {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			logger.Criticalf("Unhandled panic: \n%v\n%s", r, buf)
			os.Exit(exitPanic)
		}
	}()
	return run(args, os.Getenv, hooktools.DefaultRunner, os.Stderr)
}

func main() {
	os.Exit(Main(os.Args))
}
