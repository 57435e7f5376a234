// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package charm runs the prometheus-scrape-config charm for a single
// dispatched hook or action.
package charm

import (
	"github.com/juju/errors"

	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/logger"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/hook"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/internal/reconciler"
)

const (
	// ProviderEndpoint is the endpoint scrape jobs are received on.
	ProviderEndpoint = "configurable-scrape-jobs"

	// ConsumerEndpoint is the endpoint the merged scrape jobs are
	// published on.
	ConsumerEndpoint = "metrics-endpoint"

	// ShowConfigAction reports the configuration merged into every job.
	ShowConfigAction = "show-config"
)

// Host is the unit agent as seen by the charm.
type Host interface {
	reconciler.Host

	// ConfigSettings returns the charm configuration.
	ConfigSettings() (map[string]interface{}, error)

	// ActionSet records the results of the running action.
	ActionSet(map[string]interface{}) error

	// ActionFail marks the running action as failed.
	ActionFail(message string) error
}

// Config holds the dependencies of a Charm.
type Config struct {
	Host   Host
	Logger logger.Logger
}

// Validate returns an error if the config cannot be used to create a
// Charm.
func (config Config) Validate() error {
	if config.Host == nil {
		return errors.NotValidf("nil Host")
	}
	if config.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	return nil
}

// Charm handles the events dispatched to a unit.
type Charm struct {
	config Config
}

// New returns a Charm using the given config.
func New(config Config) (*Charm, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Charm{config: config}, nil
}

// Run handles a single event. Hooks that affect the published scrape
// configuration cause a full reconciliation; actions are run and their
// outcome recorded with action-set or action-fail. An error is returned
// when the hook should be reported as failed so that the agent retries it.
func (ch *Charm) Run(info hook.Info) error {
	logger := ch.config.Logger
	if err := info.Validate(); errors.Is(err, errors.NotSupported) {
		logger.Debugf("ignoring %v", err)
		return nil
	} else if err != nil {
		return errors.Trace(err)
	}
	if info.Kind != hook.Action && !info.Kind.Reconciles() {
		logger.Debugf("nothing to do for %q", info.Kind)
		return nil
	}

	settings, err := ch.config.Host.ConfigSettings()
	if err != nil {
		return errors.Trace(err)
	}
	r, err := reconciler.New(reconciler.Config{
		Host:     ch.config.Host,
		Settings: settings,
		Logger:   logger,
	})
	if err != nil {
		return errors.Trace(err)
	}

	if info.Kind == hook.Action {
		return errors.Trace(ch.runAction(r, info.ActionName))
	}
	state, err := r.Reconcile(info)
	if err != nil {
		return errors.Annotatef(err, "handling %q", info.Kind)
	}
	logger.Debugf("%q left the unit %s", info.Kind, state)
	return nil
}

func (ch *Charm) runAction(r *reconciler.Reconciler, name string) error {
	switch name {
	case ShowConfigAction:
		result, err := r.ShowConfig()
		if err != nil {
			ch.config.Logger.Warningf("%s: %v", name, err)
			return errors.Trace(ch.config.Host.ActionFail(err.Error()))
		}
		return errors.Trace(ch.config.Host.ActionSet(result))
	}
	return errors.NotSupportedf("action %q", name)
}
