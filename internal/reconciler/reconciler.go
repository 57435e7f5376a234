// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package reconciler decides, on every dispatched event, whether and what
// to publish to the consumers of the merged scrape configuration.
package reconciler

import (
	"github.com/juju/errors"

	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/logger"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/relation"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/status"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/hook"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/internal/charmconfig"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/internal/scrape"
)

// Host is the part of the Juju agent the reconciler talks to.
type Host interface {
	// IsLeader reports whether this unit is the application leader.
	IsLeader() (bool, error)

	// ListProviderRelations returns the relations to applications
	// contributing scrape jobs.
	ListProviderRelations() ([]relation.Relation, error)

	// ListConsumerRelations returns the relations to applications
	// receiving the merged scrape jobs.
	ListConsumerRelations() ([]relation.Relation, error)

	// SetStatus sets the workload status of the unit.
	SetStatus(status.StatusInfo) error
}

// Config holds the dependencies and configuration of a Reconciler.
type Config struct {
	Host Host

	// Settings holds the charm configuration as returned by config-get.
	Settings map[string]interface{}

	Logger logger.Logger
}

// Validate returns an error if the config cannot be used to create a
// Reconciler.
func (config Config) Validate() error {
	if config.Host == nil {
		return errors.NotValidf("nil Host")
	}
	if config.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	return nil
}

// Reconciler publishes the merged scrape configuration.
type Reconciler struct {
	config Config
}

// New returns a Reconciler using the given config.
func New(config Config) (*Reconciler, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Reconciler{config: config}, nil
}

// Reconcile evaluates the current state from scratch and, if this unit is
// the leader and both sides are related, publishes the merged scrape jobs
// and alert rules to every consumer. The returned State is also reflected
// in the unit's status. An error is returned only if the host could not be
// read from or written to; in that case some consumers may not have been
// updated, and the next dispatched event tries again.
func (r *Reconciler) Reconcile(info hook.Info) (State, error) {
	logger := r.config.Logger
	host := r.config.Host

	leader, err := host.IsLeader()
	if err != nil {
		return "", errors.Annotate(err, "checking leadership")
	}
	if !leader {
		logger.Debugf("not leader, leaving relation data alone")
		return r.setState(Waiting, "")
	}

	consumers, err := host.ListConsumerRelations()
	if err != nil {
		return "", errors.Annotate(err, "listing consumer relations")
	}
	providers, err := host.ListProviderRelations()
	if err != nil {
		return "", errors.Annotate(err, "listing provider relations")
	}
	if info.Kind == hook.RelationBroken {
		logger.Debugf("relation %d is going away", info.RelationId)
		consumers = relation.Exclude(consumers, info.RelationId)
		providers = relation.Exclude(providers, info.RelationId)
	}

	if len(consumers) == 0 {
		return r.setState(BlockedNoConsumer, "")
	}
	if len(providers) == 0 {
		return r.setState(BlockedNoProvider, "")
	}

	cfg, err := charmconfig.Parse(r.config.Settings)
	if err != nil {
		logger.Errorf("invalid charm config: %v", err)
		return r.setState(BlockedInvalidConfig, err.Error())
	}
	if ignored := cfg.Ignored(); len(ignored) > 0 {
		logger.Debugf("ignoring unknown config options %v", ignored)
	}

	if _, err := r.setState(Reconciling, ""); err != nil {
		return "", errors.Trace(err)
	}
	payload, err := r.payload(providers, cfg)
	if err != nil {
		return "", errors.Trace(err)
	}
	for _, consumer := range relation.SortByID(consumers) {
		if err := consumer.SetApplicationSettings(payload.Settings()); err != nil {
			return "", errors.Annotatef(err, "publishing to relation %s", relation.Tag(consumer))
		}
	}
	logger.Infof("published scrape configuration from %d provider(s) to %d consumer(s)", len(providers), len(consumers))
	return r.setState(Active, "")
}

func (r *Reconciler) payload(providers []relation.Relation, cfg *charmconfig.Config) (Payload, error) {
	aggregator := scrape.NewAggregator(providers, r.config.Logger)
	jobs, err := aggregator.CollectJobs()
	if err != nil {
		return Payload{}, errors.Trace(err)
	}
	groups, err := aggregator.CollectAlerts()
	if err != nil {
		return Payload{}, errors.Trace(err)
	}
	r.config.Logger.Debugf("collected %d job(s) and %d alert rule group(s)", len(jobs), len(groups))
	payload, err := BuildPayload(jobs, groups, cfg)
	return payload, errors.Trace(err)
}

func (r *Reconciler) setState(state State, detail string) (State, error) {
	if err := r.config.Host.SetStatus(statusFor(state, detail)); err != nil {
		return "", errors.Annotatef(err, "setting status for %s", state)
	}
	return state, nil
}

// ShowConfig returns the configuration currently in force. It has no side
// effects and may be called on any unit.
func (r *Reconciler) ShowConfig() (map[string]interface{}, error) {
	cfg, err := charmconfig.Parse(r.config.Settings)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return cfg.Effective(), nil
}
