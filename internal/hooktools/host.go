// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package hooktools talks to the Juju unit agent through the hook tools
// it puts on the PATH of every hook and action.
package hooktools

import (
	"sort"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/logger"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/relation"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/status"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/hook"
)

// Config holds the dependencies of a Host.
type Config struct {
	Runner CommandRunner

	// ProviderEndpoint is the endpoint scrape jobs are received on.
	ProviderEndpoint string

	// ConsumerEndpoint is the endpoint scrape jobs are published on.
	ConsumerEndpoint string

	Logger logger.Logger
}

// Validate returns an error if the config cannot be used to create a Host.
func (config Config) Validate() error {
	if config.Runner == nil {
		return errors.NotValidf("nil Runner")
	}
	if config.ProviderEndpoint == "" {
		return errors.NotValidf("empty ProviderEndpoint")
	}
	if config.ConsumerEndpoint == "" {
		return errors.NotValidf("empty ConsumerEndpoint")
	}
	if config.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	return nil
}

// Host gives the charm access to its unit agent.
type Host struct {
	config Config
}

// NewHost returns a Host using the given config.
func NewHost(config Config) (*Host, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Host{config: config}, nil
}

func (h *Host) run(tool string, args ...string) ([]byte, error) {
	h.config.Logger.Tracef("running %s %v", tool, args)
	out, err := runTool(h.config.Runner, tool, args...)
	return out, errors.Trace(err)
}

func (h *Host) runJSON(v interface{}, tool string, args ...string) error {
	h.config.Logger.Tracef("running %s %v", tool, args)
	return errors.Trace(runToolJSON(h.config.Runner, v, tool, args...))
}

// IsLeader reports whether this unit is the application leader.
func (h *Host) IsLeader() (bool, error) {
	var leader bool
	if err := h.runJSON(&leader, "is-leader"); err != nil {
		return false, errors.Trace(err)
	}
	return leader, nil
}

// ListProviderRelations returns the relations on the provider endpoint.
func (h *Host) ListProviderRelations() ([]relation.Relation, error) {
	relations, err := h.relations(h.config.ProviderEndpoint)
	return relations, errors.Trace(err)
}

// ListConsumerRelations returns the relations on the consumer endpoint.
func (h *Host) ListConsumerRelations() ([]relation.Relation, error) {
	relations, err := h.relations(h.config.ConsumerEndpoint)
	return relations, errors.Trace(err)
}

func (h *Host) relations(endpoint string) ([]relation.Relation, error) {
	var ids []string
	if err := h.runJSON(&ids, "relation-ids", endpoint); err != nil {
		return nil, errors.Annotatef(err, "listing %q relations", endpoint)
	}
	relations := make([]relation.Relation, 0, len(ids))
	for _, tag := range ids {
		id, err := hook.ParseRelationId(tag)
		if err != nil {
			return nil, errors.Trace(err)
		}
		relations = append(relations, &hookRelation{
			host:     h,
			id:       id,
			endpoint: endpoint,
		})
	}
	return relation.SortByID(relations), nil
}

// SetStatus sets the workload status of the unit.
func (h *Host) SetStatus(info status.StatusInfo) error {
	if err := info.Validate(); err != nil {
		return errors.Trace(err)
	}
	args := []string{info.Status.String()}
	if info.Message != "" {
		args = append(args, info.Message)
	}
	_, err := h.run("status-set", args...)
	return errors.Annotatef(err, "setting status %q", info)
}

// ConfigSettings returns the charm configuration.
func (h *Host) ConfigSettings() (map[string]interface{}, error) {
	settings := make(map[string]interface{})
	if err := h.runJSON(&settings, "config-get", "--all"); err != nil {
		return nil, errors.Annotate(err, "reading charm config")
	}
	return settings, nil
}

// Log writes the message to the unit's log at the given level. It does
// not log anything itself, so it is safe to call from a loggo writer.
func (h *Host) Log(level loggo.Level, message string) error {
	_, err := runTool(h.config.Runner, "juju-log", "-l", jujuLogLevel(level), message)
	return errors.Trace(err)
}

func jujuLogLevel(level loggo.Level) string {
	switch level {
	case loggo.TRACE, loggo.DEBUG, loggo.INFO, loggo.WARNING, loggo.ERROR:
		return level.String()
	case loggo.CRITICAL:
		return loggo.ERROR.String()
	}
	return loggo.INFO.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
