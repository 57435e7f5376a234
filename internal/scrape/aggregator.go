// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package scrape collects the scrape jobs and alert rules published by
// metrics providers.
package scrape

import (
	"github.com/juju/errors"
	"github.com/juju/names/v5"
	"github.com/juju/naturalsort"

	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/logger"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/relation"
)

// Keys read from the provider side of a relation.
const (
	ScrapeJobsKey     = "scrape_jobs"
	AlertRulesKey     = "alert_rules"
	ScrapeMetadataKey = "scrape_metadata"

	UnitAddressKey = "prometheus_scrape_unit_address"
	UnitNameKey    = "prometheus_scrape_unit_name"
)

// Aggregator collects the jobs and alert rule groups published on a set
// of provider relations. It only reads relation data.
type Aggregator struct {
	relations []relation.Relation
	logger    logger.Logger
}

// NewAggregator returns an Aggregator over the given provider relations.
// Relations are visited in ascending id order.
func NewAggregator(relations []relation.Relation, logger logger.Logger) *Aggregator {
	return &Aggregator{
		relations: relation.SortByID(relations),
		logger:    logger,
	}
}

// CollectJobs returns the jobs published by every provider, expanded
// against the units of that provider, in relation order and then in the
// order each provider listed them. A provider that has published nothing,
// or something that cannot be decoded, contributes no jobs. Only failures
// to read relation data are returned as errors.
func (a *Aggregator) CollectJobs() ([]Job, error) {
	jobs := []Job{}
	for _, rel := range a.relations {
		relJobs, err := a.relationJobs(rel)
		if err != nil {
			return nil, errors.Annotatef(err, "collecting jobs from relation %s", relation.Tag(rel))
		}
		jobs = append(jobs, relJobs...)
	}
	return jobs, nil
}

func (a *Aggregator) relationJobs(rel relation.Relation) ([]Job, error) {
	data, err := rel.ApplicationSettings()
	if err != nil {
		return nil, errors.Trace(err)
	}
	raw, ok := data[ScrapeJobsKey]
	if !ok || raw == "" {
		a.logger.Debugf("relation %s has no scrape jobs yet", relation.Tag(rel))
		return nil, nil
	}
	var decoded []interface{}
	if err := decodeJSON(raw, &decoded); err != nil {
		a.logger.Warningf("ignoring scrape jobs of relation %s: %v", relation.Tag(rel), err)
		return nil, nil
	}

	topology := a.topology(rel, data)
	hosts, err := a.hosts(rel)
	if err != nil {
		return nil, errors.Trace(err)
	}

	var jobs []Job
	for i, entry := range decoded {
		job, ok := entry.(map[string]interface{})
		if !ok {
			a.logger.Warningf("ignoring scrape job %d of relation %s: expected an object, got %T", i, relation.Tag(rel), entry)
			continue
		}
		jobs = append(jobs, expandJob(job, hosts, topology, a.logger))
	}
	return jobs, nil
}

// topology returns the provider's topology, or nil if it has not published
// valid scrape metadata.
func (a *Aggregator) topology(rel relation.Relation, data relation.Settings) *Topology {
	raw, ok := data[ScrapeMetadataKey]
	if !ok || raw == "" {
		return nil
	}
	topology, err := ParseTopology(raw)
	if err != nil {
		a.logger.Warningf("ignoring scrape metadata of relation %s: %v", relation.Tag(rel), err)
		return nil
	}
	return topology
}

// hosts returns the units of the relation that have published an address,
// in natural unit name order.
func (a *Aggregator) hosts(rel relation.Relation) ([]Host, error) {
	units, err := rel.Units()
	if err != nil {
		return nil, errors.Trace(err)
	}
	sorted := make([]string, len(units))
	copy(sorted, units)
	naturalsort.Sort(sorted)

	var hosts []Host
	for _, unit := range sorted {
		data, err := rel.UnitSettings(unit)
		if errors.Is(err, errors.NotFound) {
			continue
		} else if err != nil {
			return nil, errors.Annotatef(err, "reading data of unit %q", unit)
		}
		address := data[UnitAddressKey]
		if address == "" {
			continue
		}
		name := data[UnitNameKey]
		if name == "" {
			name = unit
		} else if !names.IsValidUnit(name) {
			a.logger.Warningf("unit %q published invalid unit name %q", unit, name)
			name = unit
		}
		hosts = append(hosts, Host{Unit: name, Address: address})
	}
	return hosts, nil
}

// CollectAlerts returns the alert rule groups published by every provider,
// in relation order. A provider whose rules cannot be decoded contributes
// no groups.
func (a *Aggregator) CollectAlerts() ([]AlertGroup, error) {
	groups := []AlertGroup{}
	for _, rel := range a.relations {
		relGroups, err := a.relationAlerts(rel)
		if err != nil {
			return nil, errors.Annotatef(err, "collecting alert rules from relation %s", relation.Tag(rel))
		}
		groups = append(groups, relGroups...)
	}
	return groups, nil
}

func (a *Aggregator) relationAlerts(rel relation.Relation) ([]AlertGroup, error) {
	data, err := rel.ApplicationSettings()
	if err != nil {
		return nil, errors.Trace(err)
	}
	raw, ok := data[AlertRulesKey]
	if !ok || raw == "" {
		return nil, nil
	}
	var decoded struct {
		Groups []interface{} `json:"groups"`
	}
	if err := decodeJSON(raw, &decoded); err != nil {
		a.logger.Warningf("ignoring alert rules of relation %s: %v", relation.Tag(rel), err)
		return nil, nil
	}

	topology := a.topology(rel, data)
	var groups []AlertGroup
	for i, entry := range decoded.Groups {
		group, ok := entry.(map[string]interface{})
		if !ok {
			a.logger.Warningf("ignoring alert rule group %d of relation %s: expected an object, got %T", i, relation.Tag(rel), entry)
			continue
		}
		if topology != nil {
			group = applyRuleLabels(group, topology.RuleLabels())
		}
		groups = append(groups, AlertGroup(group))
	}
	return groups, nil
}
