// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package scrape

import (
	"strings"

	"github.com/juju/errors"
	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/common/model"

	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/logger"
)

// Job is a Prometheus scrape job descriptor as exchanged over relation
// data. Keys the charm does not understand are carried through untouched.
type Job map[string]interface{}

const (
	jobNameKey       = "job_name"
	staticConfigsKey = "static_configs"
	targetsKey       = "targets"
	labelsKey        = "labels"

	// wildcardHost is the host part of a target that stands for the
	// address of every unit of the providing application.
	wildcardHost = "*"
)

// Host is a unit of a provider application with a known address.
type Host struct {
	Unit    string
	Address string
}

// staticConfig is the decoded form of one entry of static_configs.
type staticConfig struct {
	Targets []string               `mapstructure:"targets"`
	Labels  map[string]interface{} `mapstructure:"labels"`
	Other   map[string]interface{} `mapstructure:",remain"`
}

// expandJob returns a copy of job with every wildcard target replaced by
// the addresses of hosts, and with topology applied when it is known.
// Static configs that cannot be decoded are passed on untouched.
func expandJob(job Job, hosts []Host, topology *Topology, logger logger.Logger) Job {
	out := make(Job, len(job))
	for k, v := range job {
		out[k] = v
	}
	if topology != nil {
		name, _ := job[jobNameKey].(string)
		out[jobNameKey] = topology.JobName(name)
	}
	configs, ok := job[staticConfigsKey].([]interface{})
	if !ok {
		return out
	}
	var expanded []interface{}
	for i, raw := range configs {
		result, err := expandStaticConfig(raw, hosts, topology)
		if err != nil {
			logger.Warningf("leaving static config %d as it is: %v", i, err)
			expanded = append(expanded, raw)
			continue
		}
		expanded = append(expanded, result...)
	}
	if expanded == nil {
		expanded = []interface{}{}
	}
	out[staticConfigsKey] = expanded
	return out
}

// expandStaticConfig splits a static config into one config holding the
// fixed targets and one config per host holding the wildcard targets
// rewritten to that host's address. A config is returned as given when
// it has nothing to rewrite.
func expandStaticConfig(raw interface{}, hosts []Host, topology *Topology) ([]interface{}, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.NotValidf("static config of type %T", raw)
	}
	var sc staticConfig
	if err := mapstructure.Decode(m, &sc); err != nil {
		return nil, errors.Trace(err)
	}
	_, hasLabels := m[labelsKey]

	var fixed, ports []string
	for _, target := range sc.Targets {
		if port, ok := wildcardPort(target); ok {
			ports = append(ports, port)
			continue
		}
		fixed = append(fixed, target)
	}

	if topology == nil && (len(ports) == 0 || len(hosts) == 0) {
		return []interface{}{raw}, nil
	}

	var result []interface{}
	if len(fixed) > 0 || len(ports) == 0 {
		result = append(result, sc.build(fixed, hasLabels, topology, ""))
	}
	if len(ports) == 0 {
		return result, nil
	}
	if len(hosts) == 0 {
		var wildcards []string
		for _, target := range sc.Targets {
			if _, ok := wildcardPort(target); ok {
				wildcards = append(wildcards, target)
			}
		}
		return append(result, sc.build(wildcards, hasLabels, topology, "")), nil
	}
	for _, host := range hosts {
		targets := make([]string, len(ports))
		for i, port := range ports {
			targets[i] = host.Address + ":" + port
		}
		result = append(result, sc.build(targets, hasLabels, topology, host.Unit))
	}
	return result, nil
}

// wildcardPort returns the port of a "*:port" target.
func wildcardPort(target string) (string, bool) {
	host, port, found := strings.Cut(target, ":")
	if !found || host != wildcardHost {
		return "", false
	}
	return port, true
}

func (sc staticConfig) build(targets []string, hasLabels bool, topology *Topology, unit string) map[string]interface{} {
	out := make(map[string]interface{}, len(sc.Other)+2)
	for k, v := range sc.Other {
		out[k] = v
	}
	if targets == nil {
		targets = []string{}
	}
	out[targetsKey] = targets

	labels := make(map[string]interface{}, len(sc.Labels))
	for k, v := range sc.Labels {
		labels[k] = v
	}
	if topology != nil {
		for k, v := range topology.Labels(unit) {
			labels[string(k)] = string(v)
		}
	}
	if hasLabels || len(labels) > 0 {
		out[labelsKey] = labels
	}
	return out
}

// AlertGroup is a Prometheus alert rule group, with a name and a list of
// rules. It is otherwise opaque to the charm.
type AlertGroup map[string]interface{}

// applyRuleLabels adds the topology labels to every rule of the group.
func applyRuleLabels(group AlertGroup, labels model.LabelSet) AlertGroup {
	out := make(AlertGroup, len(group))
	for k, v := range group {
		out[k] = v
	}
	rules, ok := group["rules"].([]interface{})
	if !ok {
		return out
	}
	labelled := make([]interface{}, len(rules))
	for i, raw := range rules {
		rule, ok := raw.(map[string]interface{})
		if !ok {
			labelled[i] = raw
			continue
		}
		newRule := make(map[string]interface{}, len(rule)+1)
		for k, v := range rule {
			newRule[k] = v
		}
		ruleLabels := make(map[string]interface{})
		if existing, ok := rule[labelsKey].(map[string]interface{}); ok {
			for k, v := range existing {
				ruleLabels[k] = v
			}
		}
		for name, value := range labels {
			ruleLabels[string(name)] = string(value)
		}
		newRule[labelsKey] = ruleLabels
		labelled[i] = newRule
	}
	out["rules"] = labelled
	return out
}
