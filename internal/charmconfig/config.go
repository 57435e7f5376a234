// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package charmconfig decodes the operator supplied configuration of the
// charm into the overrides merged into every scrape job.
package charmconfig

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/schema"
	"github.com/mohae/deepcopy"
	"github.com/prometheus/common/model"
	"gopkg.in/yaml.v3"
)

// Config is the decoded charm configuration.
type Config struct {
	overrides         map[string]interface{}
	forwardAlertRules bool
	ignored           []string
}

// Parse decodes the raw settings returned by config-get. Keys are
// normalised so that "scrape-interval" and "scrape_interval" are the same
// option. Unset and empty values are dropped; unknown keys are recorded
// and otherwise ignored.
func Parse(settings map[string]interface{}) (*Config, error) {
	attrs := make(map[string]interface{}, len(settings))
	var unknown []string
	known := set.NewStrings()
	for _, opt := range Options {
		known.Add(opt.Name)
	}
	for k, v := range settings {
		name := strings.ReplaceAll(k, "-", "_")
		if !known.Contains(name) {
			unknown = append(unknown, name)
			continue
		}
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		attrs[name] = v
	}
	sort.Strings(unknown)

	checker := schema.FieldMap(fields(), defaults())
	coerced, err := checker.Coerce(attrs, nil)
	if err != nil {
		return nil, errors.Annotate(err, "coercing charm config")
	}
	values := coerced.(map[string]interface{})

	cfg := &Config{
		overrides: make(map[string]interface{}),
		ignored:   unknown,
	}
	for _, opt := range Options {
		v, ok := values[opt.Name]
		if !ok {
			continue
		}
		if opt.Validate != nil {
			if err := opt.Validate(v); err != nil {
				return nil, errors.Annotatef(err, "option %q", opt.Name)
			}
		}
		switch opt.Decoding {
		case Control:
			if opt.Name == ForwardAlertRules {
				cfg.forwardAlertRules = v.(bool)
			}
		case YAML:
			decoded, err := decodeYAMLList(v.(string))
			if err != nil {
				return nil, errors.Annotatef(err, "option %q", opt.Name)
			}
			cfg.overrides[opt.Name] = decoded
		default:
			cfg.overrides[opt.Name] = v
		}
	}
	if err := cfg.validateTimeout(); err != nil {
		return nil, errors.Trace(err)
	}
	return cfg, nil
}

// validateTimeout rejects a timeout longer than the interval, which
// Prometheus refuses to load.
func (c *Config) validateTimeout() error {
	interval, ok1 := c.overrides[ScrapeInterval].(string)
	timeout, ok2 := c.overrides[ScrapeTimeout].(string)
	if !ok1 || !ok2 {
		return nil
	}
	i, err := model.ParseDuration(interval)
	if err != nil {
		return errors.Trace(err)
	}
	t, err := model.ParseDuration(timeout)
	if err != nil {
		return errors.Trace(err)
	}
	if t > i {
		return errors.NotValidf("scrape_timeout %q greater than scrape_interval %q", timeout, interval)
	}
	return nil
}

// Overrides returns the values merged into every scrape job.
func (c *Config) Overrides() map[string]interface{} {
	result := make(map[string]interface{}, len(c.overrides))
	for k, v := range c.overrides {
		result[k] = v
	}
	return result
}

// ForwardAlertRules reports whether alert rule groups received from
// providers are passed on to consumers.
func (c *Config) ForwardAlertRules() bool {
	return c.forwardAlertRules
}

// Effective returns every option currently in force, including the ones
// that only steer the charm.
func (c *Config) Effective() map[string]interface{} {
	result := c.Overrides()
	result[ForwardAlertRules] = c.forwardAlertRules
	return result
}

// Ignored returns the sorted names of settings that are not charm options.
func (c *Config) Ignored() []string {
	return c.ignored
}

// Apply returns a shallow copy of job with every override written over it.
// An override replaces a key of the same name. Structured overrides are
// copied so that jobs never share them.
func (c *Config) Apply(job map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(job)+len(c.overrides))
	for k, v := range job {
		merged[k] = v
	}
	for k, v := range c.overrides {
		merged[k] = deepcopy.Copy(v)
	}
	return merged
}

func decodeYAMLList(text string) ([]interface{}, error) {
	var decoded interface{}
	if err := yaml.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, errors.Annotate(err, "decoding YAML")
	}
	if decoded == nil {
		return []interface{}{}, nil
	}
	list, ok := decoded.([]interface{})
	if !ok {
		return nil, errors.NotValidf("YAML value of type %T, expected a list", decoded)
	}
	return normalise(list).([]interface{}), nil
}

// normalise converts any map[interface{}]interface{} produced by the YAML
// decoder into map[string]interface{} so the value can be encoded as JSON.
func normalise(v interface{}) interface{} {
	switch v := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, val := range v {
			m[fmt.Sprint(k)] = normalise(val)
		}
		return m
	case map[string]interface{}:
		for k, val := range v {
			v[k] = normalise(val)
		}
		return v
	case []interface{}:
		for i, val := range v {
			v[i] = normalise(val)
		}
		return v
	}
	return v
}
