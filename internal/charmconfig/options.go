// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charmconfig

import (
	"net/url"

	"github.com/juju/errors"
	"github.com/juju/schema"
	"github.com/prometheus/common/model"
)

// Decoding describes how the raw value of an option is turned into the
// value merged into each scrape job.
type Decoding int

const (
	// Scalar values are merged into jobs verbatim.
	Scalar Decoding = iota

	// YAML values are transported as YAML text and merged in their
	// decoded form.
	YAML

	// Control values steer the charm itself and are never merged into
	// jobs.
	Control
)

// String returns a human readable name for the decoding.
func (d Decoding) String() string {
	switch d {
	case Scalar:
		return "scalar"
	case YAML:
		return "yaml"
	case Control:
		return "control"
	}
	return "unknown"
}

// Option describes a single configuration option of the charm.
type Option struct {
	Name     string
	Checker  schema.Checker
	Decoding Decoding

	// Validate, if set, checks the coerced value of the option.
	Validate func(interface{}) error

	// Default is used when the operator has not set the option. Options
	// without a default are omitted and never merged into jobs.
	Default interface{}
}

const (
	ScrapeInterval        = "scrape_interval"
	ScrapeTimeout         = "scrape_timeout"
	ProxyURL              = "proxy_url"
	RelabelConfigs        = "relabel_configs"
	MetricRelabelConfigs  = "metric_relabel_configs"
	SampleLimit           = "sample_limit"
	LabelLimit            = "label_limit"
	LabelNameLengthLimit  = "label_name_length_limit"
	LabelValueLengthLimit = "label_value_length_limit"
	ForwardAlertRules     = "forward_alert_rules"
)

// Options is the table of every option the charm recognises. Any option
// added to charmcraft.yaml must be added here, and any Scalar or YAML
// option must be a valid Prometheus scrape_config key.
var Options = []Option{{
	Name:     ScrapeInterval,
	Checker:  schema.String(),
	Decoding: Scalar,
	Validate: validateDuration,
}, {
	Name:     ScrapeTimeout,
	Checker:  schema.String(),
	Decoding: Scalar,
	Validate: validateDuration,
}, {
	Name:     ProxyURL,
	Checker:  schema.String(),
	Decoding: Scalar,
	Validate: validateURL,
}, {
	Name:     RelabelConfigs,
	Checker:  schema.String(),
	Decoding: YAML,
}, {
	Name:     MetricRelabelConfigs,
	Checker:  schema.String(),
	Decoding: YAML,
}, {
	Name:     SampleLimit,
	Checker:  schema.ForceInt(),
	Decoding: Scalar,
	Validate: validateLimit,
}, {
	Name:     LabelLimit,
	Checker:  schema.ForceInt(),
	Decoding: Scalar,
	Validate: validateLimit,
}, {
	Name:     LabelNameLengthLimit,
	Checker:  schema.ForceInt(),
	Decoding: Scalar,
	Validate: validateLimit,
}, {
	Name:     LabelValueLengthLimit,
	Checker:  schema.ForceInt(),
	Decoding: Scalar,
	Validate: validateLimit,
}, {
	Name:     ForwardAlertRules,
	Checker:  schema.Bool(),
	Decoding: Control,
	Default:  true,
}}

func defaults() schema.Defaults {
	d := make(schema.Defaults, len(Options))
	for _, opt := range Options {
		if opt.Default == nil {
			d[opt.Name] = schema.Omit
			continue
		}
		d[opt.Name] = opt.Default
	}
	return d
}

func fields() schema.Fields {
	f := make(schema.Fields, len(Options))
	for _, opt := range Options {
		f[opt.Name] = opt.Checker
	}
	return f
}

// Lookup returns the option with the given name.
func Lookup(name string) (Option, bool) {
	for _, opt := range Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return Option{}, false
}

func validateDuration(v interface{}) error {
	s, _ := v.(string)
	d, err := model.ParseDuration(s)
	if err != nil {
		return errors.NotValidf("duration %q", s)
	}
	if d <= 0 {
		return errors.NotValidf("non-positive duration %q", s)
	}
	return nil
}

func validateURL(v interface{}) error {
	s, _ := v.(string)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.NotValidf("URL %q", s)
	}
	return nil
}

func validateLimit(v interface{}) error {
	i, _ := v.(int)
	if i < 0 {
		return errors.NotValidf("negative limit %d", i)
	}
	return nil
}
