// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package scrape

import (
	"strings"

	"github.com/juju/errors"
	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/common/model"
)

// Labels identifying where a target or rule came from.
const (
	ModelLabel       model.LabelName = "juju_model"
	ModelUUIDLabel   model.LabelName = "juju_model_uuid"
	ApplicationLabel model.LabelName = "juju_application"
	CharmLabel       model.LabelName = "juju_charm"
	UnitLabel        model.LabelName = "juju_unit"
)

// Topology identifies the Juju model and application a provider belongs
// to, as published in its scrape_metadata.
type Topology struct {
	Model       string `mapstructure:"model"`
	ModelUUID   string `mapstructure:"model_uuid"`
	Application string `mapstructure:"application"`
	Unit        string `mapstructure:"unit"`
	CharmName   string `mapstructure:"charm_name"`
}

// ParseTopology decodes the scrape_metadata published by a provider.
func ParseTopology(raw string) (*Topology, error) {
	var data map[string]interface{}
	if err := decodeJSON(raw, &data); err != nil {
		return nil, errors.Annotate(err, "decoding scrape metadata")
	}
	var t Topology
	if err := mapstructure.Decode(data, &t); err != nil {
		return nil, errors.Annotate(err, "decoding scrape metadata")
	}
	if err := t.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &t, nil
}

// Validate returns an error if the topology cannot identify a provider.
func (t Topology) Validate() error {
	if t.Model == "" {
		return errors.NotValidf("topology without model")
	}
	if t.ModelUUID == "" {
		return errors.NotValidf("topology without model uuid")
	}
	if t.Application == "" {
		return errors.NotValidf("topology without application")
	}
	return nil
}

// Identifier returns a string uniquely identifying the application across
// models.
func (t Topology) Identifier() string {
	return strings.Join([]string{t.Model, t.ModelUUID, t.Application}, "_")
}

// JobName returns the name a provider's job is published under.
func (t Topology) JobName(name string) string {
	prefix := "juju_" + t.Identifier() + "_prometheus_scrape"
	if name == "" {
		return prefix
	}
	return prefix + "_" + name
}

// Labels returns the labels identifying the application. If unit is not
// empty the unit label is included.
func (t Topology) Labels(unit string) model.LabelSet {
	labels := model.LabelSet{
		ModelLabel:       model.LabelValue(t.Model),
		ModelUUIDLabel:   model.LabelValue(t.ModelUUID),
		ApplicationLabel: model.LabelValue(t.Application),
	}
	if t.CharmName != "" {
		labels[CharmLabel] = model.LabelValue(t.CharmName)
	}
	if unit != "" {
		labels[UnitLabel] = model.LabelValue(unit)
	}
	return labels
}

// RuleLabels returns the labels added to every alert rule. Rules are
// evaluated per application, so the unit label is never included.
func (t Topology) RuleLabels() model.LabelSet {
	return model.LabelSet{
		ModelLabel:       model.LabelValue(t.Model),
		ModelUUIDLabel:   model.LabelValue(t.ModelUUID),
		ApplicationLabel: model.LabelValue(t.Application),
	}
}
