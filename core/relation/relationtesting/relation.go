// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package relationtesting

import (
	"github.com/juju/errors"

	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/relation"
)

// Relation is an in-memory relation.Relation. Units are reported in the
// order they were added.
type Relation struct {
	Id          int
	Name        string
	Application string

	// AppData is the data published by the remote application.
	AppData relation.Settings

	// LocalAppData records what the local application wrote.
	LocalAppData relation.Settings

	// Writes counts calls to SetApplicationSettings.
	Writes int

	// SetErr, if set, is returned by SetApplicationSettings.
	SetErr error

	units    []string
	unitData map[string]relation.Settings
}

var _ relation.Relation = (*Relation)(nil)

// NewRelation returns an empty relation with the given id, endpoint and
// remote application.
func NewRelation(id int, endpoint, application string) *Relation {
	return &Relation{
		Id:          id,
		Name:        endpoint,
		Application: application,
		unitData:    make(map[string]relation.Settings),
	}
}

// WithAppData sets the remote application data and returns the relation.
func (r *Relation) WithAppData(data relation.Settings) *Relation {
	r.AppData = data
	return r
}

// AddUnit adds a remote unit with the given data.
func (r *Relation) AddUnit(name string, data relation.Settings) *Relation {
	if r.unitData == nil {
		r.unitData = make(map[string]relation.Settings)
	}
	if _, ok := r.unitData[name]; !ok {
		r.units = append(r.units, name)
	}
	r.unitData[name] = data
	return r
}

// ID is part of the relation.Relation interface.
func (r *Relation) ID() int {
	return r.Id
}

// Endpoint is part of the relation.Relation interface.
func (r *Relation) Endpoint() string {
	return r.Name
}

// RemoteApplication is part of the relation.Relation interface.
func (r *Relation) RemoteApplication() (string, error) {
	return r.Application, nil
}

// ApplicationSettings is part of the relation.Relation interface.
func (r *Relation) ApplicationSettings() (relation.Settings, error) {
	return copySettings(r.AppData), nil
}

// Units is part of the relation.Relation interface.
func (r *Relation) Units() ([]string, error) {
	units := make([]string, len(r.units))
	copy(units, r.units)
	return units, nil
}

// UnitSettings is part of the relation.Relation interface.
func (r *Relation) UnitSettings(unitName string) (relation.Settings, error) {
	data, ok := r.unitData[unitName]
	if !ok {
		return nil, errors.NotFoundf("unit %q in relation %d", unitName, r.Id)
	}
	return copySettings(data), nil
}

// SetApplicationSettings is part of the relation.Relation interface.
func (r *Relation) SetApplicationSettings(settings relation.Settings) error {
	if r.SetErr != nil {
		return r.SetErr
	}
	r.Writes++
	if r.LocalAppData == nil {
		r.LocalAppData = make(relation.Settings)
	}
	for k, v := range settings {
		r.LocalAppData[k] = v
	}
	return nil
}

func copySettings(in relation.Settings) relation.Settings {
	out := make(relation.Settings, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
