// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hooktools

import (
	"os"
	"strings"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"

	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/relation"
)

// hookRelation reads and writes relation data through relation-get,
// relation-list and relation-set.
type hookRelation struct {
	host     *Host
	id       int
	endpoint string

	remoteApp string
}

var _ relation.Relation = (*hookRelation)(nil)

// ID is part of the relation.Relation interface.
func (r *hookRelation) ID() int {
	return r.id
}

// Endpoint is part of the relation.Relation interface.
func (r *hookRelation) Endpoint() string {
	return r.endpoint
}

// RemoteApplication is part of the relation.Relation interface.
func (r *hookRelation) RemoteApplication() (string, error) {
	if r.remoteApp != "" {
		return r.remoteApp, nil
	}
	var app string
	if err := r.host.runJSON(&app, "relation-list", "-r", relation.Tag(r), "--app"); err != nil {
		return "", errors.Annotatef(err, "reading remote application of %s", relation.Tag(r))
	}
	if app == "" {
		return "", errors.NotFoundf("remote application of %s", relation.Tag(r))
	}
	r.remoteApp = app
	return app, nil
}

// ApplicationSettings is part of the relation.Relation interface.
func (r *hookRelation) ApplicationSettings() (relation.Settings, error) {
	app, err := r.RemoteApplication()
	if err != nil {
		return nil, errors.Trace(err)
	}
	settings := make(relation.Settings)
	if err := r.host.runJSON(&settings, "relation-get", "-r", relation.Tag(r), "--app", "-", app); err != nil {
		return nil, errors.Annotatef(err, "reading application data of %s", relation.Tag(r))
	}
	return settings, nil
}

// Units is part of the relation.Relation interface.
func (r *hookRelation) Units() ([]string, error) {
	var units []string
	if err := r.host.runJSON(&units, "relation-list", "-r", relation.Tag(r)); err != nil {
		return nil, errors.Annotatef(err, "listing units of %s", relation.Tag(r))
	}
	return units, nil
}

// UnitSettings is part of the relation.Relation interface. A unit that has
// already left the relation is reported as not found.
func (r *hookRelation) UnitSettings(unitName string) (relation.Settings, error) {
	settings := make(relation.Settings)
	err := r.host.runJSON(&settings, "relation-get", "-r", relation.Tag(r), "-", unitName)
	if toolErr, ok := errors.Cause(err).(*toolError); ok && isNotFound(toolErr.stderr) {
		return nil, errors.NotFoundf("unit %q in relation %s", unitName, relation.Tag(r))
	}
	if err != nil {
		return nil, errors.Annotatef(err, "reading data of unit %q in %s", unitName, relation.Tag(r))
	}
	return settings, nil
}

func isNotFound(stderr string) bool {
	return strings.Contains(stderr, "not found") || strings.Contains(stderr, "cannot read settings")
}

// SetApplicationSettings is part of the relation.Relation interface. The
// settings are passed to relation-set in a file, since the encoded scrape
// jobs are too large and too awkward to quote on the command line.
func (r *hookRelation) SetApplicationSettings(settings relation.Settings) error {
	data, err := yaml.Marshal(map[string]string(settings))
	if err != nil {
		return errors.Trace(err)
	}
	f, err := os.CreateTemp("", "relation-set-*.yaml")
	if err != nil {
		return errors.Trace(err)
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return errors.Trace(err)
	}
	if err := f.Close(); err != nil {
		return errors.Trace(err)
	}
	r.host.config.Logger.Debugf("setting %v on %s", sortedKeys(settings), relation.Tag(r))
	_, err = r.host.run("relation-set", "-r", relation.Tag(r), "--app", "--file", f.Name())
	return errors.Annotatef(err, "writing application data of %s", relation.Tag(r))
}
