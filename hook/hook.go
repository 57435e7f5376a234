// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package hook describes the events the Juju agent dispatches to the charm
// and how they are recovered from the dispatch environment.
package hook

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/names/v5"
)

// Kind identifies the event being dispatched.
type Kind string

const (
	Install       Kind = "install"
	Start         Kind = "start"
	ConfigChanged Kind = "config-changed"
	UpgradeCharm  Kind = "upgrade-charm"
	LeaderElected Kind = "leader-elected"
	UpdateStatus  Kind = "update-status"
	Stop          Kind = "stop"
	Remove        Kind = "remove"

	// LeaderSettingsChanged is only run on units that are not the leader.
	LeaderSettingsChanged Kind = "leader-settings-changed"

	RelationCreated  Kind = "relation-created"
	RelationJoined   Kind = "relation-joined"
	RelationChanged  Kind = "relation-changed"
	RelationDeparted Kind = "relation-departed"
	RelationBroken   Kind = "relation-broken"

	// Action is used for every action invocation; the action name is
	// held in Info.ActionName.
	Action Kind = "action"
)

var relationKinds = []Kind{
	RelationCreated,
	RelationJoined,
	RelationChanged,
	RelationDeparted,
	RelationBroken,
}

var unitKinds = []Kind{
	Install,
	Start,
	ConfigChanged,
	UpgradeCharm,
	LeaderElected,
	LeaderSettingsChanged,
	UpdateStatus,
	Stop,
	Remove,
}

// IsRelation returns whether the Kind represents a relation hook.
func (kind Kind) IsRelation() bool {
	for _, k := range relationKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Reconciles returns whether an event of this kind should cause the
// published scrape configuration to be recomputed.
func (kind Kind) Reconciles() bool {
	switch kind {
	case Stop, Remove, Action:
		return false
	}
	return kind.IsRelation() || isUnitKind(kind)
}

func isUnitKind(kind Kind) bool {
	for _, k := range unitKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Info holds details of the event being dispatched. Not all fields are
// relevant to all Kind values.
type Info struct {
	Kind Kind

	// RelationName is the endpoint the relation hook fired on. It is only
	// set when Kind indicates a relation hook.
	RelationName string

	// RelationId identifies the relation associated with the hook. It is
	// -1 unless Kind indicates a relation hook.
	RelationId int

	// RemoteUnit is the name of the unit that triggered the hook. It is
	// only set for relation hooks that concern a single unit.
	RemoteUnit string

	// ActionName is the name of the action being run. It is only set
	// when Kind is Action.
	ActionName string
}

// Validate returns an error if the info is not valid.
func (hi Info) Validate() error {
	switch {
	case hi.Kind == Action:
		if hi.ActionName == "" {
			return errors.NotValidf("action without a name")
		}
		return nil
	case hi.Kind.IsRelation():
		if hi.RelationName == "" {
			return errors.NotValidf("%q hook without a relation name", hi.Kind)
		}
		if hi.RelationId < 0 {
			return errors.NotValidf("%q hook without a relation id", hi.Kind)
		}
		switch hi.Kind {
		case RelationJoined, RelationChanged, RelationDeparted:
			if hi.RemoteUnit != "" && !names.IsValidUnit(hi.RemoteUnit) {
				return errors.NotValidf("remote unit %q", hi.RemoteUnit)
			}
		}
		return nil
	case isUnitKind(hi.Kind):
		return nil
	case hi.Kind == "":
		return errors.NotValidf("empty hook kind")
	}
	return errors.NotSupportedf("hook %q", hi.Kind)
}

var validHookName = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// FromEnvironment recovers the dispatched event from the variables the
// Juju agent sets when it runs the charm's dispatch script. The getenv
// function is usually os.Getenv. Hooks the charm does not handle are
// returned along with an error satisfying errors.NotSupported.
func FromEnvironment(getenv func(string) string) (Info, error) {
	dispatchPath := getenv("JUJU_DISPATCH_PATH")
	if dispatchPath == "" {
		return Info{}, errors.NotFoundf("JUJU_DISPATCH_PATH")
	}
	info, err := ParseDispatchPath(dispatchPath)
	if err != nil {
		return Info{}, errors.Trace(err)
	}
	switch {
	case info.Kind == Action:
		if name := getenv("JUJU_ACTION_NAME"); name != "" {
			info.ActionName = name
		}
	case info.Kind.IsRelation():
		if name := getenv("JUJU_RELATION"); name != "" {
			info.RelationName = name
		}
		relationId := getenv("JUJU_RELATION_ID")
		if relationId == "" {
			return Info{}, errors.NotFoundf("JUJU_RELATION_ID")
		}
		id, err := ParseRelationId(relationId)
		if err != nil {
			return Info{}, errors.Trace(err)
		}
		info.RelationId = id
		info.RemoteUnit = getenv("JUJU_REMOTE_UNIT")
	}
	return info, errors.Trace(info.Validate())
}

// ParseDispatchPath parses the "hooks/<name>" or "actions/<name>" path
// passed by the agent in JUJU_DISPATCH_PATH. Relation ids are not part of
// the path, so the returned relation id is always -1. Any well-formed hook
// name is accepted; use Info.Validate to find out whether it is handled.
func ParseDispatchPath(dispatchPath string) (Info, error) {
	dir, name := path.Split(path.Clean(dispatchPath))
	info := Info{RelationId: -1}
	switch strings.TrimSuffix(dir, "/") {
	case "actions":
		info.Kind = Action
		info.ActionName = name
		return info, nil
	case "hooks":
	default:
		return Info{}, errors.NotValidf("dispatch path %q", dispatchPath)
	}
	for _, kind := range relationKinds {
		suffix := "-" + string(kind)
		if strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			info.Kind = kind
			info.RelationName = strings.TrimSuffix(name, suffix)
			return info, nil
		}
	}
	if !validHookName.MatchString(name) {
		return Info{}, errors.NotValidf("hook %q", name)
	}
	info.Kind = Kind(name)
	return info, nil
}

// ParseRelationId accepts either a bare integer or the "endpoint:id" form
// used in JUJU_RELATION_ID and printed by relation-ids.
func ParseRelationId(value string) (int, error) {
	if i := strings.LastIndex(value, ":"); i >= 0 {
		value = value[i+1:]
	}
	id, err := strconv.Atoi(value)
	if err != nil || id < 0 {
		return -1, errors.NotValidf("relation id %q", value)
	}
	return id, nil
}
