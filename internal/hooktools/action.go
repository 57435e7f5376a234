// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hooktools

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/juju/errors"
)

var validActionKey = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`)

// ActionKey returns the form of name accepted by action-set, which does not
// allow underscores.
func ActionKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", "-"))
}

// ActionValue renders a result value for action-set. Strings are passed
// through and structured values are encoded as JSON.
func ActionValue(v interface{}) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case bool, int, int64, float64, json.Number:
		return fmt.Sprint(v), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Trace(err)
	}
	return string(data), nil
}

// ActionSet records the results of the running action.
func (h *Host) ActionSet(results map[string]interface{}) error {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]string, 0, len(names))
	for _, name := range names {
		key := ActionKey(name)
		if !validActionKey.MatchString(key) {
			return errors.NotValidf("action result key %q", name)
		}
		value, err := ActionValue(results[name])
		if err != nil {
			return errors.Annotatef(err, "rendering action result %q", name)
		}
		args = append(args, key+"="+value)
	}
	if len(args) == 0 {
		return nil
	}
	_, err := h.run("action-set", args...)
	return errors.Annotate(err, "setting action results")
}

// ActionFail marks the running action as failed with the given message.
func (h *Host) ActionFail(message string) error {
	_, err := h.run("action-fail", message)
	return errors.Annotate(err, "failing action")
}
