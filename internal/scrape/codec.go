// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package scrape

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/juju/errors"
)

// decodeJSON decodes a single JSON value. Numbers are kept as json.Number
// so they are re-encoded exactly as the provider wrote them.
func decodeJSON(raw string, v interface{}) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return errors.Trace(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// EncodeJSON encodes v with sorted map keys and without HTML escaping,
// so that equal values always produce identical bytes.
func EncodeJSON(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", errors.Trace(err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
