// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hooktools

import (
	"fmt"
	"io"

	"github.com/juju/loggo/v2"
)

// LogWriter is a loggo.Writer that sends every entry to juju-log, so that
// it ends up in the unit's log alongside the agent's own messages.
type LogWriter struct {
	host     *Host
	fallback io.Writer
}

// NewLogWriter returns a LogWriter using the host's hook tools. Entries
// that cannot be sent to juju-log are written to fallback instead.
func NewLogWriter(host *Host, fallback io.Writer) *LogWriter {
	return &LogWriter{host: host, fallback: fallback}
}

// Write is part of the loggo.Writer interface.
func (w *LogWriter) Write(entry loggo.Entry) {
	message := fmt.Sprintf("%s: %s", entry.Module, entry.Message)
	if err := w.host.Log(entry.Level, message); err != nil && w.fallback != nil {
		fmt.Fprintf(w.fallback, "%s %s\n", entry.Level, message)
	}
}
