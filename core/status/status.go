// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package status

import (
	"fmt"

	"github.com/juju/errors"
)

// Status represents the workload status a charm reports for its unit.
type Status string

// String returns a string representation of the Status.
func (s Status) String() string {
	return string(s)
}

const (
	// Maintenance is set when:
	// The unit is busy changing its configuration or the data it
	// publishes to related applications.
	Maintenance Status = "maintenance"

	// Blocked is set when:
	// The unit cannot do its job until a human intervenes, e.g. by
	// relating it to another application or fixing its configuration.
	Blocked Status = "blocked"

	// Waiting is set when:
	// The unit is waiting on something outside of its control, such as
	// leadership being granted to it.
	Waiting Status = "waiting"

	// Active is set when:
	// The unit believes it is correctly offering all the services it has
	// been asked to offer.
	Active Status = "active"
)

// KnownWorkloadStatus returns true if the status is one a charm may set
// for its workload.
func (s Status) KnownWorkloadStatus() bool {
	switch s {
	case Maintenance, Blocked, Waiting, Active:
		return true
	}
	return false
}

// StatusInfo holds a Status and associated information.
type StatusInfo struct {
	Status  Status
	Message string
}

// String returns the status and message in the form shown by juju status.
func (s StatusInfo) String() string {
	if s.Message == "" {
		return s.Status.String()
	}
	return fmt.Sprintf("%s: %s", s.Status, s.Message)
}

// Validate returns an error if the status cannot be set by a charm.
func (s StatusInfo) Validate() error {
	if !s.Status.KnownWorkloadStatus() {
		return errors.NotValidf("workload status %q", s.Status)
	}
	return nil
}
