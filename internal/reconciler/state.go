// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package reconciler

import (
	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/status"
)

// State is the outcome of a reconciliation pass.
type State string

const (
	// Waiting means the unit is not the leader and left relation data
	// alone.
	Waiting State = "WAITING"

	// BlockedNoConsumer means there is nothing to publish to.
	BlockedNoConsumer State = "BLOCKED_NO_CONSUMER"

	// BlockedNoProvider means there is nothing to publish.
	BlockedNoProvider State = "BLOCKED_NO_PROVIDER"

	// BlockedInvalidConfig means the operator configuration could not be
	// decoded.
	BlockedInvalidConfig State = "BLOCKED_INVALID_CONFIG"

	// Reconciling is held while the payload is being built and published.
	Reconciling State = "RECONCILING"

	// Active means every consumer received the current payload.
	Active State = "ACTIVE"
)

// String returns the name of the state.
func (s State) String() string {
	return string(s)
}

// Status messages reported for each state.
const (
	InactiveUnitMessage  = "inactive unit"
	NoConsumerMessage    = "missing metrics consumer (relate to prometheus?)"
	NoProviderMessage    = "missing metrics provider (relate to upstream charm?)"
	InvalidConfigMessage = "invalid config: "
	UpdatingMessage      = "updating scrape jobs"
)

func statusFor(state State, detail string) status.StatusInfo {
	switch state {
	case Waiting:
		return status.StatusInfo{Status: status.Waiting, Message: InactiveUnitMessage}
	case BlockedNoConsumer:
		return status.StatusInfo{Status: status.Blocked, Message: NoConsumerMessage}
	case BlockedNoProvider:
		return status.StatusInfo{Status: status.Blocked, Message: NoProviderMessage}
	case BlockedInvalidConfig:
		return status.StatusInfo{Status: status.Blocked, Message: InvalidConfigMessage + detail}
	case Reconciling:
		return status.StatusInfo{Status: status.Maintenance, Message: UpdatingMessage}
	}
	return status.StatusInfo{Status: status.Active}
}
