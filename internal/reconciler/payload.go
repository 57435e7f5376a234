// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package reconciler

import (
	"github.com/juju/errors"

	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/relation"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/internal/charmconfig"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/internal/scrape"
)

// Payload is the data published to every consumer.
type Payload struct {
	ScrapeJobs string
	AlertRules string
}

// Settings returns the payload as relation data.
func (p Payload) Settings() relation.Settings {
	return relation.Settings{
		scrape.ScrapeJobsKey: p.ScrapeJobs,
		scrape.AlertRulesKey: p.AlertRules,
	}
}

// BuildPayload merges the configuration into every job and encodes the
// jobs and alert rule groups for publishing. The same inputs always
// produce the same bytes.
func BuildPayload(jobs []scrape.Job, groups []scrape.AlertGroup, cfg *charmconfig.Config) (Payload, error) {
	merged := make([]map[string]interface{}, len(jobs))
	for i, job := range jobs {
		merged[i] = cfg.Apply(job)
	}
	scrapeJobs, err := scrape.EncodeJSON(merged)
	if err != nil {
		return Payload{}, errors.Annotate(err, "encoding scrape jobs")
	}

	alerts := map[string]interface{}{}
	if cfg.ForwardAlertRules() && len(groups) > 0 {
		alerts["groups"] = groups
	}
	alertRules, err := scrape.EncodeJSON(alerts)
	if err != nil {
		return Payload{}, errors.Annotate(err, "encoding alert rules")
	}
	return Payload{
		ScrapeJobs: scrapeJobs,
		AlertRules: alertRules,
	}, nil
}
