// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hooktools_test

import (
	"bytes"
	"fmt"
	"os"
	"reflect"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"github.com/juju/utils/v4/exec"
	"github.com/kballard/go-shellquote"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"
	"gopkg.in/yaml.v3"

	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/relation"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/status"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/internal/hooktools"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/internal/hooktools/mocks"
)

type hostSuite struct {
	testing.IsolationSuite

	runner *mocks.MockCommandRunner
}

var _ = gc.Suite(&hostSuite{})

// commandIs matches RunParams whose command line splits into the given
// arguments.
type commandIs []string

func (m commandIs) Matches(x interface{}) bool {
	params, ok := x.(exec.RunParams)
	if !ok {
		return false
	}
	args, err := shellquote.Split(params.Commands)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(args, []string(m))
}

func (m commandIs) String() string {
	return fmt.Sprintf("runs %q", []string(m))
}

func (s *hostSuite) setup(c *gc.C) (*gomock.Controller, *hooktools.Host) {
	ctrl := gomock.NewController(c)
	s.runner = mocks.NewMockCommandRunner(ctrl)
	host, err := hooktools.NewHost(hooktools.Config{
		Runner:           s.runner,
		ProviderEndpoint: "configurable-scrape-jobs",
		ConsumerEndpoint: "metrics-endpoint",
		Logger:           loggo.GetLogger("test"),
	})
	c.Assert(err, jc.ErrorIsNil)
	return ctrl, host
}

func (s *hostSuite) expectTool(stdout string, args ...string) *gomock.Call {
	return s.runner.EXPECT().RunCommands(commandIs(args)).Return(&exec.ExecResponse{
		Stdout: []byte(stdout),
	}, nil)
}

func (s *hostSuite) expectToolFailure(code int, stderr string, args ...string) *gomock.Call {
	return s.runner.EXPECT().RunCommands(commandIs(args)).Return(&exec.ExecResponse{
		Code:   code,
		Stderr: []byte(stderr),
	}, nil)
}

func (s *hostSuite) TestValidateConfig(c *gc.C) {
	logger := loggo.GetLogger("test")
	for _, t := range []struct {
		config hooktools.Config
		err    string
	}{{
		config: hooktools.Config{ProviderEndpoint: "p", ConsumerEndpoint: "c", Logger: logger},
		err:    "nil Runner not valid",
	}, {
		config: hooktools.Config{Runner: hooktools.DefaultRunner, ConsumerEndpoint: "c", Logger: logger},
		err:    "empty ProviderEndpoint not valid",
	}, {
		config: hooktools.Config{Runner: hooktools.DefaultRunner, ProviderEndpoint: "p", Logger: logger},
		err:    "empty ConsumerEndpoint not valid",
	}, {
		config: hooktools.Config{Runner: hooktools.DefaultRunner, ProviderEndpoint: "p", ConsumerEndpoint: "c"},
		err:    "nil Logger not valid",
	}} {
		_, err := hooktools.NewHost(t.config)
		c.Check(err, gc.ErrorMatches, t.err)
		c.Check(err, jc.ErrorIs, errors.NotValid)
	}
}

func (s *hostSuite) TestIsLeader(c *gc.C) {
	ctrl, host := s.setup(c)
	defer ctrl.Finish()

	s.expectTool("true\n", "is-leader", "--format=json")
	leader, err := host.IsLeader()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(leader, jc.IsTrue)

	s.expectTool("false\n", "is-leader", "--format=json")
	leader, err = host.IsLeader()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(leader, jc.IsFalse)
}

func (s *hostSuite) TestToolFailure(c *gc.C) {
	ctrl, host := s.setup(c)
	defer ctrl.Finish()

	s.expectToolFailure(1, "ERROR leadership unavailable\n", "is-leader", "--format=json")
	_, err := host.IsLeader()
	c.Check(err, gc.ErrorMatches, "is-leader exited with code 1: ERROR leadership unavailable")
}

func (s *hostSuite) TestRunnerError(c *gc.C) {
	ctrl, host := s.setup(c)
	defer ctrl.Finish()

	s.runner.EXPECT().RunCommands(gomock.Any()).Return(nil, errors.New("no bash"))
	_, err := host.IsLeader()
	c.Check(err, gc.ErrorMatches, "running is-leader: no bash")
}

func (s *hostSuite) TestListRelations(c *gc.C) {
	ctrl, host := s.setup(c)
	defer ctrl.Finish()

	s.expectTool(`["metrics-endpoint:5","metrics-endpoint:2"]`, "relation-ids", "metrics-endpoint", "--format=json")
	s.expectTool(`[]`, "relation-ids", "configurable-scrape-jobs", "--format=json")

	consumers, err := host.ListConsumerRelations()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(consumers, gc.HasLen, 2)
	c.Check(relation.Tag(consumers[0]), gc.Equals, "metrics-endpoint:2")
	c.Check(relation.Tag(consumers[1]), gc.Equals, "metrics-endpoint:5")

	providers, err := host.ListProviderRelations()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(providers, gc.HasLen, 0)
}

func (s *hostSuite) TestListRelationsBadId(c *gc.C) {
	ctrl, host := s.setup(c)
	defer ctrl.Finish()

	s.expectTool(`["metrics-endpoint:x"]`, "relation-ids", "metrics-endpoint", "--format=json")
	_, err := host.ListConsumerRelations()
	c.Check(err, gc.ErrorMatches, `relation id "x" not valid`)
}

func (s *hostSuite) providerRelation(c *gc.C, host *hooktools.Host) relation.Relation {
	s.expectTool(`["configurable-scrape-jobs:3"]`, "relation-ids", "configurable-scrape-jobs", "--format=json")
	providers, err := host.ListProviderRelations()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(providers, gc.HasLen, 1)
	return providers[0]
}

func (s *hostSuite) TestApplicationSettings(c *gc.C) {
	ctrl, host := s.setup(c)
	defer ctrl.Finish()

	rel := s.providerRelation(c, host)
	s.expectTool(`"cassandra"`, "relation-list", "-r", "configurable-scrape-jobs:3", "--app", "--format=json")
	s.expectTool(`{"scrape_jobs":"[]"}`,
		"relation-get", "-r", "configurable-scrape-jobs:3", "--app", "-", "cassandra", "--format=json").Times(2)

	for i := 0; i < 2; i++ {
		settings, err := rel.ApplicationSettings()
		c.Assert(err, jc.ErrorIsNil)
		c.Check(settings, jc.DeepEquals, relation.Settings{"scrape_jobs": "[]"})
	}
	app, err := rel.RemoteApplication()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(app, gc.Equals, "cassandra")
}

func (s *hostSuite) TestUnits(c *gc.C) {
	ctrl, host := s.setup(c)
	defer ctrl.Finish()

	rel := s.providerRelation(c, host)
	s.expectTool(`["cassandra/0","cassandra/1"]`, "relation-list", "-r", "configurable-scrape-jobs:3", "--format=json")
	s.expectTool(`{"prometheus_scrape_unit_address":"10.1.2.3"}`,
		"relation-get", "-r", "configurable-scrape-jobs:3", "-", "cassandra/1", "--format=json")
	s.expectToolFailure(2, `ERROR unit "cassandra/0" not found`,
		"relation-get", "-r", "configurable-scrape-jobs:3", "-", "cassandra/0", "--format=json")
	s.expectToolFailure(1, `ERROR connection refused`,
		"relation-get", "-r", "configurable-scrape-jobs:3", "-", "cassandra/2", "--format=json")

	units, err := rel.Units()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(units, jc.DeepEquals, []string{"cassandra/0", "cassandra/1"})

	settings, err := rel.UnitSettings("cassandra/1")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(settings, jc.DeepEquals, relation.Settings{"prometheus_scrape_unit_address": "10.1.2.3"})

	_, err = rel.UnitSettings("cassandra/0")
	c.Check(err, jc.ErrorIs, errors.NotFound)

	_, err = rel.UnitSettings("cassandra/2")
	c.Check(err, gc.ErrorMatches, `reading data of unit "cassandra/2" in configurable-scrape-jobs:3: relation-get exited with code 1: ERROR connection refused`)
}

func (s *hostSuite) TestSetApplicationSettings(c *gc.C) {
	ctrl, host := s.setup(c)
	defer ctrl.Finish()

	s.expectTool(`["metrics-endpoint:7"]`, "relation-ids", "metrics-endpoint", "--format=json")
	consumers, err := host.ListConsumerRelations()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(consumers, gc.HasLen, 1)

	var file string
	s.runner.EXPECT().RunCommands(gomock.Any()).DoAndReturn(func(params exec.RunParams) (*exec.ExecResponse, error) {
		args, err := shellquote.Split(params.Commands)
		c.Assert(err, jc.ErrorIsNil)
		c.Assert(args, gc.HasLen, 6)
		c.Check(args[:5], jc.DeepEquals, []string{"relation-set", "-r", "metrics-endpoint:7", "--app", "--file"})
		file = args[5]
		data, err := os.ReadFile(file)
		c.Assert(err, jc.ErrorIsNil)
		var written map[string]string
		c.Assert(yaml.Unmarshal(data, &written), jc.ErrorIsNil)
		c.Check(written, jc.DeepEquals, map[string]string{
			"scrape_jobs": `[{"job_name":"a: b"}]`,
			"alert_rules": `{}`,
		})
		return &exec.ExecResponse{}, nil
	})

	err = consumers[0].SetApplicationSettings(relation.Settings{
		"scrape_jobs": `[{"job_name":"a: b"}]`,
		"alert_rules": `{}`,
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(file, jc.DoesNotExist)
}

func (s *hostSuite) TestSetApplicationSettingsFailure(c *gc.C) {
	ctrl, host := s.setup(c)
	defer ctrl.Finish()

	s.expectTool(`["metrics-endpoint:7"]`, "relation-ids", "metrics-endpoint", "--format=json")
	consumers, err := host.ListConsumerRelations()
	c.Assert(err, jc.ErrorIsNil)

	s.runner.EXPECT().RunCommands(gomock.Any()).Return(&exec.ExecResponse{
		Code:   1,
		Stderr: []byte("ERROR permission denied"),
	}, nil)
	err = consumers[0].SetApplicationSettings(relation.Settings{"scrape_jobs": "[]"})
	c.Check(err, gc.ErrorMatches, "writing application data of metrics-endpoint:7: relation-set exited with code 1: ERROR permission denied")
}

func (s *hostSuite) TestSetStatus(c *gc.C) {
	ctrl, host := s.setup(c)
	defer ctrl.Finish()

	s.expectTool("", "status-set", "active")
	s.expectTool("", "status-set", "blocked", "missing metrics consumer (relate to prometheus?)")

	err := host.SetStatus(status.StatusInfo{Status: status.Active})
	c.Assert(err, jc.ErrorIsNil)
	err = host.SetStatus(status.StatusInfo{
		Status:  status.Blocked,
		Message: "missing metrics consumer (relate to prometheus?)",
	})
	c.Assert(err, jc.ErrorIsNil)

	err = host.SetStatus(status.StatusInfo{Status: "error"})
	c.Check(err, gc.ErrorMatches, `workload status "error" not valid`)
}

func (s *hostSuite) TestConfigSettings(c *gc.C) {
	ctrl, host := s.setup(c)
	defer ctrl.Finish()

	s.expectTool(`{"scrape_interval":"1m","sample_limit":100,"forward_alert_rules":true}`,
		"config-get", "--all", "--format=json")

	settings, err := host.ConfigSettings()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(settings, jc.DeepEquals, map[string]interface{}{
		"scrape_interval":     "1m",
		"sample_limit":        float64(100),
		"forward_alert_rules": true,
	})
}

func (s *hostSuite) TestActionSet(c *gc.C) {
	ctrl, host := s.setup(c)
	defer ctrl.Finish()

	s.expectTool("", "action-set",
		"forward-alert-rules=true",
		`relabel-configs=[{"replacement":"prod","target_label":"env"}]`,
		"sample-limit=100",
		"scrape-interval=1m",
	)

	err := host.ActionSet(map[string]interface{}{
		"scrape_interval":     "1m",
		"sample_limit":        100,
		"forward_alert_rules": true,
		"relabel_configs": []interface{}{
			map[string]interface{}{"target_label": "env", "replacement": "prod"},
		},
	})
	c.Assert(err, jc.ErrorIsNil)
}

func (s *hostSuite) TestActionSetNothing(c *gc.C) {
	ctrl, host := s.setup(c)
	defer ctrl.Finish()

	err := host.ActionSet(nil)
	c.Assert(err, jc.ErrorIsNil)
}

func (s *hostSuite) TestActionSetInvalidKey(c *gc.C) {
	ctrl, host := s.setup(c)
	defer ctrl.Finish()

	err := host.ActionSet(map[string]interface{}{"bad key": "x"})
	c.Check(err, gc.ErrorMatches, `action result key "bad key" not valid`)
}

func (s *hostSuite) TestActionFail(c *gc.C) {
	ctrl, host := s.setup(c)
	defer ctrl.Finish()

	s.expectTool("", "action-fail", "invalid config")
	err := host.ActionFail("invalid config")
	c.Assert(err, jc.ErrorIsNil)
}

func (s *hostSuite) TestLogWriter(c *gc.C) {
	ctrl, host := s.setup(c)
	defer ctrl.Finish()

	s.expectTool("", "juju-log", "-l", "WARNING", "scrapeconfig: no units")
	s.expectToolFailure(1, "gone", "juju-log", "-l", "ERROR", "scrapeconfig: boom")

	var fallback bytes.Buffer
	w := hooktools.NewLogWriter(host, &fallback)
	w.Write(loggo.Entry{Level: loggo.WARNING, Module: "scrapeconfig", Message: "no units"})
	c.Check(fallback.String(), gc.Equals, "")

	w.Write(loggo.Entry{Level: loggo.CRITICAL, Module: "scrapeconfig", Message: "boom"})
	c.Check(fallback.String(), gc.Equals, "CRITICAL scrapeconfig: boom\n")
}
