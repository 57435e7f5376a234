// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm_test

import (
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/relation"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/relation/relationtesting"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/core/status"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/hook"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/internal/charm"
	"github.com/canonical/prometheus-scrape-config-k8s-operator/internal/charm/mocks"
)

type charmSuite struct {
	testing.IsolationSuite

	host *mocks.MockHost
}

var _ = gc.Suite(&charmSuite{})

func (s *charmSuite) newCharm(c *gc.C) (*charm.Charm, *gomock.Controller) {
	ctrl := gomock.NewController(c)
	s.host = mocks.NewMockHost(ctrl)
	ch, err := charm.New(charm.Config{
		Host:   s.host,
		Logger: loggo.GetLogger("test"),
	})
	c.Assert(err, jc.ErrorIsNil)
	return ch, ctrl
}

func (s *charmSuite) TestValidateConfig(c *gc.C) {
	_, err := charm.New(charm.Config{Logger: loggo.GetLogger("test")})
	c.Check(err, gc.ErrorMatches, "nil Host not valid")

	_, ctrl := s.newCharm(c)
	defer ctrl.Finish()
	_, err = charm.New(charm.Config{Host: s.host})
	c.Check(err, gc.ErrorMatches, "nil Logger not valid")
}

func (s *charmSuite) TestInvalidEvent(c *gc.C) {
	ch, ctrl := s.newCharm(c)
	defer ctrl.Finish()

	err := ch.Run(hook.Info{Kind: hook.RelationChanged, RelationId: -1})
	c.Check(err, jc.ErrorIs, errors.NotValid)
}

func (s *charmSuite) TestUnhandledHookIgnored(c *gc.C) {
	ch, ctrl := s.newCharm(c)
	defer ctrl.Finish()

	err := ch.Run(hook.Info{Kind: "collect-metrics", RelationId: -1})
	c.Check(err, jc.ErrorIsNil)
}

func (s *charmSuite) TestStopIgnored(c *gc.C) {
	ch, ctrl := s.newCharm(c)
	defer ctrl.Finish()

	for _, kind := range []hook.Kind{hook.Stop, hook.Remove} {
		err := ch.Run(hook.Info{Kind: kind, RelationId: -1})
		c.Check(err, jc.ErrorIsNil)
	}
}

func (s *charmSuite) TestNotLeader(c *gc.C) {
	ch, ctrl := s.newCharm(c)
	defer ctrl.Finish()

	s.host.EXPECT().ConfigSettings().Return(map[string]interface{}{}, nil)
	s.host.EXPECT().IsLeader().Return(false, nil)
	s.host.EXPECT().SetStatus(status.StatusInfo{Status: status.Waiting, Message: "inactive unit"}).Return(nil)

	err := ch.Run(hook.Info{Kind: hook.ConfigChanged, RelationId: -1})
	c.Assert(err, jc.ErrorIsNil)
}

func (s *charmSuite) TestPublish(c *gc.C) {
	ch, ctrl := s.newCharm(c)
	defer ctrl.Finish()

	provider := relationtesting.NewRelation(1, charm.ProviderEndpoint, "node-exporter").
		WithAppData(relation.Settings{"scrape_jobs": `[{"metrics_path": "/metrics"}]`})
	consumer := relationtesting.NewRelation(2, charm.ConsumerEndpoint, "prometheus")

	s.host.EXPECT().ConfigSettings().Return(map[string]interface{}{
		"scrape_interval": "30s",
	}, nil)
	s.host.EXPECT().IsLeader().Return(true, nil)
	s.host.EXPECT().ListConsumerRelations().Return([]relation.Relation{consumer}, nil)
	s.host.EXPECT().ListProviderRelations().Return([]relation.Relation{provider}, nil)
	gomock.InOrder(
		s.host.EXPECT().SetStatus(status.StatusInfo{Status: status.Maintenance, Message: "updating scrape jobs"}).Return(nil),
		s.host.EXPECT().SetStatus(status.StatusInfo{Status: status.Active}).Return(nil),
	)

	err := ch.Run(hook.Info{
		Kind:         hook.RelationJoined,
		RelationName: charm.ConsumerEndpoint,
		RelationId:   2,
		RemoteUnit:   "prometheus/0",
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(consumer.LocalAppData, jc.DeepEquals, relation.Settings{
		"scrape_jobs": `[{"metrics_path":"/metrics","scrape_interval":"30s"}]`,
		"alert_rules": `{}`,
	})
}

func (s *charmSuite) TestReconcileError(c *gc.C) {
	ch, ctrl := s.newCharm(c)
	defer ctrl.Finish()

	s.host.EXPECT().ConfigSettings().Return(nil, nil)
	s.host.EXPECT().IsLeader().Return(false, errors.New("boom"))

	err := ch.Run(hook.Info{Kind: hook.UpdateStatus, RelationId: -1})
	c.Check(err, gc.ErrorMatches, `handling "update-status": checking leadership: boom`)
}

func (s *charmSuite) TestConfigError(c *gc.C) {
	ch, ctrl := s.newCharm(c)
	defer ctrl.Finish()

	s.host.EXPECT().ConfigSettings().Return(nil, errors.New("config-get exited with code 1"))

	err := ch.Run(hook.Info{Kind: hook.Install, RelationId: -1})
	c.Check(err, gc.ErrorMatches, "config-get exited with code 1")
}

func (s *charmSuite) TestShowConfig(c *gc.C) {
	ch, ctrl := s.newCharm(c)
	defer ctrl.Finish()

	s.host.EXPECT().ConfigSettings().Return(map[string]interface{}{
		"scrape_interval":     "1m",
		"forward_alert_rules": false,
		"juju-internal":       "ignored",
	}, nil)
	s.host.EXPECT().ActionSet(map[string]interface{}{
		"scrape_interval":     "1m",
		"forward_alert_rules": false,
	}).Return(nil)

	err := ch.Run(hook.Info{Kind: hook.Action, ActionName: "show-config", RelationId: -1})
	c.Assert(err, jc.ErrorIsNil)
}

func (s *charmSuite) TestShowConfigInvalid(c *gc.C) {
	ch, ctrl := s.newCharm(c)
	defer ctrl.Finish()

	s.host.EXPECT().ConfigSettings().Return(map[string]interface{}{
		"proxy_url": "not a url",
	}, nil)
	s.host.EXPECT().ActionFail(gomock.Any()).DoAndReturn(func(message string) error {
		c.Check(message, jc.Contains, "proxy_url")
		return nil
	})

	err := ch.Run(hook.Info{Kind: hook.Action, ActionName: "show-config", RelationId: -1})
	c.Assert(err, jc.ErrorIsNil)
}

func (s *charmSuite) TestUnknownAction(c *gc.C) {
	ch, ctrl := s.newCharm(c)
	defer ctrl.Finish()

	s.host.EXPECT().ConfigSettings().Return(nil, nil)

	err := ch.Run(hook.Info{Kind: hook.Action, ActionName: "frobnicate", RelationId: -1})
	c.Check(err, jc.ErrorIs, errors.NotSupported)
}
