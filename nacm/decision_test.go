// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package nacm

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/nacmcore/core/internal/xpath"
	"github.com/nacmcore/core/nacm/cache"
)

// testVal is a minimal Node implementation for decision-engine tests.
type testVal struct {
	name     string
	module   string
	parent   *testVal
	children []*testVal
	flags    SchemaFlags
}

func (n *testVal) NodeName() string   { return n.name }
func (n *testVal) ModuleName() string { return n.module }
func (n *testVal) Parent() xpath.ValueNode {
	if n.parent == nil {
		return nil
	}
	return n.parent
}
func (n *testVal) Children() []xpath.ValueNode {
	out := make([]xpath.ValueNode, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}
func (n *testVal) Attributes() []xpath.ValueNode { return nil }
func (n *testVal) StringValue() string           { return "" }
func (n *testVal) IsConfig() bool                { return true }
func (n *testVal) NacmFlags() SchemaFlags         { return n.flags }

func newVal(parent *testVal, name string) *testVal {
	n := &testVal{name: name, module: "m", parent: parent}
	if parent != nil {
		parent.children = append(parent.children, n)
	}
	return n
}

func newState(t *testing.T, cfg *cache.Config) *NacmState {
	t.Helper()
	s, err := New(cfg, WithRegisterer(prometheus.NewRegistry()))
	require.NoError(t, err)
	return s
}

// Scenario 1: superuser bypass.
func TestSuperuserBypass(t *testing.T) {
	cfg := cache.DefaultConfig()
	cfg.ReadDefault = cache.DecisionDeny
	cfg.Superuser = "root"
	s := newState(t, cfg)

	root := newVal(nil, "")
	y := newVal(newVal(root, "x"), "y")

	msg := &Message{DatastoreRoot: root}
	require.True(t, s.ValReadAllowed(msg, "root", y))
}

// Scenario 2: default deny for a zero-group user.
func TestDefaultDenyForZeroGroupUser(t *testing.T) {
	cfg := cache.DefaultConfig()
	cfg.ReadDefault = cache.DecisionDeny
	s := newState(t, cfg)

	root := newVal(nil, "")
	y := newVal(newVal(root, "x"), "y")

	msg := &Message{DatastoreRoot: root}
	require.False(t, s.ValReadAllowed(msg, "alice", y))
}

// Scenario 3: data-rule permit.
func TestDataRulePermit(t *testing.T) {
	cfg := cache.DefaultConfig()
	cfg.ReadDefault = cache.DecisionDeny
	cfg.Groups = []cache.Group{{Identity: "g1", Users: []string{"alice"}}}
	cfg.DataRules = []cache.DataRule{
		{RuleName: "r", Path: "/x/y", AllowedRights: cache.RightRead, AllowedGroups: []string{"g1"}},
	}
	s := newState(t, cfg)

	root := newVal(nil, "")
	y := newVal(newVal(root, "x"), "y")

	msg := &Message{DatastoreRoot: root}
	require.True(t, s.ValReadAllowed(msg, "alice", y))
}

// Scenario 4: write blocked by an object flag.
func TestWriteBlockedByObjectFlag(t *testing.T) {
	cfg := cache.DefaultConfig()
	cfg.Superuser = "root"
	s := newState(t, cfg)

	root := newVal(nil, "")
	sys := newVal(root, "sys")
	reset := newVal(sys, "reset")
	reset.flags = SchemaFlags{BlockUserCreate: true}

	msg := &Message{DatastoreRoot: root}
	require.False(t, s.ValWriteAllowed(msg, "root", reset, nil, EditCreate))
	require.Equal(t, uint64(1), s.DeniedDataWrites())
}

// Scenario 5: XPath concatenation. The decision engine's data-rule
// evaluation is a thin layer over the xpath PCB lifecycle (§4.3, §4.4);
// this confirms that lifecycle is reachable and correct from this
// package's perspective, independent of internal/xpath's own deeper
// coverage of the same invariant.
func TestXPathConcatenation(t *testing.T) {
	pcb := xpath.NewPCB(xpath.SourceMustWhen, `concat("a",'b',"c")`)
	require.NoError(t, pcb.Parse())

	root := newVal(nil, "")
	res, err := pcb.Evaluate(root)
	require.NoError(t, err)
	require.Equal(t, "abc", xpath.ToString(res))
}

// Scenario 6 (loop iteration cap) belongs to internal/runstack, exercised
// there by TestWhileLoopReplaysMultipleIterations and
// TestWhileLoopEnforcesMaxIterations; covering it again here would
// duplicate that package's tests.

func TestNotifAllowedMetaEventAlwaysPermitted(t *testing.T) {
	cfg := cache.DefaultConfig()
	cfg.ReadDefault = cache.DecisionDeny
	s := newState(t, cfg)

	require.True(t, s.NotifAllowed("alice", NotifObject{MetaEvent: true}))
}

func TestRpcAllowedCloseSessionAlwaysPermitted(t *testing.T) {
	cfg := cache.DefaultConfig()
	s := newState(t, cfg)

	require.True(t, s.RpcAllowed(&Message{}, "alice", RpcObject{ModuleName: NetconfModuleName, Name: "close-session"}))
}

func TestPermissiveModePermitsNonVerySecureRead(t *testing.T) {
	cfg := cache.DefaultConfig()
	cfg.ReadDefault = cache.DecisionDeny
	s := newState(t, cfg)
	s.SetMode(ModePermissive)

	root := newVal(nil, "")
	y := newVal(root, "y")
	msg := &Message{DatastoreRoot: root}
	require.True(t, s.ValReadAllowed(msg, "alice", y))
}

func TestCommitNacmChangeInvalidatesSessionCache(t *testing.T) {
	cfg := cache.DefaultConfig()
	s := newState(t, cfg)

	sc := s.Session(1)
	root := newVal(nil, "")
	_, err := sc.InitMsgCache(nil, root, nil, "alice", nil)
	require.Error(t, err) // nil global cache, expected

	_, global := s.snapshot()
	built, err := sc.InitMsgCache(global, root, nil, "alice", nil)
	require.NoError(t, err)
	require.True(t, built.Valid)

	require.NoError(t, s.CommitNacmChange(cache.DefaultConfig(), EditMerge, true))
	require.Equal(t, ModeEnforcing, s.Mode())
	require.False(t, built.Valid, "commit must invalidate the session's message cache")
}
