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

package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nacmcore/core/internal/xpath"
)

type fakeNode struct {
	name     string
	module   string
	parent   *fakeNode
	children []*fakeNode
}

func (n *fakeNode) NodeName() string   { return n.name }
func (n *fakeNode) ModuleName() string { return n.module }
func (n *fakeNode) Parent() xpath.ValueNode {
	if n.parent == nil {
		return nil
	}
	return n.parent
}
func (n *fakeNode) Children() []xpath.ValueNode {
	out := make([]xpath.ValueNode, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}
func (n *fakeNode) Attributes() []xpath.ValueNode { return nil }
func (n *fakeNode) StringValue() string           { return "" }
func (n *fakeNode) IsConfig() bool                { return true }

func childNode(parent *fakeNode, name string) *fakeNode {
	n := &fakeNode{name: name, module: "m", parent: parent}
	parent.children = append(parent.children, n)
	return n
}

func buildTestDoc() (*fakeNode, *fakeNode) {
	root := &fakeNode{name: "", module: "m"}
	x := childNode(root, "x")
	y := childNode(x, "y")
	return root, y
}

func TestBuildGlobalCacheSkipsMalformedDataRule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataRules = []DataRule{
		{RuleName: "good", Path: "/x/y", AllowedRights: RightRead},
		{RuleName: "bad", Path: "/x/y[position()=1]", AllowedRights: RightRead},
	}

	var skipped []string
	global, err := BuildGlobalCache(cfg, func(rule *DataRule, err error) {
		skipped = append(skipped, rule.RuleName)
	})
	require.NoError(t, err)
	require.Len(t, global.DataRules, 1)
	require.Equal(t, "good", global.DataRules[0].Rule.RuleName)
	require.Equal(t, []string{"bad"}, skipped)
}

func TestBuildMessageCacheResolvesGroupsAndDataRuleNodes(t *testing.T) {
	root, y := buildTestDoc()

	cfg := DefaultConfig()
	cfg.Groups = []Group{{Identity: "g1", Users: []string{"alice"}}}
	cfg.DataRules = []DataRule{{RuleName: "r", Path: "/x/y", AllowedRights: RightRead, AllowedGroups: []string{"g1"}}}

	global, err := BuildGlobalCache(cfg, nil)
	require.NoError(t, err)

	mc, err := BuildMessageCache(global, root, nil, "alice", nil)
	require.NoError(t, err)
	require.True(t, mc.Groups["g1"])
	require.False(t, mc.Groups["g2"])
	require.Len(t, mc.DataRules, 1)

	require.True(t, xpath.ContainsAncestorOrSelf(mc.DataRules[0].Nodes, y))
}

func TestSessionCacheReusesValidCache(t *testing.T) {
	root, _ := buildTestDoc()
	cfg := DefaultConfig()
	global, err := BuildGlobalCache(cfg, nil)
	require.NoError(t, err)

	sc := &SessionCache{}
	first, err := sc.InitMsgCache(global, root, nil, "alice", nil)
	require.NoError(t, err)

	second, err := sc.InitMsgCache(global, root, nil, "alice", nil)
	require.NoError(t, err)
	require.Same(t, first, second)

	sc.Invalidate()
	third, err := sc.InitMsgCache(global, root, nil, "alice", nil)
	require.NoError(t, err)
	require.NotSame(t, first, third)
}
