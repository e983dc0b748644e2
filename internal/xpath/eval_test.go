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

package xpath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testNode is a minimal in-memory ValueNode used to exercise the evaluator
// without a real datastore.
type testNode struct {
	name     string
	module   string
	parent   *testNode
	children []*testNode
	value    string
	config   bool
}

func (n *testNode) NodeName() string   { return n.name }
func (n *testNode) ModuleName() string { return n.module }
func (n *testNode) Parent() ValueNode {
	if n.parent == nil {
		return nil
	}
	return n.parent
}
func (n *testNode) Children() []ValueNode {
	out := make([]ValueNode, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}
func (n *testNode) Attributes() []ValueNode { return nil }
func (n *testNode) StringValue() string     { return n.value }
func (n *testNode) IsConfig() bool          { return n.config }

func child(parent *testNode, name, value string) *testNode {
	n := &testNode{name: name, module: "m", parent: parent, value: value, config: true}
	parent.children = append(parent.children, n)
	return n
}

func buildDoc() *testNode {
	root := &testNode{name: "", module: "m", config: true}
	x := child(root, "x", "")
	child(x, "y", "hello")
	return root
}

func evalString(t *testing.T, root ValueNode, ctx ValueNode, expr string) *Result {
	t.Helper()
	pcb := NewPCB(SourceMustWhen, expr)
	pcb.DocumentRoot = root
	require.NoError(t, pcb.Parse())
	res, err := pcb.Evaluate(ctx)
	require.NoError(t, err)
	return res
}

func TestEvalAbsolutePath(t *testing.T) {
	root := buildDoc()
	res := evalString(t, root, root, "/x/y")
	require.Equal(t, KindNodeSet, res.Kind)
	require.Len(t, res.Nodes, 1)
	require.Equal(t, "hello", ToString(res))
}

func TestEvalConcat(t *testing.T) {
	root := buildDoc()
	res := evalString(t, root, root, `concat("a",'b',"c")`)
	require.Equal(t, "abc", ToString(res))
}

func TestEvalArithmeticAndComparison(t *testing.T) {
	root := buildDoc()
	res := evalString(t, root, root, "1 + 2 * 3 = 7")
	require.True(t, ToBoolean(res))
}

func TestEvalNumberConversions(t *testing.T) {
	require.Equal(t, "NaN", numberToString(stringToNumber("abc")))
	one, zero := 1.0, 0.0
	require.Equal(t, "Infinity", numberToString(one/zero))
}

func TestEvalBooleanConversion(t *testing.T) {
	root := buildDoc()
	res := evalString(t, root, root, "boolean(/x/y)")
	require.True(t, ToBoolean(res))
	res2 := evalString(t, root, root, "boolean(/x/missing)")
	require.False(t, ToBoolean(res2))
}

func TestEvalPredicatePosition(t *testing.T) {
	root := &testNode{name: "", module: "m", config: true}
	p := child(root, "list", "")
	child(p, "item", "a")
	child(p, "item", "b")
	res := evalString(t, root, root, "/list/item[2]")
	require.Len(t, res.Nodes, 1)
	require.Equal(t, "b", ToString(res))
}

func TestEvalCurrentFunction(t *testing.T) {
	root := buildDoc()
	pcb := NewPCB(SourceMustWhen, "current()")
	pcb.DocumentRoot = root
	require.NoError(t, pcb.Parse())
	ctxNode := root.children[0] // "x"
	res, err := pcb.Evaluate(ctxNode)
	require.NoError(t, err)
	require.Equal(t, "x", res.Nodes[0].Value.NodeName())
}

func TestEvalAndShortCircuit(t *testing.T) {
	root := buildDoc()
	pcb := NewPCB(SourceMustWhen, "false() and (1=1)")
	pcb.DocumentRoot = root
	pcb.ShortCircuit = true
	require.NoError(t, pcb.Parse())
	res, err := pcb.Evaluate(root)
	require.NoError(t, err)
	require.False(t, ToBoolean(res))
}

func TestPCBPhaseGating(t *testing.T) {
	pcb := NewPCB(SourceMustWhen, "(")
	err := pcb.Parse()
	require.Error(t, err)
	_, err = pcb.Evaluate(buildDoc())
	require.Error(t, err)
}

func TestPCBClone(t *testing.T) {
	root := buildDoc()
	pcb := NewPCB(SourceMustWhen, "/x/y")
	pcb.DocumentRoot = root
	require.NoError(t, pcb.Parse())
	_, err := pcb.Evaluate(root)
	require.NoError(t, err)

	clone := pcb.Clone()
	require.Nil(t, clone.ContextNode)
	require.Same(t, pcb.Chain, clone.Chain)
}

func TestInstanceIDRestrictionRejectsNonAbbreviatedPredicate(t *testing.T) {
	pcb := NewPCB(SourceInstanceID, "/list/item[position()=1]")
	err := pcb.Parse()
	require.Error(t, err)
}

func TestInstanceIDRestrictionAllowsKeyLiteral(t *testing.T) {
	pcb := NewPCB(SourceInstanceID, `/list/item[name='a']`)
	require.NoError(t, pcb.Parse())
}
