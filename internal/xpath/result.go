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

// Package xpath implements the XPath 1.0 parser-control-block lifecycle and
// evaluator described by §4.3/§4.4: tokenize -> validate against a schema
// -> evaluate against a live document, producing one typed Result.
package xpath

// ResultKind tags a Result's payload, the Go analogue of the C xpath_restype_t
// tagged union (§3, §9).
type ResultKind int

const (
	KindNodeSet ResultKind = iota
	KindNumber
	KindString
	KindBoolean
)

// ResNode is one member of a NodeSet: either a compile-time schema-object
// pointer or a runtime value-node pointer, never both (§3).
type ResNode struct {
	Schema *SchemaNode
	Value  ValueNode

	Position     int
	LastPosition int
	Descendant   bool // set when reached via the // axis
}

func (r *ResNode) identity() interface{} {
	if r.Value != nil {
		return r.Value
	}
	return r.Schema
}

// NodeSet is an ordered, duplicate-free collection of result nodes in
// document order (pre-order traversal), per the GLOSSARY.
type NodeSet []*ResNode

// Dedup removes duplicate members by pointer identity, preserving the first
// occurrence's position.
func (ns NodeSet) Dedup() NodeSet {
	seen := make(map[interface{}]bool, len(ns))
	out := make(NodeSet, 0, len(ns))
	for _, n := range ns {
		id := n.identity()
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, n)
	}
	return out
}

// PruneRedundant removes any node whose ancestor-or-self chain already
// intersects an earlier node in the set, matching NETCONF <get> whole-
// subtree semantics (§4.4).
func (ns NodeSet) PruneRedundant() NodeSet {
	kept := make(NodeSet, 0, len(ns))
	for _, n := range ns {
		if n.Value == nil {
			kept = append(kept, n)
			continue
		}
		if ancestorOrSelfIntersects(kept, n.Value) {
			continue
		}
		kept = append(kept, n)
	}
	return kept
}

// ContainsAncestorOrSelf reports whether candidate or one of its ancestors
// is a member of ns. This is the "fast ancestor-or-self membership check"
// NACM's data-rule evaluation uses in place of re-evaluating the rule's
// PCB against every value (§4.5).
func ContainsAncestorOrSelf(ns NodeSet, candidate ValueNode) bool {
	return ancestorOrSelfIntersects(ns, candidate)
}

func ancestorOrSelfIntersects(set NodeSet, candidate ValueNode) bool {
	for cur := candidate; cur != nil; cur = cur.Parent() {
		for _, n := range set {
			if n.Value != nil && sameValueNode(n.Value, cur) {
				return true
			}
		}
	}
	return false
}

func sameValueNode(a, b ValueNode) bool {
	return a == b
}

// Result is the tagged union produced by evaluation (§3, §9): exactly one
// of the following fields is meaningful, selected by Kind.
type Result struct {
	Kind ResultKind

	Nodes  NodeSet
	Number float64
	Str    string
	Bool   bool

	// Status carries a runtime-evaluation error (§7) for a Result built by
	// ErrorResult; nil means success. Evaluate reports its errors through
	// its error return and leaves Status nil.
	Status error
}

func NodeSetResult(ns NodeSet) *Result  { return &Result{Kind: KindNodeSet, Nodes: ns} }
func NumberResult(n float64) *Result    { return &Result{Kind: KindNumber, Number: n} }
func StringResult(s string) *Result     { return &Result{Kind: KindString, Str: s} }
func BooleanResult(b bool) *Result      { return &Result{Kind: KindBoolean, Bool: b} }
func ErrorResult(err error) *Result     { return &Result{Status: err} }
