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

// evalLocationPath walks a location path against the evaluator's context
// node (relative) or the PCB's document root (absolute), producing a
// document-ordered, duplicate-free node-set (§4.4).
func (ev *evaluator) evalLocationPath(lp *LocationPath) (NodeSet, error) {
	start := ev.contextNode
	if lp.Absolute {
		start = ev.pcb.DocumentRoot
	}
	if start == nil {
		return nil, nil
	}

	nodes := NodeSet{{Value: start}}
	for _, st := range lp.Steps {
		var err error
		nodes, err = ev.evalStep(st, nodes)
		if err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

func (ev *evaluator) evalStep(step *Step, contextNodes NodeSet) (NodeSet, error) {
	var candidates []ValueNode
	for _, cn := range contextNodes {
		if cn.Value == nil {
			continue
		}
		switch step.Axis {
		case AxisChild:
			candidates = append(candidates, cn.Value.Children()...)
		case AxisSelf:
			candidates = append(candidates, cn.Value)
		case AxisParent:
			if p := cn.Value.Parent(); p != nil {
				candidates = append(candidates, p)
			}
		case AxisAttribute:
			candidates = append(candidates, cn.Value.Attributes()...)
		case AxisDescendantOrSelf:
			candidates = append(candidates, descendantOrSelf(cn.Value)...)
		}
	}

	var filtered []ValueNode
	for _, c := range candidates {
		if nodeTestMatches(step.Test, c) {
			if ev.pcb.ConfigOnly && !c.IsConfig() {
				continue
			}
			filtered = append(filtered, c)
		}
	}

	filtered, err := ev.applyPredicates(step.Predicates, filtered)
	if err != nil {
		return nil, err
	}

	out := make(NodeSet, 0, len(filtered))
	for i, c := range filtered {
		out = append(out, &ResNode{
			Value:        c,
			Position:     i + 1,
			LastPosition: len(filtered),
			Descendant:   step.Axis == AxisDescendantOrSelf,
		})
	}
	return out, nil
}

func descendantOrSelf(n ValueNode) []ValueNode {
	out := []ValueNode{n}
	for _, c := range n.Children() {
		out = append(out, descendantOrSelf(c)...)
	}
	return out
}

func nodeTestMatches(test NodeTest, n ValueNode) bool {
	if test.Wildcard {
		return true
	}
	if test.ModuleWild {
		return n.ModuleName() == test.Module
	}
	return n.NodeName() == test.Name && (test.Module == "" || n.ModuleName() == test.Module)
}

// applyPredicates filters candidates by each bracketed predicate in turn,
// per XPath 1.0 predicate semantics: a numeric result means "position
// equals this number", anything else is converted to boolean.
func (ev *evaluator) applyPredicates(preds []Expr, candidates []ValueNode) ([]ValueNode, error) {
	for _, pred := range preds {
		var kept []ValueNode
		last := len(candidates)
		for i, c := range candidates {
			sub := &evaluator{pcb: ev.pcb, contextNode: c, contextPos: i + 1, contextLast: last}
			res, err := sub.eval(pred)
			if err != nil {
				return nil, err
			}
			if res.Kind == KindNumber {
				if res.Number == float64(i+1) {
					kept = append(kept, c)
				}
				continue
			}
			if ToBoolean(res) {
				kept = append(kept, c)
			}
		}
		candidates = kept
	}
	return candidates, nil
}
