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

import "math"

// evaluator carries the mutable per-evaluation state (current context node,
// position/last) that recursive-descent evaluation threads through the
// compiled tree (§4.4).
type evaluator struct {
	pcb         *PCB
	contextNode ValueNode
	contextPos  int
	contextLast int
}

func (ev *evaluator) eval(e Expr) (*Result, error) {
	switch n := e.(type) {
	case *LocationPath:
		ns, err := ev.evalLocationPath(n)
		if err != nil {
			return nil, err
		}
		return NodeSetResult(ns.Dedup()), nil

	case *Literal:
		if n.IsNumber {
			return NumberResult(n.Num), nil
		}
		return StringResult(n.Str), nil

	case *VarRef:
		return ev.evalVarRef(n)

	case *FuncCall:
		entry, ok := functionTable[n.Name]
		if !ok {
			return nil, ErrUnknownFunction.New(n.Name)
		}
		if err := checkArgCount(&entry, len(n.Args)); err != nil {
			return nil, err
		}
		return entry.eval(ev, n.Args)

	case *Unary:
		r, err := ev.eval(n.Operand)
		if err != nil {
			return nil, err
		}
		return NumberResult(-ToNumber(r)), nil

	case *Binary:
		return ev.evalBinary(n)
	}
	return nil, ErrSyntax.New("unknown expression node")
}

func (ev *evaluator) evalVarRef(n *VarRef) (*Result, error) {
	if ev.pcb.GetVar != nil {
		return ev.pcb.GetVar(n.Prefix, n.Name)
	}
	for _, b := range ev.pcb.VarBindings {
		if b.Prefix == n.Prefix && b.Name == n.Name {
			return b.Value, nil
		}
	}
	return nil, ErrMissingNode.New("$" + n.Name)
}

func (ev *evaluator) evalBinary(n *Binary) (*Result, error) {
	switch n.Op {
	case OpOr:
		l, err := ev.eval(n.Left)
		if err != nil {
			return nil, err
		}
		if ev.pcb.ShortCircuit && ToBoolean(l) {
			return BooleanResult(true), nil
		}
		r, err := ev.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return BooleanResult(ToBoolean(l) || ToBoolean(r)), nil

	case OpAnd:
		l, err := ev.eval(n.Left)
		if err != nil {
			return nil, err
		}
		if ev.pcb.ShortCircuit && !ToBoolean(l) {
			return BooleanResult(false), nil
		}
		r, err := ev.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return BooleanResult(ToBoolean(l) && ToBoolean(r)), nil

	case OpUnion:
		l, err := ev.eval(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := ev.eval(n.Right)
		if err != nil {
			return nil, err
		}
		merged := append(append(NodeSet{}, l.Nodes...), r.Nodes...)
		return NodeSetResult(merged.Dedup()), nil

	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		l, err := ev.eval(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := ev.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return BooleanResult(compare(n.Op, l, r)), nil

	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		l, err := ev.eval(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := ev.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return NumberResult(arith(n.Op, ToNumber(l), ToNumber(r))), nil
	}
	return nil, ErrSyntax.New("unknown binary operator")
}

func arith(op BinOp, a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b // IEEE-754 rules produce +/-Inf/NaN, not an error (§4.4).
	case OpMod:
		return math.Mod(a, b)
	}
	return 0
}
