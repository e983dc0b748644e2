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

package runstack

import "github.com/nacmcore/core/internal/xpath"

// ControlKind discriminates the two control-block variants a frame's
// control stack may hold (§2 runstack frame).
type ControlKind int

const (
	ControlIf ControlKind = iota
	ControlLoop
)

// ControlBlock is implemented by *IfBlock and *LoopBlock.
type ControlBlock interface {
	Kind() ControlKind
}

// IfState is the state of an if/elif/else chain.
type IfState int

const (
	IfStateIf IfState = iota
	IfStateElif
	IfStateElse
)

// IfBlock tracks one if/elif/.../else/end chain.
type IfBlock struct {
	State            IfState
	StartCondition   bool
	IfUsed           bool // true once any branch so far has been taken
	CurrentCondition bool
}

func (b *IfBlock) Kind() ControlKind { return ControlIf }

// Active reports whether lines under the current branch should execute.
// The if/elif/else handlers set CurrentCondition to false whenever a
// prior branch in the chain already matched, so Active needs no further
// IfUsed check here.
func (b *IfBlock) Active() bool { return b.CurrentCondition }

// LoopState is the phase a while-loop's collector is in.
type LoopState int

const (
	// LoopCollecting records the body verbatim on its first pass.
	LoopCollecting LoopState = iota
	// LoopLooping replays the recorded body for subsequent iterations.
	LoopLooping
)

// LoopBlock is a while/end control block. On first pass its body lines are
// recorded into CollectedLines (COLLECTING); if the start condition was
// true, later passes replay those lines instead of re-reading the source
// (LOOPING) until the condition goes false, per §4.7.
type LoopBlock struct {
	PCB            *xpath.PCB
	DocumentRoot   xpath.ValueNode
	StartCondition bool
	MaxIterations  int
	State          LoopState
	CollectedLines []string
	FirstLine      int
	CurrentLine    int
	LastLine       int
	Outermost      *LoopBlock // the collector loop at the root of a nest
	EmptyBlock     bool
	IterationCount int

	// Condition is the "while <Condition>" expression text, re-evaluated
	// against Eval at the end of every replayed pass. Set by
	// HandleControlLine's "while" case.
	Condition string

	// Eval re-checks Condition once the loop's collected body has
	// replayed in full, for loops built without a PCB/DocumentRoot
	// snapshot (i.e. not restored via Redo). Set by HandleControlLine's
	// "while" case; consulted by reevaluateLoop.
	Eval CondEval
}

func (b *LoopBlock) Kind() ControlKind { return ControlLoop }

// ConditionTrue re-evaluates the loop's PCB against its snapshotted
// document root, converting the result to boolean per XPath 1.0 rules.
func (b *LoopBlock) ConditionTrue() (bool, error) {
	res, err := b.PCB.Evaluate(b.DocumentRoot)
	if err != nil {
		return false, err
	}
	return xpath.ToBoolean(res), nil
}
