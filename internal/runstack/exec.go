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

import "strings"

// CondEval evaluates a condition expression (an XPath boolean() result) in
// whatever document context the caller currently has bound.
type CondEval func(expr string) (bool, error)

// DefaultMaxIterations bounds a while loop absent an explicit limit,
// guarding against runaway scripts (§4.7).
const DefaultMaxIterations = 10000

// HandleControlLine recognises if/elif/else/end/while as control commands
// and mutates ctx's active control stack accordingly. It reports handled
// == true when line was a control command (and should not be executed as
// an ordinary command).
func HandleControlLine(ctx *Context, line string, eval CondEval) (handled bool, err error) {
	word, rest := splitWord(line)
	controls := ctx.Controls()

	switch word {
	case "if":
		cond, err := eval(rest)
		if err != nil {
			return true, err
		}
		*controls = append(*controls, &IfBlock{
			State:            IfStateIf,
			StartCondition:   cond,
			CurrentCondition: cond,
			IfUsed:           cond,
		})
		return true, nil

	case "elif":
		top, ok := topIf(*controls)
		if !ok {
			return true, ErrUnbalancedControl.New("elif without if")
		}
		if top.IfUsed {
			top.State, top.CurrentCondition = IfStateElif, false
			return true, nil
		}
		cond, err := eval(rest)
		if err != nil {
			return true, err
		}
		top.State = IfStateElif
		top.CurrentCondition = cond
		if cond {
			top.IfUsed = true
		}
		return true, nil

	case "else":
		top, ok := topIf(*controls)
		if !ok {
			return true, ErrUnbalancedControl.New("else without if")
		}
		top.State = IfStateElse
		top.CurrentCondition = !top.IfUsed
		top.IfUsed = true
		return true, nil

	case "while":
		cond, err := eval(rest)
		if err != nil {
			return true, err
		}
		*controls = append(*controls, &LoopBlock{
			StartCondition: cond,
			MaxIterations:  DefaultMaxIterations,
			State:          LoopCollecting,
			Condition:      rest,
			Eval:           eval,
		})
		return true, nil

	case "end":
		n := len(*controls)
		if n == 0 {
			return true, ErrUnbalancedControl.New("end without matching if/while")
		}
		top := (*controls)[n-1]
		if loop, ok := top.(*LoopBlock); ok {
			return true, endLoop(controls, loop)
		}
		*controls = (*controls)[:n-1]
		return true, nil
	}
	return false, nil
}

// endLoop closes a while block's body on its first pass (COLLECTING):
// it snapshots how many lines were recorded and, if the loop's start
// condition was true, transitions to LOOPING so Context.ReadLine begins
// replaying the collected body. A loop is never still COLLECTING when its
// own "end" is seen a second time — once LOOPING, re-entry is driven by
// advanceLoopIteration when the replay buffer drains, not by a textual
// "end" line (the collected body's own "end" was never recorded, see
// RecordLine).
func endLoop(controls *[]ControlBlock, loop *LoopBlock) error {
	n := len(*controls)
	loop.LastLine = len(loop.CollectedLines) - 1
	loop.EmptyBlock = loop.LastLine < loop.FirstLine
	if !loop.StartCondition {
		*controls = (*controls)[:n-1]
		return nil
	}
	loop.State = LoopLooping
	loop.CurrentLine = loop.FirstLine
	loop.IterationCount++
	return nil
}

// advanceLoopIteration runs once a LOOPING block's replay buffer has been
// fully read back (§4.7 "replays it on subsequent iterations"): it
// enforces MaxIterations, re-checks the loop's condition, and either
// rewinds CurrentLine for another pass (cont == true, caller should read
// again) or pops the block off controls (cont == false, caller should
// fall through to whatever follows the loop).
func advanceLoopIteration(controls *[]ControlBlock, loop *LoopBlock) (cont bool, err error) {
	n := len(*controls)
	loop.IterationCount++
	if loop.IterationCount > loop.MaxIterations {
		*controls = (*controls)[:n-1]
		return false, ErrMaxIterations.New(loop.MaxIterations)
	}
	again, err := reevaluateLoop(loop)
	if err != nil {
		*controls = (*controls)[:n-1]
		return false, err
	}
	if !again || loop.EmptyBlock {
		*controls = (*controls)[:n-1]
		return false, nil
	}
	loop.CurrentLine = loop.FirstLine
	return true, nil
}

// reevaluateLoop re-checks a LOOPING block's condition. A loop reconstructed
// via Redo carries a live PCB/document-root snapshot and is re-checked
// against that; an ordinary loop re-checks its original condition text via
// the Eval callback bound when the "while" line was first seen.
func reevaluateLoop(loop *LoopBlock) (bool, error) {
	if loop.PCB != nil {
		return loop.ConditionTrue()
	}
	return loop.Eval(loop.Condition)
}

// RecordLine appends a line to the innermost COLLECTING loop's body, if
// any. Callers should call this for every line read while a loop is
// collecting, including nested control lines, so replay is byte-faithful.
func RecordLine(ctx *Context, line string) {
	controls := *ctx.Controls()
	if n := len(controls); n > 0 {
		if loop, ok := controls[n-1].(*LoopBlock); ok && loop.State == LoopCollecting {
			loop.CollectedLines = append(loop.CollectedLines, line)
		}
	}
}

// ShouldExecute reports whether a non-control line should run given the
// current control stack: every enclosing if-block must be on its active
// branch.
func ShouldExecute(ctx *Context) bool {
	for _, c := range *ctx.Controls() {
		if ib, ok := c.(*IfBlock); ok && !ib.Active() {
			return false
		}
	}
	return true
}

func topIf(controls []ControlBlock) (*IfBlock, bool) {
	if len(controls) == 0 {
		return nil, false
	}
	ib, ok := controls[len(controls)-1].(*IfBlock)
	return ib, ok
}

func splitWord(line string) (word, rest string) {
	trimmed := strings.TrimSpace(line)
	idx := strings.IndexAny(trimmed, " \t")
	if idx < 0 {
		return trimmed, ""
	}
	return trimmed[:idx], strings.TrimSpace(trimmed[idx+1:])
}
