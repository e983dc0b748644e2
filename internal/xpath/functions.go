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
	"math"
	"strings"
)

// FeatureRegistry is the narrow read-only collaborator feature-enabled()
// consults; per-module feature bookkeeping itself is out of scope (§1).
type FeatureRegistry interface {
	Enabled(module, feature string) bool
}

// ModuleRegistry is the narrow read-only collaborator module-loaded()
// consults.
type ModuleRegistry interface {
	Loaded(name, revision string) bool
}

// fnEntry is one row of the fixed function table (§4.4): name,
// argument-count contract (-1 means variadic) and evaluator, with the
// count checked at parse time. The table does not record a result kind.
type fnEntry struct {
	name    string
	argMin  int
	argMax  int // -1 means unbounded
	eval    func(ev *evaluator, args []Expr) (*Result, error)
}

var functionTable map[string]fnEntry

func init() {
	functionTable = map[string]fnEntry{
		"last":              {"last", 0, 0, fnLast},
		"position":          {"position", 0, 0, fnPosition},
		"count":             {"count", 1, 1, fnCount},
		"string":            {"string", 0, 1, fnString},
		"concat":            {"concat", 2, -1, fnConcat},
		"starts-with":       {"starts-with", 2, 2, fnStartsWith},
		"contains":          {"contains", 2, 2, fnContains},
		"substring-before":  {"substring-before", 2, 2, fnSubstringBefore},
		"substring-after":   {"substring-after", 2, 2, fnSubstringAfter},
		"substring":         {"substring", 2, 3, fnSubstring},
		"string-length":     {"string-length", 0, 1, fnStringLength},
		"normalize-space":   {"normalize-space", 0, 1, fnNormalizeSpace},
		"translate":         {"translate", 3, 3, fnTranslate},
		"boolean":           {"boolean", 1, 1, fnBoolean},
		"not":               {"not", 1, 1, fnNot},
		"true":              {"true", 0, 0, fnTrue},
		"false":             {"false", 0, 0, fnFalse},
		"number":            {"number", 0, 1, fnNumber},
		"sum":               {"sum", 1, 1, fnSum},
		"floor":             {"floor", 1, 1, fnFloor},
		"ceiling":           {"ceiling", 1, 1, fnCeiling},
		"round":             {"round", 1, 1, fnRound},
		"current":           {"current", 0, 0, fnCurrent},
		"module-loaded":     {"module-loaded", 1, 2, fnModuleLoaded},
		"feature-enabled":   {"feature-enabled", 2, 2, fnFeatureEnabled},
	}
}

func checkArgCount(e *fnEntry, n int) error {
	if n < e.argMin || (e.argMax >= 0 && n > e.argMax) {
		return ErrArgCount.New(e.name, e.argMin, n)
	}
	return nil
}

func fnLast(ev *evaluator, args []Expr) (*Result, error) {
	return NumberResult(float64(ev.contextLast)), nil
}

func fnPosition(ev *evaluator, args []Expr) (*Result, error) {
	return NumberResult(float64(ev.contextPos)), nil
}

func fnCount(ev *evaluator, args []Expr) (*Result, error) {
	r, err := ev.eval(args[0])
	if err != nil {
		return nil, err
	}
	return NumberResult(float64(len(r.Nodes))), nil
}

func fnString(ev *evaluator, args []Expr) (*Result, error) {
	if len(args) == 0 {
		return StringResult(ev.contextNode.StringValue()), nil
	}
	r, err := ev.eval(args[0])
	if err != nil {
		return nil, err
	}
	return StringResult(ToString(r)), nil
}

func fnConcat(ev *evaluator, args []Expr) (*Result, error) {
	var b strings.Builder
	for _, a := range args {
		r, err := ev.eval(a)
		if err != nil {
			return nil, err
		}
		b.WriteString(ToString(r))
	}
	return StringResult(b.String()), nil
}

func fnStartsWith(ev *evaluator, args []Expr) (*Result, error) {
	a, b, err := ev.evalTwoStrings(args)
	if err != nil {
		return nil, err
	}
	return BooleanResult(strings.HasPrefix(a, b)), nil
}

func fnContains(ev *evaluator, args []Expr) (*Result, error) {
	a, b, err := ev.evalTwoStrings(args)
	if err != nil {
		return nil, err
	}
	return BooleanResult(strings.Contains(a, b)), nil
}

func fnSubstringBefore(ev *evaluator, args []Expr) (*Result, error) {
	a, b, err := ev.evalTwoStrings(args)
	if err != nil {
		return nil, err
	}
	idx := strings.Index(a, b)
	if idx < 0 {
		return StringResult(""), nil
	}
	return StringResult(a[:idx]), nil
}

func fnSubstringAfter(ev *evaluator, args []Expr) (*Result, error) {
	a, b, err := ev.evalTwoStrings(args)
	if err != nil {
		return nil, err
	}
	idx := strings.Index(a, b)
	if idx < 0 {
		return StringResult(""), nil
	}
	return StringResult(a[idx+len(b):]), nil
}

func fnSubstring(ev *evaluator, args []Expr) (*Result, error) {
	sr, err := ev.eval(args[0])
	if err != nil {
		return nil, err
	}
	s := ToString(sr)
	startR, err := ev.eval(args[1])
	if err != nil {
		return nil, err
	}
	start := round(ToNumber(startR))
	length := math.MaxInt32
	if len(args) == 3 {
		lenR, err := ev.eval(args[2])
		if err != nil {
			return nil, err
		}
		length = int(round(ToNumber(lenR)))
	}
	runes := []rune(s)
	from := start - 1
	to := from + length
	if from < 0 {
		from = 0
	}
	if to > len(runes) {
		to = len(runes)
	}
	if from >= to || from >= len(runes) {
		return StringResult(""), nil
	}
	return StringResult(string(runes[from:to])), nil
}

func fnStringLength(ev *evaluator, args []Expr) (*Result, error) {
	s := ev.contextNode.StringValue()
	if len(args) == 1 {
		r, err := ev.eval(args[0])
		if err != nil {
			return nil, err
		}
		s = ToString(r)
	}
	return NumberResult(float64(len([]rune(s)))), nil
}

func fnNormalizeSpace(ev *evaluator, args []Expr) (*Result, error) {
	s := ev.contextNode.StringValue()
	if len(args) == 1 {
		r, err := ev.eval(args[0])
		if err != nil {
			return nil, err
		}
		s = ToString(r)
	}
	return StringResult(strings.Join(strings.Fields(s), " ")), nil
}

func fnTranslate(ev *evaluator, args []Expr) (*Result, error) {
	sr, err := ev.eval(args[0])
	if err != nil {
		return nil, err
	}
	fromR, err := ev.eval(args[1])
	if err != nil {
		return nil, err
	}
	toR, err := ev.eval(args[2])
	if err != nil {
		return nil, err
	}
	s, from, to := ToString(sr), []rune(ToString(fromR)), []rune(ToString(toR))
	var b strings.Builder
	for _, r := range s {
		idx := -1
		for i, f := range from {
			if f == r {
				idx = i
				break
			}
		}
		if idx < 0 {
			b.WriteRune(r)
		} else if idx < len(to) {
			b.WriteRune(to[idx])
		}
	}
	return StringResult(b.String()), nil
}

func fnBoolean(ev *evaluator, args []Expr) (*Result, error) {
	r, err := ev.eval(args[0])
	if err != nil {
		return nil, err
	}
	return BooleanResult(ToBoolean(r)), nil
}

func fnNot(ev *evaluator, args []Expr) (*Result, error) {
	r, err := ev.eval(args[0])
	if err != nil {
		return nil, err
	}
	return BooleanResult(!ToBoolean(r)), nil
}

func fnTrue(ev *evaluator, args []Expr) (*Result, error)  { return BooleanResult(true), nil }
func fnFalse(ev *evaluator, args []Expr) (*Result, error) { return BooleanResult(false), nil }

func fnNumber(ev *evaluator, args []Expr) (*Result, error) {
	if len(args) == 0 {
		return NumberResult(stringToNumber(ev.contextNode.StringValue())), nil
	}
	r, err := ev.eval(args[0])
	if err != nil {
		return nil, err
	}
	return NumberResult(ToNumber(r)), nil
}

func fnSum(ev *evaluator, args []Expr) (*Result, error) {
	r, err := ev.eval(args[0])
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, n := range r.Nodes {
		if n.Value != nil {
			total += stringToNumber(n.Value.StringValue())
		}
	}
	return NumberResult(total), nil
}

func fnFloor(ev *evaluator, args []Expr) (*Result, error) {
	r, err := ev.eval(args[0])
	if err != nil {
		return nil, err
	}
	return NumberResult(math.Floor(ToNumber(r))), nil
}

func fnCeiling(ev *evaluator, args []Expr) (*Result, error) {
	r, err := ev.eval(args[0])
	if err != nil {
		return nil, err
	}
	return NumberResult(math.Ceil(ToNumber(r))), nil
}

func fnRound(ev *evaluator, args []Expr) (*Result, error) {
	r, err := ev.eval(args[0])
	if err != nil {
		return nil, err
	}
	return NumberResult(round(ToNumber(r))), nil
}

func round(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return math.Floor(f + 0.5)
}

// fnCurrent implements current() (XPath 2.0, adopted per §6.3): always
// returns the PCB's original context, ignoring any nested predicate
// context that evaluation may currently be inside.
func fnCurrent(ev *evaluator, args []Expr) (*Result, error) {
	return NodeSetResult(NodeSet{{Value: ev.pcb.OriginalContext}}), nil
}

func fnModuleLoaded(ev *evaluator, args []Expr) (*Result, error) {
	if ev.pcb.Modules == nil {
		return BooleanResult(false), nil
	}
	nameR, err := ev.eval(args[0])
	if err != nil {
		return nil, err
	}
	rev := ""
	if len(args) == 2 {
		revR, err := ev.eval(args[1])
		if err != nil {
			return nil, err
		}
		rev = ToString(revR)
	}
	return BooleanResult(ev.pcb.Modules.Loaded(ToString(nameR), rev)), nil
}

func fnFeatureEnabled(ev *evaluator, args []Expr) (*Result, error) {
	if ev.pcb.Features == nil {
		return BooleanResult(false), nil
	}
	modR, err := ev.eval(args[0])
	if err != nil {
		return nil, err
	}
	featR, err := ev.eval(args[1])
	if err != nil {
		return nil, err
	}
	return BooleanResult(ev.pcb.Features.Enabled(ToString(modR), ToString(featR))), nil
}

func (ev *evaluator) evalTwoStrings(args []Expr) (string, string, error) {
	a, err := ev.eval(args[0])
	if err != nil {
		return "", "", err
	}
	b, err := ev.eval(args[1])
	if err != nil {
		return "", "", err
	}
	return ToString(a), ToString(b), nil
}
