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
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ToString implements the string(·) conversion rules of §4.4.
func ToString(r *Result) string {
	switch r.Kind {
	case KindString:
		return r.Str
	case KindBoolean:
		if r.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		return numberToString(r.Number)
	case KindNodeSet:
		if len(r.Nodes) == 0 {
			return ""
		}
		return firstNodeStringValue(r.Nodes[0])
	}
	return ""
}

func firstNodeStringValue(n *ResNode) string {
	if n.Value != nil {
		return n.Value.StringValue()
	}
	return ""
}

// numberToString is the canonical-decimal rendering used by both string(·)
// and function results: NaN -> "NaN", +/-Inf -> "Infinity"/"-Infinity".
func numberToString(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ToNumber implements the number(·) conversion rules of §4.4. string->number
// parsing uses spf13/cast for the trim+parse step, then rejects hex/octal
// forms the cast package would otherwise accept, returning NaN on any
// rejection per XPath 1.0 semantics.
func ToNumber(r *Result) float64 {
	switch r.Kind {
	case KindNumber:
		return r.Number
	case KindBoolean:
		if r.Bool {
			return 1
		}
		return 0
	case KindString:
		return stringToNumber(r.Str)
	case KindNodeSet:
		return stringToNumber(ToString(r))
	}
	return math.NaN()
}

func stringToNumber(s string) float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return math.NaN()
	}
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") ||
		strings.HasPrefix(trimmed, "0o") || strings.HasPrefix(trimmed, "0O") {
		return math.NaN()
	}
	f, err := cast.ToFloat64E(trimmed)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ToBoolean implements the boolean(·) conversion rules of §4.4.
func ToBoolean(r *Result) bool {
	switch r.Kind {
	case KindBoolean:
		return r.Bool
	case KindNumber:
		return r.Number != 0 && !math.IsNaN(r.Number)
	case KindString:
		return len(r.Str) > 0
	case KindNodeSet:
		return len(r.Nodes) > 0
	}
	return false
}
