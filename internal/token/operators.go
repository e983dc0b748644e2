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

package token

// sourceMask is a bitmask of SourceKind values an operator is legal in.
type sourceMask uint8

const (
	flYang sourceMask = 1 << iota
	flConf
	flXPath
	flRedo
	flAll = flYang | flConf | flXPath | flRedo
)

func (m sourceMask) allows(s SourceKind) bool {
	switch s {
	case SourceYANG:
		return m&flYang != 0
	case SourceConf:
		return m&flConf != 0
	case SourceXPath:
		return m&flXPath != 0
	case SourceRedo:
		return m&flRedo != 0
	}
	return false
}

type opEntry struct {
	kind   Kind
	symbol string
	mask   sourceMask
}

// twoCharOps must be tried before oneCharOps: the tokenizer always attempts
// the longest match first, mirroring the original's two-phase lookup.
var twoCharOps = []opEntry{
	{KindRangeSep, "..", flYang | flXPath | flRedo},
	{KindDblColon, "::", flXPath},
	{KindDblFSlash, "//", flXPath},
	{KindNotEqual, "!=", flXPath},
	{KindLEqual, "<=", flXPath},
	{KindGEqual, ">=", flXPath},
}

var oneCharOps = []opEntry{
	{KindLBrace, "{", flAll},
	{KindRBrace, "}", flAll},
	{KindSemicolon, ";", flYang},
	{KindLParen, "(", flXPath},
	{KindRParen, ")", flXPath},
	{KindLBracket, "[", flXPath},
	{KindRBracket, "]", flXPath},
	{KindComma, ",", flXPath},
	{KindEquals, "=", flXPath},
	{KindBar, "|", flYang | flXPath | flRedo},
	{KindStar, "*", flXPath},
	{KindAtSign, "@", flXPath},
	{KindPlus, "+", flYang | flXPath | flRedo},
	{KindColon, ":", flXPath},
	{KindPeriod, ".", flXPath},
	{KindFSlash, "/", flXPath},
	{KindMinus, "-", flXPath},
	{KindLT, "<", flXPath},
	{KindGT, ">", flXPath},
}

// matchOperator tries a two-character operator first, then a one-character
// operator, both filtered by src. It returns KindNone if nothing matches.
func matchOperator(buf string, src SourceKind) (kind Kind, length int) {
	if len(buf) >= 2 {
		for _, e := range twoCharOps {
			if e.mask.allows(src) && buf[:2] == e.symbol {
				return e.kind, 2
			}
		}
	}
	if len(buf) >= 1 {
		for _, e := range oneCharOps {
			if e.mask.allows(src) && buf[:1] == e.symbol {
				return e.kind, 1
			}
		}
	}
	return KindNone, 0
}
