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

import "strings"

const tabWidth = 8

// decodeDoubleQuoted implements §4.1's double-quoted-string sub-processor:
// it replaces the four recognized escapes, leaves any other "\x" literal,
// and (unless skipReindent, i.e. XPath source) re-indents continuation
// lines relative to startCol.
func decodeDoubleQuoted(raw string, startCol int, skipReindent bool) (string, error) {
	unescaped := unescape(raw)
	if skipReindent {
		return unescaped, nil
	}
	return reindent(unescaped, startCol), nil
}

func unescape(raw string) string {
	var out strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case 'n':
				out.WriteByte('\n')
				i++
				continue
			case 't':
				out.WriteByte('\t')
				i++
				continue
			case '"':
				out.WriteByte('"')
				i++
				continue
			case '\\':
				out.WriteByte('\\')
				i++
				continue
			default:
				// any other \x sequence is preserved literally.
				out.WriteByte(raw[i])
				continue
			}
		}
		out.WriteByte(raw[i])
	}
	return out.String()
}

// reindent applies §4.1 step 3: for each newline inside the string, trim
// trailing horizontal whitespace off the preceding line, then re-indent the
// following line so its leading whitespace equals max(0, original - startCol),
// expanding tabs to 8-column stops.
func reindent(s string, startCol int) string {
	lines := strings.Split(s, "\n")
	if len(lines) == 1 {
		return s
	}
	for i := 0; i < len(lines)-1; i++ {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	for i := 1; i < len(lines); i++ {
		leading := leadingWidth(lines[i])
		trimmed := strings.TrimLeft(lines[i], " \t")
		newIndent := leading - startCol
		if newIndent < 0 {
			newIndent = 0
		}
		lines[i] = strings.Repeat(" ", newIndent) + trimmed
	}
	return strings.Join(lines, "\n")
}

func leadingWidth(s string) int {
	width := 0
	for _, r := range s {
		switch r {
		case ' ':
			width++
		case '\t':
			width += tabWidth - (width % tabWidth)
		default:
			return width
		}
	}
	return width
}

// Concatenate merges every "S1" + "S2" [+ "S3" ...] run of quoted-string
// tokens into a single token, removing the intervening '+' tokens. It is a
// no-op for SourceXPath chains per §4.1. When docmode is true the merged
// fragments are preserved on the surviving token's OrigFragments.
func Concatenate(c *Chain, docmode bool) {
	if c.Source == SourceXPath {
		return
	}

	out := make([]*Token, 0, len(c.Tokens))
	i := 0
	for i < len(c.Tokens) {
		tok := c.Tokens[i]
		if !isQuotedKind(tok.Kind) {
			out = append(out, tok)
			i++
			continue
		}

		merged := &Token{Kind: tok.Kind, Value: tok.Value, Line: tok.Line, Col: tok.Col}
		if docmode {
			merged.OrigFragments = append(merged.OrigFragments, OrigFragment{
				Text:  tok.Value,
				Quote: quoteByte(tok.Kind),
			})
		}

		j := i + 1
		for j+1 < len(c.Tokens) && c.Tokens[j].Kind == KindPlus && isQuotedKind(c.Tokens[j+1].Kind) {
			next := c.Tokens[j+1]
			merged.Value += next.Value
			if docmode {
				merged.OrigFragments[len(merged.OrigFragments)-1].NewlineAfter = strings.Contains(next.Value, "\n")
				merged.OrigFragments = append(merged.OrigFragments, OrigFragment{
					Text:  next.Value,
					Quote: quoteByte(next.Kind),
				})
			}
			j += 2
		}

		out = append(out, merged)
		i = j
	}
	c.Tokens = out
	if c.Pos > len(c.Tokens) {
		c.Pos = len(c.Tokens)
	}
}

func isQuotedKind(k Kind) bool {
	return k == KindSingleQuoted || k == KindDoubleQuoted
}

func quoteByte(k Kind) byte {
	if k == KindSingleQuoted {
		return '\''
	}
	return '"'
}

// Retokenize re-lexes a single string token's value against SourceRedo and
// splices the resulting tokens in its place, inheriting the original
// token's line/col. Used to split constructs like "1..max" into
// number, "..", identifier.
func Retokenize(c *Chain, idx int) error {
	if idx < 0 || idx >= len(c.Tokens) {
		return nil
	}
	orig := c.Tokens[idx]
	sub, err := Lex(orig.Value, SourceRedo, c.Filename)
	if err != nil {
		return err
	}
	for _, t := range sub.Tokens {
		t.Line = orig.Line
		t.Col = orig.Col
	}
	c.Splice(idx, sub.Tokens)
	return nil
}
