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

// Chain is an ordered token sequence plus a cursor. The original tokenizer
// models this as a doubly-linked queue with external cursors; a vector with
// an index cursor is the idiomatic Go equivalent for an iteration-heavy,
// append-only structure (see DESIGN.md).
//
// Invariant: Pos is always in [0, len(Tokens)]; Pos == len(Tokens) means
// "after the last token", never a dangling pointer.
type Chain struct {
	Source   SourceKind
	Filename string
	Tokens   []*Token
	Pos      int

	// FieldTokens records, for docmode reformatting, which token indexes
	// correspond to specific user-visible source fields.
	FieldTokens map[string]int
}

// NewChain creates an empty chain ready to receive tokens.
func NewChain(source SourceKind, filename string) *Chain {
	return &Chain{
		Source:      source,
		Filename:    filename,
		FieldTokens: make(map[string]int),
	}
}

// Cur returns the token at the cursor, or nil if the cursor is past the end.
func (c *Chain) Cur() *Token {
	if c.Pos < 0 || c.Pos >= len(c.Tokens) {
		return nil
	}
	return c.Tokens[c.Pos]
}

// Peek looks ahead n tokens from the cursor without moving it.
func (c *Chain) Peek(n int) *Token {
	idx := c.Pos + n
	if idx < 0 || idx >= len(c.Tokens) {
		return nil
	}
	return c.Tokens[idx]
}

// Advance moves the cursor forward one token and returns the token it was
// on before moving (nil if already past the end).
func (c *Chain) Advance() *Token {
	t := c.Cur()
	if c.Pos < len(c.Tokens) {
		c.Pos++
	}
	return t
}

// Rewind resets the cursor to the first token.
func (c *Chain) Rewind() { c.Pos = 0 }

// AtEnd reports whether the cursor has consumed every token.
func (c *Chain) AtEnd() bool { return c.Pos >= len(c.Tokens) }

// Append adds a token to the end of the chain; it does not move the cursor.
func (c *Chain) Append(t *Token) { c.Tokens = append(c.Tokens, t) }

// Splice replaces the token at idx with replacement, used by re-tokenization
// (REDO) when a single string token is split into several.
func (c *Chain) Splice(idx int, replacement []*Token) {
	if idx < 0 || idx >= len(c.Tokens) {
		return
	}
	tail := append([]*Token{}, c.Tokens[idx+1:]...)
	c.Tokens = append(c.Tokens[:idx], append(replacement, tail...)...)
}
