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

import (
	"fmt"

	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrUnterminatedQuote is given when a quoted string never finds its
	// closing quote before EOF.
	ErrUnterminatedQuote = errors.NewKind("unterminated quoted string at %d:%d")
	// ErrUnterminatedComment is given when a /* comment never closes.
	ErrUnterminatedComment = errors.NewKind("unterminated comment at %d:%d")
	// ErrStringTooLong is given when a quoted string (after concatenation)
	// exceeds MaxQuotedStringLength bytes.
	ErrStringTooLong = errors.NewKind("quoted string exceeds %d bytes at %d:%d")
	// ErrInvalidNumber is given for a malformed hex or real number literal.
	ErrInvalidNumber = errors.NewKind("invalid number literal %q at %d:%d")
	// ErrInvalidIdentifier is given for an identifier containing disallowed
	// characters after promotion checks.
	ErrInvalidIdentifier = errors.NewKind("invalid identifier %q at %d:%d")
	// ErrInvalidEscape is given for an unrecognized escape sequence inside a
	// percent-decoded field.
	ErrInvalidEscape = errors.NewKind("invalid escape sequence %q at %d:%d")
)

// PosError wraps one of the Err* kinds with a concrete line/column; callers
// compare against the Err*.Is(err) family to classify a failure per the
// malformed-input error taxonomy.
type PosError struct {
	Line, Col int
	Err       error
}

func (e *PosError) Error() string {
	return fmt.Sprintf("%s", e.Err)
}

func (e *PosError) Unwrap() error { return e.Err }
