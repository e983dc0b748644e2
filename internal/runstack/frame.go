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

import (
	"bufio"
	"io"
	"strings"
)

// lineBufferSize is the 32 KiB per-frame line buffer named in §2.
const lineBufferSize = 32 * 1024

// Frame is one script invocation: an open input handle, its own parameter
// and local-variable maps, and a stack of conditional/loop control blocks
// (§2 runstack frame).
type Frame struct {
	scanner    *bufio.Scanner
	SourceName string
	Params     map[string]string // $0..$N
	Locals     map[string]string
	Controls   []ControlBlock
	eof        bool
}

// NewFrame wraps r for line-oriented reading and seeds the parameter map
// from args ($0 is sourceName, $1.. are args, matching shell convention).
func NewFrame(sourceName string, r io.Reader, args []string) *Frame {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, lineBufferSize), lineBufferSize)

	params := make(map[string]string, len(args)+1)
	params["0"] = sourceName
	for i, a := range args {
		params[itoa(i+1)] = a
	}

	return &Frame{
		scanner:    sc,
		SourceName: sourceName,
		Params:     params,
		Locals:     make(map[string]string),
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

// ReadLogicalLine reads one physical-line-joined logical line from the
// frame's input: `\`-terminated lines are continuations of the next
// physical line, and lines starting with `#` or `//` (after leading
// whitespace) are comments and are skipped entirely (§4.7). Returns
// io.EOF once the frame's input is exhausted.
func (f *Frame) ReadLogicalLine() (string, error) {
	var b strings.Builder
	for {
		if !f.scanner.Scan() {
			if err := f.scanner.Err(); err != nil {
				if err == bufio.ErrTooLong {
					return "", ErrLineTooLong.New(lineBufferSize)
				}
				return "", err
			}
			if b.Len() > 0 {
				return b.String(), nil
			}
			f.eof = true
			return "", io.EOF
		}
		line := f.scanner.Text()
		if b.Len() == 0 {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
				continue
			}
		}
		if strings.HasSuffix(line, `\`) {
			b.WriteString(line[:len(line)-1])
			if b.Len() > lineBufferSize {
				return "", ErrLineTooLong.New(lineBufferSize)
			}
			continue
		}
		b.WriteString(line)
		if b.Len() > lineBufferSize {
			return "", ErrLineTooLong.New(lineBufferSize)
		}
		return b.String(), nil
	}
}

// PushControl pushes a new control block onto the frame's stack.
func (f *Frame) PushControl(c ControlBlock) { f.Controls = append(f.Controls, c) }

// TopControl returns the innermost control block, or nil if the stack is
// empty.
func (f *Frame) TopControl() ControlBlock {
	if len(f.Controls) == 0 {
		return nil
	}
	return f.Controls[len(f.Controls)-1]
}

// PopControl removes and returns the innermost control block.
func (f *Frame) PopControl() ControlBlock {
	n := len(f.Controls)
	if n == 0 {
		return nil
	}
	c := f.Controls[n-1]
	f.Controls = f.Controls[:n-1]
	return c
}
