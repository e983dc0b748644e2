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

// Package runstack implements the nested-script execution context (§4.7):
// a bounded stack of script frames, each with its own conditional/loop
// control blocks, input priority between interactive/script/loop sources,
// and cooperative cancellation.
package runstack

import (
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// InputSource names which of the three input priorities is currently
// supplying lines (§4.7: LOOP > SCRIPT > USER).
type InputSource int

const (
	SourceUser InputSource = iota
	SourceScript
	SourceLoop
)

func (s InputSource) String() string {
	switch s {
	case SourceUser:
		return "user"
	case SourceScript:
		return "script"
	case SourceLoop:
		return "loop"
	}
	return "unknown"
}

// DefaultMaxDepth is the default bound on nested script depth (§4.7).
const DefaultMaxDepth = 64

// Context is one runstack: a global variable map, a zero-level
// (interactive) variable map and control stack, the active input source,
// a cancel flag, and the stack of pushed script frames.
type Context struct {
	Globals             map[string]string
	InteractiveVars      map[string]string
	InteractiveControls []ControlBlock

	Source InputSource

	MaxDepth int
	frames   []*Frame

	cancelled int32

	Log *logrus.Entry
}

// NewContext creates an empty interactive context.
func NewContext(log *logrus.Entry) *Context {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Context{
		Globals:         make(map[string]string),
		InteractiveVars: make(map[string]string),
		Source:          SourceUser,
		MaxDepth:        DefaultMaxDepth,
		Log:             log,
	}
}

// Depth returns the number of currently pushed script frames.
func (c *Context) Depth() int { return len(c.frames) }

// PushScript opens a new nested script frame, enforcing the bounded
// nesting depth.
func (c *Context) PushScript(sourceName string, r io.Reader, args []string) (*Frame, error) {
	if len(c.frames) >= c.MaxDepth {
		return nil, ErrMaxDepthExceeded.New(c.MaxDepth)
	}
	f := NewFrame(sourceName, r, args)
	c.frames = append(c.frames, f)
	c.Source = SourceScript
	c.Log.WithField("source", sourceName).WithField("depth", len(c.frames)).Debug("runstack: pushed script frame")
	return f, nil
}

// CurrentFrame returns the innermost open script frame, or nil when
// running interactively with no script pushed.
func (c *Context) CurrentFrame() *Frame {
	if len(c.frames) == 0 {
		return nil
	}
	return c.frames[len(c.frames)-1]
}

// PopScript closes the innermost script frame. When the stack becomes
// empty the active source reverts to USER.
func (c *Context) PopScript() {
	n := len(c.frames)
	if n == 0 {
		return
	}
	c.frames = c.frames[:n-1]
	if len(c.frames) == 0 {
		c.Source = SourceUser
	}
	c.Log.WithField("depth", len(c.frames)).Debug("runstack: popped script frame")
}

// Cancel raises the cooperative cancel flag; in-flight script execution
// observes it at the next line boundary or while-body replay (§5).
func (c *Context) Cancel() { atomic.StoreInt32(&c.cancelled, 1) }

// Cancelled reports whether Cancel has been called since the last reset.
func (c *Context) Cancelled() bool { return atomic.LoadInt32(&c.cancelled) != 0 }

// ResetCancel clears the cancel flag, called once unwinding completes.
func (c *Context) ResetCancel() { atomic.StoreInt32(&c.cancelled, 0) }

// Unwind pops every open frame and restores the USER source, per the
// cancellation contract in §4.7 ("cancelling a running script unwinds all
// frames and restores USER source").
func (c *Context) Unwind() {
	for len(c.frames) > 0 {
		c.PopScript()
	}
	c.Source = SourceUser
	c.ResetCancel()
}

// Vars returns the variable map in scope: a pushed script frame's locals,
// or the interactive map when no frame is open.
func (c *Context) Vars() map[string]string {
	if f := c.CurrentFrame(); f != nil {
		return f.Locals
	}
	return c.InteractiveVars
}

// Controls returns the control-block stack in scope, mirroring Vars.
func (c *Context) Controls() *[]ControlBlock {
	if f := c.CurrentFrame(); f != nil {
		return &f.Controls
	}
	return &c.InteractiveControls
}

// ReadLine reads the next logical line honoring the LOOP > SCRIPT > USER
// priority (§4.7): a LOOPING control block at the top of the current
// scope's stack replays its collected lines before the frame's own input
// is consulted. When a LOOPING block's replay buffer drains, ReadLine
// re-evaluates the loop's condition itself (advanceLoopIteration) rather
// than falling through to the frame/user input — a while loop otherwise
// never iterates past its first pass. If the cancel flag is raised,
// ReadLine unwinds every frame and returns ErrCancelled instead of a line.
func (c *Context) ReadLine(userInput func() (string, error)) (string, error) {
	if c.Cancelled() {
		c.Unwind()
		return "", ErrCancelled.New()
	}
	for {
		controls := c.Controls()
		n := len(*controls)
		if n == 0 {
			break
		}
		loop, ok := (*controls)[n-1].(*LoopBlock)
		if !ok || loop.State != LoopLooping {
			break
		}
		if loop.CurrentLine <= loop.LastLine && loop.CurrentLine < len(loop.CollectedLines) {
			line := loop.CollectedLines[loop.CurrentLine]
			loop.CurrentLine++
			return line, nil
		}
		cont, err := advanceLoopIteration(controls, loop)
		if err != nil {
			return "", err
		}
		if !cont {
			break
		}
		// loop rewound to FirstLine; re-check from the top since a
		// zero-length body (EmptyBlock) is already handled by
		// advanceLoopIteration popping the block.
	}

	if f := c.CurrentFrame(); f != nil {
		return f.ReadLogicalLine()
	}
	return userInput()
}
