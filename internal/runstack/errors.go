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

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrMaxDepthExceeded is returned when pushing a script frame would
	// exceed the bounded nesting depth.
	ErrMaxDepthExceeded = errors.NewKind("script nesting depth exceeded (max %d)")
	// ErrUnbalancedControl is returned when "end" appears with no open
	// conditional or loop block, or "elif"/"else" appears outside an if.
	ErrUnbalancedControl = errors.NewKind("unbalanced control block: %s")
	// ErrEmptyStack reports that no script frame is open. PopScript and
	// CurrentFrame do not return it: on an empty stack PopScript does
	// nothing and CurrentFrame returns nil.
	ErrEmptyStack = errors.NewKind("no script frame is open")
	ErrCancelled  = errors.NewKind("script cancelled")
	// ErrLineTooLong is returned when a single logical line (after
	// continuation-joining) exceeds the frame's line buffer.
	ErrLineTooLong = errors.NewKind("line exceeds %d byte buffer")
	// ErrMaxIterations is returned when a loop exceeds its configured
	// maximum iteration count.
	ErrMaxIterations = errors.NewKind("loop exceeded maximum of %d iterations")
)
