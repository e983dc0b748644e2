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

package schemaid

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrMalformedPath is given for a path with an empty step (e.g. "a//b").
	ErrMalformedPath = errors.NewKind("malformed schema-nodeid path %q")
	// ErrInvalidStepName is given when a step is not a valid identifier.
	ErrInvalidStepName = errors.NewKind("invalid step name %q in path %q")
	// ErrUnknownPrefix is given when a step's prefix does not resolve in
	// the current module's import set.
	ErrUnknownPrefix = errors.NewKind("unknown prefix %q resolving %q")
	// ErrStepNotFound is given when a step has no matching child; the path
	// walked so far (verbatim up to the failing step) is included.
	ErrStepNotFound = errors.NewKind("schema-nodeid step not found: %q")
	// ErrAugmentClone is given when a step resolves to a node that exists
	// only as an augment clone; the original must be referenced instead.
	ErrAugmentClone = errors.NewKind("cannot step into augment clone: %q")
)
