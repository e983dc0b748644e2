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

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrSyntax is given for a grammar violation during the Parse phase.
	ErrSyntax = errors.NewKind("xpath syntax error: %s")
	// ErrUnknownFunction is given for a function reference not present in
	// the fixed function table.
	ErrUnknownFunction = errors.NewKind("unknown function %q")
	// ErrArgCount is given when a call's argument count does not match the
	// function table entry.
	ErrArgCount = errors.NewKind("function %q expects %d args, got %d")
	// ErrUnresolvedPrefix is given when a step or function prefix does not
	// resolve against the module import set or reader namespace bindings.
	ErrUnresolvedPrefix = errors.NewKind("unresolved prefix %q")
	// ErrMissingNode is given by Validate when a path step names no schema
	// node (unless its missingIsWarning argument is set), and by Evaluate
	// when a variable reference has no binding. The PCB's MissingIsError
	// flag is not consulted by either phase, and a path step that matches
	// no value node during Evaluate yields an empty node-set, not this error.
	ErrMissingNode = errors.NewKind("missing node resolving %q")
	// ErrPhaseNotReady is given when Evaluate (or Validate) is attempted
	// before an earlier phase succeeded (§3 lifecycle, §7 propagation).
	ErrPhaseNotReady = errors.NewKind("phase %s not ready: earlier phase failed")
	// ErrUnsupportedRestriction is given when an expression uses a
	// construct not permitted under the PCB's source-kind restriction
	// (instance-identifier / schema-instance-identifier, §6.3).
	ErrUnsupportedRestriction = errors.NewKind("construct not permitted under %s restriction")
)
