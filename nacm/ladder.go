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

package nacm

// access names the kind of operation being authorised, used both to pick
// the right default/fast-check column and to label trace log lines.
type access int

const (
	accessRead access = iota
	accessWrite
	accessExec
)

func (a access) String() string {
	switch a {
	case accessRead:
		return "read"
	case accessWrite:
		return "write"
	case accessExec:
		return "exec"
	}
	return "unknown"
}

// ladderResult is the outcome of the shortcut ladder: either a final
// decision (decided == true) tagged with the rule kind that produced it,
// or a signal to fall through to full rule evaluation.
type ladderResult struct {
	decided  bool
	permit   bool
	ruleKind string
}

func permitResult(kind string) ladderResult { return ladderResult{decided: true, permit: true, ruleKind: kind} }
func denyResult(kind string) ladderResult   { return ladderResult{decided: true, permit: false, ruleKind: kind} }
func fallThrough() ladderResult             { return ladderResult{} }

// runLadder applies the shortcut ladder (§4.5) in order, stopping at the
// first matching step; isSuperuser is already resolved by the caller
// (username compared against the configured superuser name).
//
// mode OFF's unconditional permit and mode DISABLED's nuanced permit are
// both folded into fastCheck's table rather than DISABLED getting a
// separate blanket-permit step: §8's monotonicity invariant ("if DISABLED
// then permit for non-very-secure reads/writes") and the fast-check table
// itself both describe DISABLED as non-secure-only permit, which a
// blanket DISABLED-permits-everything step would make unreachable.
func runLadder(mode AccessMode, isSuperuser bool, flags SchemaFlags, a access, isCloseSession, isMetaEvent bool) ladderResult {
	if isSuperuser {
		return permitResult("superuser")
	}
	if a == accessExec && isCloseSession {
		return permitResult("close-session")
	}
	if isMetaEvent {
		return permitResult("meta-event")
	}
	if r, ok := fastCheck(mode, flags, a); ok {
		return r
	}
	return fallThrough()
}

// fastCheck implements §4.5 step 5, the schema-level fast-check table.
// ok is false when the table says "evaluate rules", i.e. the caller must
// proceed to full rule evaluation.
func fastCheck(mode AccessMode, flags SchemaFlags, a access) (ladderResult, bool) {
	switch mode {
	case ModeOff:
		return permitResult("off mode"), true

	case ModePermissive:
		if a == accessRead && !flags.VerySecure {
			return permitResult("permissive mode"), true
		}
		return fallThrough(), false

	case ModeDisabled:
		if a == accessRead {
			if !flags.VerySecure {
				return permitResult("NACM disabled"), true
			}
			return fallThrough(), false
		}
		if !flags.Secure && !flags.VerySecure {
			return permitResult("NACM disabled"), true
		}
		return fallThrough(), false

	case ModeEnforcing:
		return fallThrough(), false
	}
	return fallThrough(), false
}
