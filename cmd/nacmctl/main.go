// Copyright 2020-2022 Dolthub, Inc.
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

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/nacmcore/core/internal/runstack"
	"github.com/nacmcore/core/internal/xpath"
	"github.com/nacmcore/core/nacm"
	"github.com/nacmcore/core/nacm/cache"
)

// nacmctl drives a NacmState from the command line for manual testing: it
// loads a /nacm configuration plus a small synthetic datastore tree from
// YAML, then runs a runstack script (or an interactive stdin session)
// issuing rpc/read/write/notif decision calls against it and printing the
// trace.
//
// This is a development aid, not a NETCONF server; there is no real
// session transport or datastore (§1's Non-goals).

var (
	configPath = flag.String("config", "nacmctl.yaml", "path to a YAML /nacm config + synthetic datastore tree")
	scriptPath = flag.String("script", "", "path to a runstack script; reads stdin interactively if empty")
	asUser     = flag.String("user", "admin", "default username for decision commands")
)

type nodeSpec struct {
	Path            string `yaml:"path"`
	Module          string `yaml:"module"`
	VerySecure      bool   `yaml:"very-secure"`
	Secure          bool   `yaml:"secure"`
	BlockUserCreate bool   `yaml:"block-user-create"`
	BlockUserDelete bool   `yaml:"block-user-delete"`
	BlockUserUpdate bool   `yaml:"block-user-update"`
}

type fileConfig struct {
	Nacm  cache.Config `yaml:"nacm"`
	Nodes []nodeSpec   `yaml:"nodes"`
}

func main() {
	flag.Parse()

	log := logrus.NewEntry(logrus.StandardLogger())

	raw, err := os.ReadFile(*configPath)
	if err != nil {
		panic(err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		panic(err)
	}

	state, err := nacm.New(&fc.Nacm, nacm.WithLogger(log))
	if err != nil {
		panic(err)
	}
	defer state.Close()

	root := buildTree(fc.Nodes)

	rc := runstack.NewContext(log)
	eval := func(expr string) (bool, error) {
		pcb := xpath.NewPCB(xpath.SourceMustWhen, expr)
		if err := pcb.Parse(); err != nil {
			return false, err
		}
		res, err := pcb.Evaluate(root)
		if err != nil {
			return false, err
		}
		return xpath.ToBoolean(res), nil
	}

	// loopDepth tracks nested if/while openers seen while the innermost
	// control block is a loop still COLLECTING its body, so only the
	// "end" that actually closes that loop is handed to HandleControlLine;
	// everything else in the body (including nested control keywords) is
	// captured as plain text and only parsed again when the loop replays.
	// A while nested inside another while's body is recorded correctly but
	// replays against this driver's outer collected-line cursor rather than
	// its own independent one; single-level loops (the common case) replay
	// exactly.
	loopDepth := 0
	run := func(line string) {
		if collecting(rc) {
			w, _ := firstWord(line)
			switch w {
			case "if", "while":
				loopDepth++
				runstack.RecordLine(rc, line)
				return
			case "end":
				if loopDepth > 0 {
					loopDepth--
					runstack.RecordLine(rc, line)
					return
				}
			default:
				runstack.RecordLine(rc, line)
				return
			}
		}

		handled, err := runstack.HandleControlLine(rc, line, eval)
		if err != nil {
			fmt.Fprintf(os.Stderr, "control error: %v\n", err)
			return
		}
		if handled {
			return
		}
		if !runstack.ShouldExecute(rc) {
			return
		}
		execCommand(state, root, line)
	}

	if *scriptPath != "" {
		f, err := os.Open(*scriptPath)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if _, err := rc.PushScript(*scriptPath, f, nil); err != nil {
			panic(err)
		}
		// Drive reads through rc.ReadLine, not frame.ReadLogicalLine
		// directly, so LOOP > SCRIPT priority (§4.7) applies here too: once
		// a while loop starts LOOPING, ReadLine replays its collected body
		// and re-evaluates the condition on exhaustion instead of silently
		// falling straight through to the script frame.
		scriptInput := func() (string, error) {
			frame := rc.CurrentFrame()
			if frame == nil {
				return "", io.EOF
			}
			return frame.ReadLogicalLine()
		}
		for {
			line, err := rc.ReadLine(scriptInput)
			if err != nil {
				break
			}
			run(line)
		}
		return
	}

	stdin := bufio.NewScanner(os.Stdin)
	reader := func() (string, error) {
		if !stdin.Scan() {
			if err := stdin.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return stdin.Text(), nil
	}
	for {
		line, err := rc.ReadLine(reader)
		if err != nil {
			break
		}
		run(line)
	}
}

// execCommand dispatches one non-control script line as a decision query:
//
//	rpc <module> <name>
//	notif <module> <name>
//	read <path>
//	write <path> <create|delete|merge|replace|remove>
func execCommand(state *nacm.NacmState, root xpath.ValueNode, line string) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	user := *asUser
	msg := nacm.NewMessage(1, root, root)

	switch words[0] {
	case "rpc":
		if len(words) < 3 {
			fmt.Fprintln(os.Stderr, "usage: rpc <module> <name>")
			return
		}
		allowed := state.RpcAllowed(msg, user, nacm.RpcObject{ModuleName: words[1], Name: words[2]})
		fmt.Printf("rpc %s.%s: %v\n", words[1], words[2], allowed)

	case "notif":
		if len(words) < 3 {
			fmt.Fprintln(os.Stderr, "usage: notif <module> <name>")
			return
		}
		allowed := state.NotifAllowed(user, nacm.NotifObject{ModuleName: words[1], Name: words[2]})
		fmt.Printf("notif %s.%s: %v\n", words[1], words[2], allowed)

	case "read":
		if len(words) < 2 {
			fmt.Fprintln(os.Stderr, "usage: read <path>")
			return
		}
		n := findNode(root, words[1])
		if n == nil {
			fmt.Fprintf(os.Stderr, "no such node: %s\n", words[1])
			return
		}
		fmt.Printf("read %s: %v\n", words[1], state.ValReadAllowed(msg, user, n))

	case "write":
		if len(words) < 3 {
			fmt.Fprintln(os.Stderr, "usage: write <path> <create|delete|merge|replace|remove>")
			return
		}
		n := findNode(root, words[1])
		if n == nil {
			fmt.Fprintf(os.Stderr, "no such node: %s\n", words[1])
			return
		}
		op, ok := parseEditOp(words[2])
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown edit op: %s\n", words[2])
			return
		}
		fmt.Printf("write %s %s: %v\n", words[1], op, state.ValWriteAllowed(msg, user, n, n, op))

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", words[0])
	}
}

func parseEditOp(s string) (nacm.EditOp, bool) {
	switch s {
	case "create":
		return nacm.EditCreate, true
	case "delete":
		return nacm.EditDelete, true
	case "merge":
		return nacm.EditMerge, true
	case "replace":
		return nacm.EditReplace, true
	case "remove":
		return nacm.EditRemove, true
	}
	return 0, false
}

// collecting reports whether the innermost control block in scope is a
// while loop still accumulating its body.
func collecting(ctx *runstack.Context) bool {
	controls := *ctx.Controls()
	if len(controls) == 0 {
		return false
	}
	loop, ok := controls[len(controls)-1].(*runstack.LoopBlock)
	return ok && loop.State == runstack.LoopCollecting
}

func firstWord(line string) (word, rest string) {
	trimmed := strings.TrimSpace(line)
	idx := strings.IndexAny(trimmed, " \t")
	if idx < 0 {
		return trimmed, ""
	}
	return trimmed[:idx], strings.TrimSpace(trimmed[idx+1:])
}
