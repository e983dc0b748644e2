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

import "gopkg.in/vmihailenco/msgpack.v2"

// loopSnapshot is the wire shape of a LoopBlock's collected body, used to
// let a long-running interactive session persist a collector loop across
// a process restart and replay it unchanged.
type loopSnapshot struct {
	StartCondition bool
	MaxIterations  int
	CollectedLines []string
	FirstLine      int
	LastLine       int
	EmptyBlock     bool
	IterationCount int
}

// Dump serializes a loop's collected body (everything needed to resume
// replay) to msgpack. The PCB and document-root snapshot are not part of
// the dump: they are re-bound by the caller on Redo, since they reference
// live evaluator state that does not survive a restart.
func Dump(b *LoopBlock) ([]byte, error) {
	snap := loopSnapshot{
		StartCondition: b.StartCondition,
		MaxIterations:  b.MaxIterations,
		CollectedLines: b.CollectedLines,
		FirstLine:      b.FirstLine,
		LastLine:       b.LastLine,
		EmptyBlock:     b.EmptyBlock,
		IterationCount: b.IterationCount,
	}
	return msgpack.Marshal(&snap)
}

// Redo restores a loop's collected body from a Dump payload into a fresh
// LoopBlock, ready to run in LOOPING state from CurrentLine == FirstLine.
func Redo(data []byte) (*LoopBlock, error) {
	var snap loopSnapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &LoopBlock{
		StartCondition: snap.StartCondition,
		MaxIterations:  snap.MaxIterations,
		State:          LoopLooping,
		CollectedLines: snap.CollectedLines,
		FirstLine:      snap.FirstLine,
		CurrentLine:    snap.FirstLine,
		LastLine:       snap.LastLine,
		EmptyBlock:     snap.EmptyBlock,
		IterationCount: snap.IterationCount,
	}, nil
}
