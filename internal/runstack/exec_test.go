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
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func alwaysTrue(string) (bool, error)  { return true, nil }
func alwaysFalse(string) (bool, error) { return false, nil }

func TestIfElseSelectsActiveBranch(t *testing.T) {
	ctx := NewContext(nil)

	handled, err := HandleControlLine(ctx, "if $x = 1", alwaysFalse)
	require.True(t, handled)
	require.NoError(t, err)
	require.False(t, ShouldExecute(ctx))

	handled, err = HandleControlLine(ctx, "else", alwaysFalse)
	require.True(t, handled)
	require.NoError(t, err)
	require.True(t, ShouldExecute(ctx))

	handled, err = HandleControlLine(ctx, "end", alwaysFalse)
	require.True(t, handled)
	require.NoError(t, err)
	require.Empty(t, *ctx.Controls())
}

func TestElifOnlyFirstMatchingBranchActive(t *testing.T) {
	ctx := NewContext(nil)

	_, err := HandleControlLine(ctx, "if cond1", alwaysTrue)
	require.NoError(t, err)
	require.True(t, ShouldExecute(ctx))

	_, err = HandleControlLine(ctx, "elif cond2", alwaysTrue)
	require.NoError(t, err)
	require.False(t, ShouldExecute(ctx), "elif must not activate once the if branch already matched")

	_, err = HandleControlLine(ctx, "else", alwaysFalse)
	require.NoError(t, err)
	require.False(t, ShouldExecute(ctx))
}

func TestUnbalancedEndIsError(t *testing.T) {
	ctx := NewContext(nil)
	_, err := HandleControlLine(ctx, "end", alwaysTrue)
	require.Error(t, err)
}

func TestWhileLoopCollectsAndReplays(t *testing.T) {
	ctx := NewContext(nil)

	iter := 0
	cond := func(string) (bool, error) {
		iter++
		return iter <= 2, nil
	}

	_, err := HandleControlLine(ctx, "while $n < 3", cond)
	require.NoError(t, err)

	RecordLine(ctx, "print hello")

	_, err = HandleControlLine(ctx, "end", cond)
	require.NoError(t, err)

	require.Len(t, *ctx.Controls(), 1, "start-condition was true, so the loop re-enters after collecting")
}

// TestWhileLoopReplaysMultipleIterations exercises a while loop whose
// condition is checked three times (true, true, false) through
// Context.ReadLine: the body should replay until the condition goes false,
// then ReadLine should fall through to the caller's input source.
func TestWhileLoopReplaysMultipleIterations(t *testing.T) {
	ctx := NewContext(nil)

	remaining := 3
	cond := func(string) (bool, error) {
		remaining--
		return remaining > 0, nil
	}

	_, err := HandleControlLine(ctx, "while $n > 0", cond)
	require.NoError(t, err)
	RecordLine(ctx, "print hello")
	_, err = HandleControlLine(ctx, "end", cond)
	require.NoError(t, err)

	noMoreInput := func() (string, error) { return "", io.EOF }

	var replayed []string
	for i := 0; i < 10; i++ {
		line, err := ctx.ReadLine(noMoreInput)
		if err != nil {
			break
		}
		replayed = append(replayed, line)
	}

	require.Equal(t, []string{"print hello", "print hello"}, replayed,
		"condition started true, held for one re-check and failed the next, so the body replays twice before the loop exits")
	require.Empty(t, *ctx.Controls(), "loop block must be popped once its condition goes false")
}

// TestWhileLoopEnforcesMaxIterations caps a loop whose condition never goes
// false, per §4.7's "maximum iteration count protects against infinite
// loops".
func TestWhileLoopEnforcesMaxIterations(t *testing.T) {
	ctx := NewContext(nil)

	_, err := HandleControlLine(ctx, "while true", alwaysTrue)
	require.NoError(t, err)
	RecordLine(ctx, "noop")
	_, err = HandleControlLine(ctx, "end", alwaysTrue)
	require.NoError(t, err)

	loop := (*ctx.Controls())[0].(*LoopBlock)
	loop.MaxIterations = 3

	noMoreInput := func() (string, error) { return "", io.EOF }

	var sawErr error
	for i := 0; i < 20; i++ {
		_, err := ctx.ReadLine(noMoreInput)
		if err != nil {
			sawErr = err
			break
		}
	}

	require.Error(t, sawErr)
	require.Empty(t, *ctx.Controls(), "loop block must be popped once the iteration cap trips")
}

func TestCancelUnwindsFramesAndRestoresUserSource(t *testing.T) {
	ctx := NewContext(nil)
	_, err := ctx.PushScript("s1", strings.NewReader("echo hi\n"), nil)
	require.NoError(t, err)
	require.Equal(t, SourceScript, ctx.Source)

	ctx.Cancel()
	require.True(t, ctx.Cancelled())

	ctx.Unwind()
	require.Equal(t, 0, ctx.Depth())
	require.Equal(t, SourceUser, ctx.Source)
	require.False(t, ctx.Cancelled())
}

func TestPushScriptEnforcesMaxDepth(t *testing.T) {
	ctx := NewContext(nil)
	ctx.MaxDepth = 1
	_, err := ctx.PushScript("a", strings.NewReader(""), nil)
	require.NoError(t, err)
	_, err = ctx.PushScript("b", strings.NewReader(""), nil)
	require.Error(t, err)
}

func TestFrameReadLogicalLineJoinsContinuationsAndSkipsComments(t *testing.T) {
	f := NewFrame("test", strings.NewReader("# a comment\nfoo \\\nbar\nbaz\n"), nil)
	line, err := f.ReadLogicalLine()
	require.NoError(t, err)
	require.Equal(t, "foo bar", line)

	line, err = f.ReadLogicalLine()
	require.NoError(t, err)
	require.Equal(t, "baz", line)
}
