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

package yin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nacmcore/core/internal/token"
)

func TestToYINAttributeArgument(t *testing.T) {
	stmt := &Statement{
		Keyword:  "leaf",
		Argument: "enabled",
		Children: []*Statement{
			{Keyword: "type", Argument: "boolean"},
		},
	}
	out, err := ToYIN(stmt)
	require.NoError(t, err)
	require.Contains(t, string(out), `name="enabled"`)
	require.Contains(t, string(out), `name="boolean"`)
}

func TestToYINChildElementArgument(t *testing.T) {
	stmt := &Statement{Keyword: "description", Argument: "a leaf"}
	out, err := ToYIN(stmt)
	require.NoError(t, err)
	require.Contains(t, string(out), "<text")
	require.Contains(t, string(out), "a leaf")
}

func TestFromYINProducesBalancedChain(t *testing.T) {
	doc := []byte(`<leaf xmlns="` + YinNamespace + `" name="enabled"><type name="boolean"/></leaf>`)
	chain, err := FromYIN(doc)
	require.NoError(t, err)

	var opens, closes int
	for _, tok := range chain.Tokens {
		switch tok.Kind {
		case token.KindLBrace:
			opens++
		case token.KindRBrace:
			closes++
		}
	}
	require.Equal(t, opens, closes)
	require.Equal(t, token.SourceYANG, chain.Source)
}
