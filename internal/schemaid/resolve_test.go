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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTree() (*Object, *ImportSet) {
	leaf := &Object{Name: "y"}
	b := &Object{Name: "b", Children: []*Object{leaf}}
	clone := &Object{Name: "cloned", IsAugmentClone: true}
	root := &Object{Name: "", Children: []*Object{
		{Name: "a", Children: []*Object{b, clone}},
	}}
	leaf.Parent = b
	b.Parent = root.Children[0]
	imports := &ImportSet{
		CurrentModule:       "mod",
		CurrentModulePrefix: "m",
		PrefixToModule:       map[string]string{"other": "othermod"},
	}
	return root, imports
}

func TestResolveAbsolute(t *testing.T) {
	root, imports := buildTree()
	obj, err := Resolve(imports, root, nil, "/a/b/y")
	require.NoError(t, err)
	require.Equal(t, "y", obj.Name)
}

func TestResolveIsIdempotent(t *testing.T) {
	root, imports := buildTree()
	obj1, err := Resolve(imports, root, nil, "/a/b/y")
	require.NoError(t, err)
	obj2, err := Resolve(imports, root, nil, "/a/b/y")
	require.NoError(t, err)
	require.Same(t, obj1, obj2)
	require.Len(t, root.Children, 1) // unmutated
}

func TestResolveRelative(t *testing.T) {
	root, imports := buildTree()
	base := root.Children[0] // "a"
	obj, err := Resolve(imports, root, base, "b/y")
	require.NoError(t, err)
	require.Equal(t, "y", obj.Name)
}

func TestResolveUnknownPrefix(t *testing.T) {
	root, imports := buildTree()
	_, err := Resolve(imports, root, nil, "/bogus:a")
	require.Error(t, err)
}

func TestResolveMissingStepReportsPathSoFar(t *testing.T) {
	root, imports := buildTree()
	_, err := Resolve(imports, root, nil, "/a/missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "a/missing")
}

func TestResolveRejectsAugmentClone(t *testing.T) {
	root, imports := buildTree()
	_, err := Resolve(imports, root, nil, "/a/cloned")
	require.Error(t, err)
}

func TestResolveNoErrSwallowsError(t *testing.T) {
	root, imports := buildTree()
	obj, err := ResolveNoErr(imports, root, nil, "/a/missing")
	require.NoError(t, err)
	require.Nil(t, obj)
}
