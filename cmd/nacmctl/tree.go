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
	"strings"

	"github.com/nacmcore/core/internal/xpath"
	"github.com/nacmcore/core/nacm"
)

// docNode is a minimal nacm.Node used to stand in for a real datastore
// node when exercising decision calls from the command line.
type docNode struct {
	name     string
	module   string
	parent   *docNode
	children []*docNode
	flags    nacm.SchemaFlags
}

func (n *docNode) NodeName() string   { return n.name }
func (n *docNode) ModuleName() string { return n.module }
func (n *docNode) Parent() xpath.ValueNode {
	if n.parent == nil {
		return nil
	}
	return n.parent
}
func (n *docNode) Children() []xpath.ValueNode {
	out := make([]xpath.ValueNode, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}
func (n *docNode) Attributes() []xpath.ValueNode { return nil }
func (n *docNode) StringValue() string           { return "" }
func (n *docNode) IsConfig() bool                { return true }
func (n *docNode) NacmFlags() nacm.SchemaFlags    { return n.flags }

// buildTree builds a synthetic document tree from the config file's node
// list. Each entry's path is resolved (creating intermediate nodes as
// needed) starting from an anonymous root.
func buildTree(specs []nodeSpec) *docNode {
	root := &docNode{name: ""}
	for _, spec := range specs {
		n := ensurePath(root, spec.Path)
		n.module = spec.Module
		n.flags = nacm.SchemaFlags{
			VerySecure:      spec.VerySecure,
			Secure:          spec.Secure,
			BlockUserCreate: spec.BlockUserCreate,
			BlockUserDelete: spec.BlockUserDelete,
			BlockUserUpdate: spec.BlockUserUpdate,
		}
	}
	return root
}

func ensurePath(root *docNode, path string) *docNode {
	cur := root
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if part == "" {
			continue
		}
		cur = ensureChild(cur, part)
	}
	return cur
}

func ensureChild(parent *docNode, name string) *docNode {
	for _, c := range parent.children {
		if c.name == name {
			return c
		}
	}
	c := &docNode{name: name, module: parent.module, parent: parent}
	parent.children = append(parent.children, c)
	return c
}

// findNode resolves an already-built path against root, returning nil if
// any segment is missing.
func findNode(root xpath.ValueNode, path string) *docNode {
	cur, ok := root.(*docNode)
	if !ok {
		return nil
	}
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if part == "" {
			continue
		}
		var next *docNode
		for _, c := range cur.children {
			if c.name == part {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}
