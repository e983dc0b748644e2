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

// Package schemaid resolves "[/] step (/step)*" schema-nodeid paths through
// a schema tree, per §4.2.
package schemaid

import "strings"

// Object is the minimal schema-node contract this resolver needs; the real
// schema tree lives outside this core's scope (§1).
type Object struct {
	Name       string
	ModuleName string
	Children   []*Object
	Parent     *Object
	// IsAugmentClone marks a node that exists only because an augment
	// cloned it into a target module; stepping into it directly is
	// rejected (§4.2 policy).
IsAugmentClone bool
}

// ImportSet maps a prefix in the current module to the module name it is
// bound to. The current module's own prefix is always implicitly local.
type ImportSet struct {
	CurrentModule       string
	CurrentModulePrefix string
	PrefixToModule       map[string]string
}

func (s *ImportSet) resolveModule(prefix string) (string, bool) {
	if prefix == "" || prefix == s.CurrentModulePrefix {
		return s.CurrentModule, true
	}
	mod, ok := s.PrefixToModule[prefix]
	return mod, ok
}

// step is one parsed "name" or "prefix:name" path component.
type step struct {
	prefix string
	name   string
}

func parseSteps(path string) (absolute bool, steps []step, err error) {
	p := path
	if strings.HasPrefix(p, "/") {
		absolute = true
		p = p[1:]
	}
	if p == "" {
		return absolute, nil, nil
	}
	for _, raw := range strings.Split(p, "/") {
		if raw == "" {
			return absolute, nil, ErrMalformedPath.New(path)
		}
		if idx := strings.IndexByte(raw, ':'); idx >= 0 {
			steps = append(steps, step{prefix: raw[:idx], name: raw[idx+1:]})
		} else {
			steps = append(steps, step{name: raw})
		}
		if !isValidIdentifier(steps[len(steps)-1].name) {
			return absolute, nil, ErrInvalidStepName.New(raw, path)
		}
	}
	return absolute, steps, nil
}

func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return false
			}
			continue
		}
		if !isLetter(r) && !isDigit(r) && r != '_' && r != '-' && r != '.' {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }

// Resolve walks path from base (used when the path is relative) or from
// root (when path is absolute), returning the object it denotes. It never
// mutates the schema tree (determinism/idempotency, §8).
func Resolve(imports *ImportSet, root, base *Object, path string) (*Object, error) {
	return resolve(imports, root, base, path, true)
}

// ResolveNoErr is the noerr variant: same walk, but it returns (nil, nil) on
// any failure instead of an error, for callers that must not log.
func ResolveNoErr(imports *ImportSet, root, base *Object, path string) (*Object, error) {
	obj, err := resolve(imports, root, base, path, false)
	if err != nil {
		return nil, nil
	}
	return obj, nil
}

func resolve(imports *ImportSet, root, base *Object, path string, logErrors bool) (*Object, error) {
	absolute, steps, err := parseSteps(path)
	if err != nil {
		return nil, err
	}

	cur := base
	if absolute || cur == nil {
		cur = root
	}

	walked := ""
	for _, st := range steps {
		if walked != "" {
			walked += "/"
		}
		if st.prefix != "" {
			walked += st.prefix + ":"
		}
		walked += st.name

		if _, ok := imports.resolveModule(st.prefix); !ok {
			return nil, ErrUnknownPrefix.New(st.prefix, walked)
		}

		next := findChild(cur, st.name)
		if next == nil {
			return nil, ErrStepNotFound.New(walked)
		}
		if next.IsAugmentClone {
			return nil, ErrAugmentClone.New(walked)
		}
		cur = next
	}

	if cur == nil {
		return nil, ErrStepNotFound.New(path)
	}
	return cur, nil
}

// findChild looks up a child by name only and returns the first match. A
// step's prefix is checked to resolve in the import set, but the child's
// ModuleName is not compared, so same-named children of different modules
// are not told apart.
func findChild(obj *Object, name string) *Object {
	if obj == nil {
		return nil
	}
	for _, c := range obj.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}
