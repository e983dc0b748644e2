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

// validateTree re-walks the compiled expression confirming each path step
// identifies a schema node, per §4.3 phase 2. Non-path subexpressions are
// walked for their children only (functions, operators carry no schema
// binding of their own).
func validateTree(e Expr, root, base *SchemaNode, missingIsWarning bool) error {
	switch n := e.(type) {
	case *LocationPath:
		cur := base
		if n.Absolute || cur == nil {
			cur = root
		}
		for _, st := range n.Steps {
			if st.Test.Wildcard && st.Axis != AxisDescendantOrSelf {
				// '.'/'..' self/parent steps carry no name to validate.
			} else if !st.Test.Wildcard && !st.Test.ModuleWild && st.Axis == AxisChild {
				next := findSchemaChild(cur, st.Test.Name)
				if next == nil {
					if missingIsWarning {
						continue
					}
					return ErrMissingNode.New(st.Test.Name)
				}
				cur = next
			}
			for _, pred := range st.Predicates {
				if err := validateTree(pred, root, cur, missingIsWarning); err != nil {
					return err
				}
			}
		}
		return nil

	case *Binary:
		if err := validateTree(n.Left, root, base, missingIsWarning); err != nil {
			return err
		}
		return validateTree(n.Right, root, base, missingIsWarning)

	case *Unary:
		return validateTree(n.Operand, root, base, missingIsWarning)

	case *FuncCall:
		for _, a := range n.Args {
			if err := validateTree(a, root, base, missingIsWarning); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func findSchemaChild(obj *SchemaNode, name string) *SchemaNode {
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
