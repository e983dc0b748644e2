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

// ValueNode is the runtime datastore value-node contract the evaluator
// walks. The datastore itself (edit/commit machinery) is out of scope
// (§1); this is the narrow read interface NACM and the evaluator need.
type ValueNode interface {
	NodeName() string
	ModuleName() string
	Parent() ValueNode
	Children() []ValueNode
	Attributes() []ValueNode
	StringValue() string
	IsConfig() bool
}

// SchemaNode is the compile-time counterpart, consulted during the
// Validate phase (§4.3).
type SchemaNode struct {
	Name       string
	ModuleName string
	Children   []*SchemaNode
	Parent     *SchemaNode
}
