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

import "github.com/nacmcore/core/internal/xpath"

// SchemaFlags are the schema-level access-control flags a value node's
// schema object may carry (§4.5's fast-check table, §4.5's write
// pre-check).
type SchemaFlags struct {
	VerySecure      bool
	Secure          bool
	BlockUserCreate bool
	BlockUserDelete bool
	BlockUserUpdate bool
}

// Node is a datastore value node annotated with its schema-level
// NACM flags. Implementations wrap a real document node together with
// whatever schema compiler produced its access-control annotations.
type Node interface {
	xpath.ValueNode
	NacmFlags() SchemaFlags
}

// RpcObject identifies an RPC operation for rpc_allowed (§4.5). Flags
// lets an RPC participate in the same very-secure/secure schema-level
// fast-check table as data nodes (§4.5 step 5's "write/exec" columns).
type RpcObject struct {
	ModuleName string
	Name       string
	Flags      SchemaFlags
}

// IsCloseSession reports whether this is NETCONF's close-session RPC,
// which the shortcut ladder always permits (§4.5 step 3).
func (r RpcObject) IsCloseSession() bool {
	return r.Name == "close-session" && (r.ModuleName == "" || r.ModuleName == NetconfModuleName)
}

// NotifObject identifies a notification for notif_allowed (§4.5).
type NotifObject struct {
	ModuleName string
	Name       string
	Flags      SchemaFlags
	// MetaEvent marks replay-complete/notification-complete events, which
	// the shortcut ladder always permits (§4.5 step 4).
	MetaEvent bool
}

// NetconfModuleName is the base NETCONF module, used to recognise
// close-session without requiring every caller to qualify it.
const NetconfModuleName = "ietf-netconf"

// EditOp is the CRUD operation a val_write_allowed call applies (§4.5,
// recovered from the original source's distinct edit-operation values
// rather than collapsed to a generic "write").
type EditOp int

const (
	EditCreate EditOp = iota
	EditDelete
	EditMerge
	EditReplace
	EditRemove
)

func (op EditOp) String() string {
	switch op {
	case EditCreate:
		return "create"
	case EditDelete:
		return "delete"
	case EditMerge:
		return "merge"
	case EditReplace:
		return "replace"
	case EditRemove:
		return "remove"
	}
	return "unknown"
}

// blockedBy reports whether flags forbids op as a user edit, per the
// write-specific pre-check (§4.5): CREATE vs block-user-create, DELETE or
// REMOVE vs block-user-delete, MERGE or REPLACE vs block-user-update.
// Whether a MERGE or REPLACE actually changes this node is not checked:
// any MERGE or REPLACE against a block-user-update node is blocked.
func (f SchemaFlags) blockedBy(op EditOp) bool {
	switch op {
	case EditCreate:
		return f.BlockUserCreate
	case EditDelete, EditRemove:
		return f.BlockUserDelete
	case EditMerge, EditReplace:
		return f.BlockUserUpdate
	}
	return false
}
