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

// Package cache implements the per-message, per-session and global NACM
// caches described by §4.6: user-group resolution, compiled module/data
// rule lists, and memoised default-decision flags, all invalidated (never
// mutated in place) when the datastore commits a change under /nacm.
package cache

// Rights is the allowed-rights bitmask carried by every rule kind
// (/nacm/rules/*/allowed-rights, §6.1).
type Rights uint8

const (
	RightRead Rights = 1 << iota
	RightWrite
	RightExec
)

func (r Rights) Has(bit Rights) bool { return r&bit != 0 }

// Decision is a permit/deny leaf value, used for *-default (§6.1).
type Decision int

const (
	DecisionDeny Decision = iota
	DecisionPermit
)

// Group is one /nacm/groups/group list entry.
type Group struct {
	Identity string   `yaml:"identity"`
	Users    []string `yaml:"users"`
}

// ModuleRule is one /nacm/rules/module-rule list entry.
type ModuleRule struct {
	RuleName      string   `yaml:"rule-name"`
	ModuleName    string   `yaml:"module-name"`
	AllowedRights Rights   `yaml:"allowed-rights"`
	AllowedGroups []string `yaml:"allowed-groups"`
	Comment       string   `yaml:"comment,omitempty"`
}

// RpcRule is one /nacm/rules/rpc-rule list entry.
type RpcRule struct {
	RuleName      string   `yaml:"rule-name"`
	RpcModuleName string   `yaml:"rpc-module-name"`
	RpcName       string   `yaml:"rpc-name"`
	AllowedRights Rights   `yaml:"allowed-rights"`
	AllowedGroups []string `yaml:"allowed-groups"`
	Comment       string   `yaml:"comment,omitempty"`
}

// DataRule is one /nacm/rules/data-rule list entry. Path is an
// instance-identifier-style XPath expression (§6.1, §6.3).
type DataRule struct {
	RuleName      string   `yaml:"rule-name"`
	Path          string   `yaml:"path"`
	AllowedRights Rights   `yaml:"allowed-rights"`
	AllowedGroups []string `yaml:"allowed-groups"`
	Comment       string   `yaml:"comment,omitempty"`
}

// NotificationRule is one /nacm/rules/notification-rule list entry.
type NotificationRule struct {
	RuleName               string   `yaml:"rule-name"`
	NotificationModuleName string   `yaml:"notification-module-name"`
	NotificationName       string   `yaml:"notification-name"`
	AllowedRights          Rights   `yaml:"allowed-rights"`
	AllowedGroups          []string `yaml:"allowed-groups"`
	Comment                string   `yaml:"comment,omitempty"`
}

// Config is the live, user-ordered contents of /nacm (§6.1). Rule-list
// order within each slice is significant and preserved exactly as
// configured (§4.5's "within each list, order is user-configurable and
// preserved").
type Config struct {
	EnableNacm   bool     `yaml:"enable-nacm"`
	ReadDefault  Decision `yaml:"read-default"`
	WriteDefault Decision `yaml:"write-default"`
	ExecDefault  Decision `yaml:"exec-default"`
	Superuser    string   `yaml:"superuser,omitempty"`

	Groups            []Group            `yaml:"groups,omitempty"`
	ModuleRules       []ModuleRule       `yaml:"module-rules,omitempty"`
	RpcRules          []RpcRule          `yaml:"rpc-rules,omitempty"`
	DataRules         []DataRule         `yaml:"data-rules,omitempty"`
	NotificationRules []NotificationRule `yaml:"notification-rules,omitempty"`
}

// DefaultConfig returns the schema-declared defaults (§6.1): NACM enabled,
// read and exec permit by default, write deny by default.
func DefaultConfig() *Config {
	return &Config{
		EnableNacm:   true,
		ReadDefault:  DecisionPermit,
		WriteDefault: DecisionDeny,
		ExecDefault:  DecisionPermit,
	}
}
