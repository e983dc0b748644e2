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

package cache

import "github.com/nacmcore/core/internal/xpath"

// Defaults memoises the three *-default decisions as {set, ok} pairs per
// §3's cache-state description; "set" is always true once a MessageCache
// is built (the config always declares a default), kept only to mirror
// the source's own {set,ok} shape and its invariant (a): once set, a
// default does not change for the life of the cache.
type Defaults struct {
	ReadSet, ReadOK   bool
	WriteSet, WriteOK bool
	ExecSet, ExecOK   bool
}

// EvaluatedDataRule is one data-rule's outcome for this message: the
// node-set its path resolved to against this message's datastore
// snapshot, evaluated exactly once per cache lifetime (§4.6) and reused
// for every val_*_allowed call.
type EvaluatedDataRule struct {
	Rule  *DataRule
	Nodes xpath.NodeSet
}

// MessageCache is the per-message (or borrowed per-session) cache
// described by §3/§4.6: a user's resolved groups, the compiled
// module/data rule lists, and the memoised defaults, all pinned to one
// datastore snapshot.
type MessageCache struct {
	Config *Config

	DatastoreRoot xpath.ValueNode
	RulesRoot     xpath.ValueNode

	User   string
	Groups map[string]bool

	DataRules []*EvaluatedDataRule
	Defaults  Defaults

	Valid bool
}

// BuildMessageCache resolves user into its groups and evaluates every
// compiled data-rule PCB against datastoreRoot, exactly once. Building is
// all-or-nothing for resource-exhaustion class failures: if any step
// returns a fatal error the half-built cache is discarded (returns nil,
// err) rather than left partially populated (§4.6).
func BuildMessageCache(global *GlobalCache, datastoreRoot, rulesRoot xpath.ValueNode, user string, onRuleError func(rule *DataRule, err error)) (*MessageCache, error) {
	if global == nil || global.Config == nil {
		return nil, ErrNilConfig.New()
	}
	if datastoreRoot == nil {
		return nil, ErrNoDatastoreRoot.New()
	}
	cfg := global.Config

	mc := &MessageCache{
		Config:        cfg,
		DatastoreRoot: datastoreRoot,
		RulesRoot:     rulesRoot,
		User:          user,
		Groups:        resolveGroups(cfg, user),
		Defaults: Defaults{
			ReadSet: true, ReadOK: cfg.ReadDefault == DecisionPermit,
			WriteSet: true, WriteOK: cfg.WriteDefault == DecisionPermit,
			ExecSet: true, ExecOK: cfg.ExecDefault == DecisionPermit,
		},
	}

	dataRules := make([]*EvaluatedDataRule, 0, len(global.DataRules))
	for _, cdr := range global.DataRules {
		clone := cdr.PCB.Clone()
		clone.DocumentRoot = datastoreRoot
		res, err := clone.Evaluate(datastoreRoot)
		if err != nil {
			if onRuleError != nil {
				onRuleError(cdr.Rule, err)
			}
			continue
		}
		nodes := res.Nodes
		if res.Kind == xpath.KindNodeSet {
			nodes = nodes.Dedup().PruneRedundant()
		}
		dataRules = append(dataRules, &EvaluatedDataRule{Rule: cdr.Rule, Nodes: nodes})
	}
	mc.DataRules = dataRules
	mc.Valid = true
	return mc, nil
}

func resolveGroups(cfg *Config, user string) map[string]bool {
	groups := make(map[string]bool)
	for _, g := range cfg.Groups {
		for _, u := range g.Users {
			if u == user {
				groups[g.Identity] = true
				break
			}
		}
	}
	return groups
}

// Intersects reports whether any of allowedGroups names a group the
// message's user belongs to.
func (mc *MessageCache) Intersects(allowedGroups []string) bool {
	for _, g := range allowedGroups {
		if mc.Groups[g] {
			return true
		}
	}
	return false
}
