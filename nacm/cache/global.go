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

// CompiledDataRule pairs a configured data-rule with its parsed (but not
// yet evaluated) PCB. Parsing is document-independent, so it is shared
// across every message cache built from the same Config; Clone()d copies
// are evaluated per message against that message's datastore snapshot
// (§4.3, §4.6).
type CompiledDataRule struct {
	Rule *DataRule
	PCB  *xpath.PCB
}

// GlobalCache holds everything derivable from a Config alone, independent
// of any particular datastore snapshot: the config itself and every
// data-rule's precompiled PCB. It is rebuilt whenever /nacm commits
// (§4.6); nothing here is mutated in place afterward.
type GlobalCache struct {
	Config     *Config
	DataRules  []*CompiledDataRule
}

// BuildGlobalCache parses every configured data-rule's path once. A
// data-rule whose path fails to parse under the instance-identifier
// restriction (§6.3) is reported via onSkip and excluded from the cache
// rather than failing the whole build — a malformed rule must not make
// every other rule unusable (§4.5 "a malformed XPath in a data-rule
// causes that rule to be skipped ... not a crash").
func BuildGlobalCache(cfg *Config, onSkip func(rule *DataRule, err error)) (*GlobalCache, error) {
	if cfg == nil {
		return nil, ErrNilConfig.New()
	}

	compiled := make([]*CompiledDataRule, 0, len(cfg.DataRules))
	for i := range cfg.DataRules {
		rule := &cfg.DataRules[i]
		pcb := xpath.NewPCB(xpath.SourceInstanceID, rule.Path)
		if err := pcb.Parse(); err != nil {
			if onSkip != nil {
				onSkip(rule, err)
			}
			continue
		}
		compiled = append(compiled, &CompiledDataRule{Rule: rule, PCB: pcb})
	}

	return &GlobalCache{Config: cfg, DataRules: compiled}, nil
}
