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

import (
	"sync"

	"github.com/nacmcore/core/internal/xpath"
)

// SessionCache holds the most recently built MessageCache for one NETCONF
// session. A new message reuses it verbatim when still valid (§4.6: "a
// per-message cache borrows the per-session cache when valid"); a commit
// that touches /nacm invalidates every session cache (§4.5 state machine,
// §5 ordering guarantees).
//
// The core is single-threaded per session (§5), so the mutex here guards
// only against a concurrently issued commit-invalidation from another
// goroutine, not concurrent message processing within the session.
type SessionCache struct {
	mu  sync.Mutex
	msg *MessageCache
}

// InitMsgCache returns a cache for user's next message against
// datastoreRoot: the session's existing cache if it is still valid and
// was built for the same user and datastore snapshot, or a freshly built
// one otherwise.
func (s *SessionCache) InitMsgCache(global *GlobalCache, datastoreRoot, rulesRoot xpath.ValueNode, user string, onRuleError func(rule *DataRule, err error)) (*MessageCache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.msg != nil && s.msg.Valid && s.msg.User == user && s.msg.DatastoreRoot == datastoreRoot {
		return s.msg, nil
	}

	mc, err := BuildMessageCache(global, datastoreRoot, rulesRoot, user, onRuleError)
	if err != nil {
		return nil, err
	}
	s.msg = mc
	return mc, nil
}

// Invalidate marks the session's cache unusable; the next InitMsgCache
// call rebuilds it from scratch.
func (s *SessionCache) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.msg != nil {
		s.msg.Valid = false
	}
}

// ClearMsgCache discards the session's cache outright (§6.2
// clear_msg_cache).
func (s *SessionCache) ClearMsgCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg = nil
}
