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

import (
	"github.com/opentracing/opentracing-go"
	uuid "github.com/satori/go.uuid"

	"github.com/nacmcore/core/internal/xpath"
	"github.com/nacmcore/core/nacm/cache"
)

// Message is the per-message context a decision call needs: which
// session it belongs to and which datastore/rules snapshot it should be
// evaluated against (§5's "a single message observes a consistent
// snapshot of the datastore"). ID correlates a message's decision trace
// lines with init_msg_cache/clear_msg_cache calls (§6.2) across a log
// stream; it plays no role in the decision itself.
type Message struct {
	ID            uuid.UUID
	SessionID     uint64
	DatastoreRoot xpath.ValueNode
	RulesRoot     xpath.ValueNode
}

// NewMessage stamps a fresh message ID for a message entering the
// decision engine.
func NewMessage(sessionID uint64, datastoreRoot, rulesRoot xpath.ValueNode) *Message {
	return &Message{
		ID:            uuid.NewV4(),
		SessionID:     sessionID,
		DatastoreRoot: datastoreRoot,
		RulesRoot:     rulesRoot,
	}
}

func (s *NacmState) cacheFor(msg *Message, user string) (*cache.MessageCache, error) {
	mode, global := s.snapshot()
	_ = mode
	sc := s.Session(msg.SessionID)
	return sc.InitMsgCache(global, msg.DatastoreRoot, msg.RulesRoot, user, func(rule *cache.DataRule, err error) {
		s.Log.WithField("msg", msg.ID).WithField("rule", rule.RuleName).WithError(err).Error("nacm: data-rule evaluation failed, skipping")
	})
}

// RpcAllowed implements rpc_allowed (§4.5).
func (s *NacmState) RpcAllowed(msg *Message, user string, rpcObj RpcObject) bool {
	span := s.startSpan("nacm.rpc_allowed", user)
	defer span.Finish()

	mode := s.Mode()

	if r := runLadder(mode, s.isSuperuser(user), rpcObj.Flags, accessExec, rpcObj.IsCloseSession(), false); r.decided {
		return s.decide(accessExec, user, rpcObj.Name, r)
	}

	mc, err := s.cacheFor(msg, user)
	if err != nil {
		return s.decide(accessExec, user, rpcObj.Name, denyResult("out of memory"))
	}

	if len(mc.Groups) == 0 {
		return s.decide(accessExec, user, rpcObj.Name, defaultResult(mc.Defaults.ExecOK, "exec-default"))
	}

	for _, rule := range mc.Config.RpcRules {
		if rule.RpcModuleName != rpcObj.ModuleName || rule.RpcName != rpcObj.Name {
			continue
		}
		if !mc.Intersects(rule.AllowedGroups) {
			continue
		}
		return s.decide(accessExec, user, rpcObj.Name, boolResult(rule.AllowedRights.Has(cache.RightExec), "rpc-rule"))
	}

	if rule, ok := findModuleRule(mc, rpcObj.ModuleName); ok {
		return s.decide(accessExec, user, rpcObj.Name, boolResult(rule.AllowedRights.Has(cache.RightExec), "module-rule"))
	}

	return s.decide(accessExec, user, rpcObj.Name, defaultResult(mc.Defaults.ExecOK, "exec-default"))
}

// NotifAllowed implements notif_allowed (§4.5).
func (s *NacmState) NotifAllowed(user string, notifObj NotifObject) bool {
	span := s.startSpan("nacm.notif_allowed", user)
	defer span.Finish()

	mode := s.Mode()
	if r := runLadder(mode, s.isSuperuser(user), notifObj.Flags, accessRead, false, notifObj.MetaEvent); r.decided {
		return s.decide(accessRead, user, notifObj.Name, r)
	}

	// Notification rule evaluation does not depend on a document
	// snapshot, so it is evaluated directly against the current global
	// config rather than through a per-message cache.
	_, global := s.snapshot()
	if global == nil || global.Config == nil {
		return s.decide(accessRead, user, notifObj.Name, denyResult("out of memory"))
	}
	cfg := global.Config

	groups := userGroups(cfg, user)
	if len(groups) == 0 {
		return s.decide(accessRead, user, notifObj.Name, defaultResult(cfg.ReadDefault == cache.DecisionPermit, "read-default"))
	}

	for _, rule := range cfg.NotificationRules {
		if rule.NotificationModuleName != notifObj.ModuleName || rule.NotificationName != notifObj.Name {
			continue
		}
		if !groupsIntersect(groups, rule.AllowedGroups) {
			continue
		}
		return s.decide(accessRead, user, notifObj.Name, boolResult(rule.AllowedRights.Has(cache.RightRead), "notification-rule"))
	}

	if rule, ok := findModuleRuleInConfig(cfg, notifObj.ModuleName); ok {
		return s.decide(accessRead, user, notifObj.Name, boolResult(rule.AllowedRights.Has(cache.RightRead), "module-rule"))
	}

	return s.decide(accessRead, user, notifObj.Name, defaultResult(cfg.ReadDefault == cache.DecisionPermit, "read-default"))
}

// ValReadAllowed implements val_read_allowed (§4.5).
func (s *NacmState) ValReadAllowed(msg *Message, user string, val Node) bool {
	span := s.startSpan("nacm.val_read_allowed", user)
	defer span.Finish()

	mode := s.Mode()
	if r := runLadder(mode, s.isSuperuser(user), val.NacmFlags(), accessRead, false, false); r.decided {
		return s.decide(accessRead, user, val.NodeName(), r)
	}

	mc, err := s.cacheFor(msg, user)
	if err != nil {
		return s.decide(accessRead, user, val.NodeName(), denyResult("out of memory"))
	}

	return s.decide(accessRead, user, val.NodeName(), evaluateDataAccess(mc, val, accessRead))
}

// ValWriteAllowed implements val_write_allowed (§4.5), including the
// write-specific pre-check that runs ahead of (and regardless of) the
// shortcut ladder.
func (s *NacmState) ValWriteAllowed(msg *Message, user string, newVal, curVal Node, editop EditOp) bool {
	span := s.startSpan("nacm.val_write_allowed", user)
	defer span.Finish()

	target := curVal
	if target == nil {
		target = newVal
	}
	flags := target.NacmFlags()

	if flags.blockedBy(editop) {
		return s.decide(accessWrite, user, target.NodeName(), denyResult("block-user-"+blockKindFor(editop)))
	}

	mode := s.Mode()
	if r := runLadder(mode, s.isSuperuser(user), flags, accessWrite, false, false); r.decided {
		return s.decide(accessWrite, user, target.NodeName(), r)
	}

	mc, err := s.cacheFor(msg, user)
	if err != nil {
		return s.decide(accessWrite, user, target.NodeName(), denyResult("out of memory"))
	}

	return s.decide(accessWrite, user, target.NodeName(), evaluateDataAccess(mc, target, accessWrite))
}

func blockKindFor(op EditOp) string {
	switch op {
	case EditCreate:
		return "create"
	case EditDelete, EditRemove:
		return "delete"
	default:
		return "update"
	}
}

// evaluateDataAccess runs the full rule-evaluation order for a data
// target (§4.5 full rule evaluation, steps 1-7): zero groups -> default;
// else data-rule (first ancestor-or-self match wins) -> module-rule ->
// default.
func evaluateDataAccess(mc *cache.MessageCache, val Node, a access) ladderResult {
	defaultOK, defaultKind := mc.Defaults.ReadOK, "read-default"
	right := cache.RightRead
	if a == accessWrite {
		defaultOK, defaultKind = mc.Defaults.WriteOK, "write-default"
		right = cache.RightWrite
	}

	if len(mc.Groups) == 0 {
		return defaultResult(defaultOK, defaultKind)
	}

	for _, dr := range mc.DataRules {
		if !mc.Intersects(dr.Rule.AllowedGroups) {
			continue
		}
		if !xpath.ContainsAncestorOrSelf(dr.Nodes, val) {
			continue
		}
		return boolResult(dr.Rule.AllowedRights.Has(right), "data-rule")
	}

	if rule, ok := findModuleRule(mc, val.ModuleName()); ok {
		return boolResult(rule.AllowedRights.Has(right), "module-rule")
	}

	return defaultResult(defaultOK, defaultKind)
}

func findModuleRule(mc *cache.MessageCache, moduleName string) (*cache.ModuleRule, bool) {
	return findModuleRuleInConfig(mc.Config, moduleName)
}

func findModuleRuleInConfig(cfg *cache.Config, moduleName string) (*cache.ModuleRule, bool) {
	for i := range cfg.ModuleRules {
		r := &cfg.ModuleRules[i]
		if r.ModuleName == moduleName {
			return r, true
		}
	}
	return nil, false
}

func userGroups(cfg *cache.Config, user string) map[string]bool {
	groups := make(map[string]bool)
	for _, g := range cfg.Groups {
		for _, u := range g.Users {
			if u == user {
				groups[g.Identity] = true
			}
		}
	}
	return groups
}

func groupsIntersect(have map[string]bool, want []string) bool {
	for _, g := range want {
		if have[g] {
			return true
		}
	}
	return false
}

func defaultResult(ok bool, kind string) ladderResult { return boolResult(ok, kind) }

func boolResult(ok bool, kind string) ladderResult {
	if ok {
		return permitResult(kind)
	}
	return denyResult(kind)
}

func (s *NacmState) isSuperuser(user string) bool {
	su := s.Superuser()
	return su != "" && user != "" && su == user
}

func (s *NacmState) startSpan(op, user string) opentracing.Span {
	tracer := s.Tracer
	if tracer == nil {
		tracer = opentracing.NoopTracer{}
	}
	span := tracer.StartSpan(op)
	span.SetTag("nacm.user", user)
	return span
}

// decide logs the one-line trace required by §4.5 and increments the
// matching counter on deny, returning the boolean verdict.
func (s *NacmState) decide(a access, user, target string, r ladderResult) bool {
	entry := s.Log.WithField("user", user).
		WithField("access", a.String()).
		WithField("target", target).
		WithField("rule", r.ruleKind).
		WithField("permit", r.permit)
	if r.permit {
		entry.Debug("nacm: decision")
	} else {
		entry.Info("nacm: decision")
		if a == accessExec {
			s.incDeniedRPCs()
		} else if a == accessWrite {
			s.incDeniedDataWrites()
		}
	}
	return r.permit
}
