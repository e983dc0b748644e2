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

// Package nacm implements the NETCONF access-control decision engine
// (§4.5): the public rpc_allowed/notif_allowed/val_read_allowed/
// val_write_allowed operations, the fixed shortcut ladder that precedes
// full rule evaluation, and the mode state machine driven by edits under
// /nacm.
package nacm

import (
	"sync"
	"sync/atomic"

	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/nacmcore/core/nacm/cache"
)

// AccessMode is the global enforcement mode (§3).
type AccessMode int

const (
	ModeEnforcing AccessMode = iota
	ModePermissive
	ModeDisabled
	ModeOff
)

func (m AccessMode) String() string {
	switch m {
	case ModeEnforcing:
		return "enforcing"
	case ModePermissive:
		return "permissive"
	case ModeDisabled:
		return "disabled"
	case ModeOff:
		return "off"
	}
	return "unknown"
}

// NacmState is the single value collecting every piece of NACM's
// previously-global mutable state (§9 design notes): the access mode and
// superuser name, the two denied-* counters, and the global/per-session
// caches. One NacmState is owned by the server core and threaded
// explicitly into every decision call.
type NacmState struct {
	mu   sync.RWMutex
	mode AccessMode

	global   *cache.GlobalCache
	sessions map[uint64]*cache.SessionCache

	deniedRPCs       uint64
	deniedDataWrites uint64

	Log     *logrus.Entry
	Tracer  opentracing.Tracer
	metrics *metrics
}

// Option configures NacmState at construction.
type Option func(*NacmState)

// WithLogger overrides the default logger.
func WithLogger(log *logrus.Entry) Option { return func(s *NacmState) { s.Log = log } }

// WithTracer attaches an opentracing tracer to decision spans.
func WithTracer(t opentracing.Tracer) Option { return func(s *NacmState) { s.Tracer = t } }

// WithRegisterer registers the prometheus counters against reg instead of
// the default registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *NacmState) { s.metrics = newMetrics(reg) }
}

// New builds a NacmState from an initial /nacm configuration, mirroring
// the original agt_acm module's init lifecycle (load config, build the
// global cache, start in the mode the config implies).
func New(cfg *cache.Config, opts ...Option) (*NacmState, error) {
	global, err := buildGlobal(cfg, nil)
	if err != nil {
		return nil, err
	}

	s := &NacmState{
		mode:     modeFromConfig(cfg),
		global:   global,
		sessions: make(map[uint64]*cache.SessionCache),
		Log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = newMetrics(prometheus.DefaultRegisterer)
	}
	return s, nil
}

func buildGlobal(cfg *cache.Config, log *logrus.Entry) (*cache.GlobalCache, error) {
	return cache.BuildGlobalCache(cfg, func(rule *cache.DataRule, err error) {
		if log != nil {
			log.WithField("rule", rule.RuleName).WithError(err).Warn("nacm: skipping malformed data-rule")
		}
	})
}

func modeFromConfig(cfg *cache.Config) AccessMode {
	if cfg == nil || !cfg.EnableNacm {
		return ModeDisabled
	}
	return ModeEnforcing
}

// Close releases resources held by s, mirroring agt_acm's cleanup phase.
// There is currently nothing to release beyond letting the caches be
// garbage collected, but Close is kept as an explicit lifecycle bookend
// so callers do not need to know that.
func (s *NacmState) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = nil
	s.global = nil
}

// Mode returns the current access mode.
func (s *NacmState) Mode() AccessMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Superuser returns the configured superuser name ("" if none).
func (s *NacmState) Superuser() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.global == nil || s.global.Config == nil {
		return ""
	}
	return s.global.Config.Superuser
}

// DeniedRPCs returns the cumulative denied-rpcs counter.
func (s *NacmState) DeniedRPCs() uint64 { return atomic.LoadUint64(&s.deniedRPCs) }

// DeniedDataWrites returns the cumulative denied-data-writes counter.
func (s *NacmState) DeniedDataWrites() uint64 { return atomic.LoadUint64(&s.deniedDataWrites) }

func (s *NacmState) incDeniedRPCs() {
	atomic.AddUint64(&s.deniedRPCs, 1)
	s.metrics.deniedRPCs.Inc()
}

func (s *NacmState) incDeniedDataWrites() {
	atomic.AddUint64(&s.deniedDataWrites, 1)
	s.metrics.deniedDataWrites.Inc()
}

// Session registers (or fetches) the per-session cache for sessionID.
func (s *NacmState) Session(sessionID uint64) *cache.SessionCache {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.sessions[sessionID]
	if !ok {
		sc = &cache.SessionCache{}
		s.sessions[sessionID] = sc
	}
	return sc
}

// InvalidateSessionCache implements §6.2's invalidate_session_cache.
func (s *NacmState) InvalidateSessionCache(sessionID uint64) {
	s.mu.RLock()
	sc, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		sc.Invalidate()
	}
}

// ClearSessionCache implements §6.2's clear_session_cache and drops the
// session entirely.
func (s *NacmState) ClearSessionCache(sessionID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// CommitNacmChange applies an edit to /nacm/enable-nacm, running the mode
// state machine from §4.5: MERGE/REPLACE/CREATE with value true moves to
// ENFORCING; the same with false, or DELETE/REMOVE, moves to DISABLED.
// Any successful commit that touches /nacm invalidates every session and
// the per-notification cache (here: every session cache plus the global
// cache, rebuilt from the new config).
func (s *NacmState) CommitNacmChange(cfg *cache.Config, op EditOp, enableValue bool) error {
	global, err := buildGlobal(cfg, s.Log)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch op {
	case EditMerge, EditReplace, EditCreate:
		if enableValue {
			s.mode = ModeEnforcing
		} else {
			s.mode = ModeDisabled
		}
	case EditDelete, EditRemove:
		s.mode = ModeDisabled
	}

	s.global = global
	for _, sc := range s.sessions {
		sc.Invalidate()
	}
	return nil
}

// SetMode directly sets the access mode, used to enter PERMISSIVE/OFF —
// states the enable-nacm leaf alone cannot express (§3's AccessMode has
// four values; enable-nacm's boolean only distinguishes two of them).
func (s *NacmState) SetMode(mode AccessMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

func (s *NacmState) snapshot() (AccessMode, *cache.GlobalCache) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode, s.global
}
