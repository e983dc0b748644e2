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

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the two cumulative counters §4.5 names as observable side
// effects, plus the prometheus registration each is exported under.
// NacmState's own deniedRPCs/deniedDataWrites uint64 fields (§3's
// monotonic counters) are the authoritative values read back by
// denied-rpcs/denied-data-writes; the prometheus counters held here
// mirror them for external scraping.
type metrics struct {
	deniedRPCs       prometheus.Counter
	deniedDataWrites prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		deniedRPCs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nacm",
			Name:      "denied_rpcs_total",
			Help:      "Cumulative count of RPC invocations denied by NACM.",
		}),
		deniedDataWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nacm",
			Name:      "denied_data_writes_total",
			Help:      "Cumulative count of datastore writes denied by NACM.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.deniedRPCs, m.deniedDataWrites)
	}
	return m
}
