// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pegcrt

import lru "github.com/hashicorp/golang-lru/v2"

// lruPackratCache adapts hashicorp/golang-lru/v2 to the packratCache
// interface, for grammars emitted with the -lru-cache option (very
// large inputs where an unbounded map cache risks unbounded memory
// growth). Evicting a rarely-reused (rule, pos) entry only costs a
// re-match of that rule at that position; packrat memoization is an
// optimization, not a correctness requirement.
type lruPackratCache struct {
	c *lru.Cache[CacheKey, CacheEntry]
}

func (l *lruPackratCache) Get(k CacheKey) (CacheEntry, bool) { return l.c.Get(k) }
func (l *lruPackratCache) Add(k CacheKey, e CacheEntry)      { l.c.Add(k, e) }

// NewLRUState constructs fresh per-parse state backed by a
// size-bounded LRU packrat cache instead of the default unbounded map.
func NewLRUState(input string, size int) *State {
	if size <= 0 {
		size = 4096
	}
	c, err := lru.New[CacheKey, CacheEntry](size)
	if err != nil {
		// Only returns an error for a non-positive size, already guarded above.
		panic(err)
	}
	return newState(input, &lruPackratCache{c: c})
}
