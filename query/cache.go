package query

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/loglens/loglens/index"
)

// lineCacheKey identifies one decoded line within one Index. Index pointers
// are stable for the Index's whole lifetime (it is never mutated in place),
// so the pointer itself is a safe cache key component.
type lineCacheKey struct {
	idx  *index.Index
	line int
}

// lineCache memoizes decoded line content across repeated range/search/
// filtered_indices calls against the same Index, which is the access
// pattern an interactive viewer produces (the user rarely asks for a
// disjoint line set on every call). Sized generously; eviction just costs a
// re-decode, never correctness.
var lineCache, _ = lru.New[lineCacheKey, string](16384)

func decodeCached(idx *index.Index, i int) string {
	key := lineCacheKey{idx, i}
	if v, ok := lineCache.Get(key); ok {
		return v
	}
	v := idx.LineContent(i, true)
	lineCache.Add(key, v)
	return v
}
