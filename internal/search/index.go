// Package search maintains the fuzzy index over fetched images.
//
// The index is owned by whoever creates it (the app wires one per view) and
// grows as pages arrive. It never evicts. Ingesting the same image twice is
// tolerated: results are de-duplicated by id and carry the most recently
// ingested copy.
package search

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"

	"github.com/five82/easel/internal/imagesapi"
)

// Match tiers, best first.
const (
	tierExactToken = iota
	tierFuzzy
	tierTypo
	tierNone
)

type entry struct {
	image  imagesapi.Image
	title  string
	author string
	tokens []string
}

// Index is a title/author fuzzy index. Safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	entries []entry
	byToken map[string][]int
	latest  map[string]int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		byToken: make(map[string][]int),
		latest:  make(map[string]int),
	}
}

// Ingest appends images to the index.
func (idx *Index) Ingest(images ...imagesapi.Image) {
	if len(images) == 0 {
		return
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, img := range images {
		pos := len(idx.entries)
		e := entry{
			image:  img,
			title:  strings.ToLower(strings.TrimSpace(img.Title)),
			author: strings.ToLower(strings.TrimSpace(img.Author)),
		}
		seen := make(map[string]struct{})
		for _, tok := range append(tokenize(e.title), tokenize(e.author)...) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			e.tokens = append(e.tokens, tok)
			idx.byToken[tok] = append(idx.byToken[tok], pos)
		}
		idx.entries = append(idx.entries, e)
		idx.latest[img.ID] = pos
	}
}

// Len returns the number of ingested entries, duplicates included.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

type hit struct {
	pos    int
	tier   int
	exact  int
	score  int
	fuzzed bool
}

// Query returns images matching term, best match first. A blank term returns
// nil: callers clear filtering instead of querying.
func (idx *Index) Query(term string) []imagesapi.Image {
	pattern := strings.ToLower(strings.TrimSpace(term))
	if pattern == "" {
		return nil
	}
	queryTokens := tokenize(pattern)

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if len(idx.entries) == 0 {
		return nil
	}

	hits := make(map[int]*hit)
	get := func(pos int) *hit {
		h, ok := hits[pos]
		if !ok {
			h = &hit{pos: pos, tier: tierNone}
			hits[pos] = h
		}
		return h
	}

	for _, tok := range uniq(queryTokens) {
		for _, pos := range idx.byToken[tok] {
			h := get(pos)
			h.exact++
			h.tier = tierExactToken
		}
	}

	for _, src := range []fuzzy.Source{titleSource(idx.entries), authorSource(idx.entries)} {
		for _, m := range fuzzy.FindFrom(pattern, src) {
			h := get(m.Index)
			if !h.fuzzed || m.Score > h.score {
				h.score = m.Score
				h.fuzzed = true
			}
			if h.tier > tierFuzzy {
				h.tier = tierFuzzy
			}
		}
	}

	if len(queryTokens) > 0 {
		for pos := range idx.entries {
			if _, ok := hits[pos]; ok {
				continue
			}
			if typoMatch(queryTokens, idx.entries[pos].tokens) {
				get(pos).tier = tierTypo
			}
		}
	}

	ranked := make([]*hit, 0, len(hits))
	for _, h := range hits {
		if h.tier != tierNone {
			ranked = append(ranked, h)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.exact != b.exact {
			return a.exact > b.exact
		}
		if a.score != b.score {
			return a.score > b.score
		}
		return a.pos < b.pos
	})

	out := make([]imagesapi.Image, 0, len(ranked))
	emitted := make(map[string]struct{}, len(ranked))
	for _, h := range ranked {
		id := idx.entries[h.pos].image.ID
		if _, ok := emitted[id]; ok {
			continue
		}
		emitted[id] = struct{}{}
		out = append(out, idx.entries[idx.latest[id]].image)
	}
	return out
}

// typoMatch reports whether every query token is within a small edit
// distance of some field token.
func typoMatch(queryTokens, fieldTokens []string) bool {
	for _, q := range queryTokens {
		limit := typoBudget(q)
		if limit == 0 {
			return false
		}
		found := false
		for _, f := range fieldTokens {
			if abs(len(f)-len(q)) > limit {
				continue
			}
			if levenshtein.ComputeDistance(q, f) <= limit {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func typoBudget(token string) int {
	n := len([]rune(token))
	switch {
	case n <= 3:
		return 0
	case n <= 6:
		return 1
	default:
		return 2
	}
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func uniq(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

type titleSource []entry

func (s titleSource) String(i int) string { return s[i].title }
func (s titleSource) Len() int            { return len(s) }

type authorSource []entry

func (s authorSource) String(i int) string { return s[i].author }
func (s authorSource) Len() int            { return len(s) }
