package nftlayers

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// Selection is one trait chosen from one category.
type Selection struct {
	Category string
	Trait    string
}

// Combination holds one selection per non-empty category, in catalog order.
type Combination []Selection

// Key is the identity of a combination. Two combinations with the same
// per-category choices have equal keys.
func (c Combination) Key() string {
	var b strings.Builder
	for i, s := range c {
		if i > 0 {
			b.WriteByte(0x1e)
		}
		b.WriteString(s.Category)
		b.WriteByte(0x1f)
		b.WriteString(s.Trait)
	}
	return b.String()
}

// Draw picks one trait uniformly at random from every non-empty category.
func Draw(c *Catalog, rng *rand.Rand) Combination {
	combo := make(Combination, 0, len(c.Categories))
	for _, cat := range c.Categories {
		if len(cat.Traits) == 0 {
			continue
		}
		combo = append(combo, Selection{
			Category: cat.Name,
			Trait:    cat.Traits[rng.IntN(len(cat.Traits))],
		})
	}
	return combo
}

// seenSet records every combination reserved during a run. It only grows,
// except through Release under the release failure policy.
type seenSet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newSeenSet() *seenSet {
	return &seenSet{keys: make(map[string]struct{})}
}

// Reserve inserts the combination and reports whether it was new. The
// membership test and the insert happen under one lock.
func (s *seenSet) Reserve(c Combination) bool {
	k := c.Key()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[k]; ok {
		return false
	}
	s.keys[k] = struct{}{}
	return true
}

func (s *seenSet) Release(c Combination) {
	s.mu.Lock()
	delete(s.keys, c.Key())
	s.mu.Unlock()
}

func (s *seenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}
