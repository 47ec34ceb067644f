package nftlayers

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombinationKey(t *testing.T) {
	a := Combination{{"background", "a.png"}, {"hat", "x.png"}}
	b := Combination{{"background", "a.png"}, {"hat", "x.png"}}
	c := Combination{{"background", "b.png"}, {"hat", "x.png"}}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())

	// Separators keep category and trait boundaries apart.
	d := Combination{{"ab", "c"}}
	e := Combination{{"a", "bc"}}
	assert.NotEqual(t, d.Key(), e.Key())

	assert.Equal(t, "", Combination{}.Key())
}

func TestDraw(t *testing.T) {
	c := &Catalog{Categories: []Category{
		{Name: "background", Traits: []string{"a.png", "b.png"}},
		{Name: "eyes"},
		{Name: "hat", Traits: []string{"x.png"}},
	}}
	rng := rand.New(rand.NewPCG(1, 2))
	for range 50 {
		combo := Draw(c, rng)
		if assert.Len(t, combo, 2) {
			assert.Equal(t, "background", combo[0].Category)
			assert.Contains(t, []string{"a.png", "b.png"}, combo[0].Trait)
			assert.Equal(t, Selection{"hat", "x.png"}, combo[1])
		}
	}

	assert.Empty(t, Draw(&Catalog{Categories: []Category{{Name: "eyes"}}}, rng))
}

func TestSeenSet(t *testing.T) {
	s := newSeenSet()
	combo := Combination{{"background", "a.png"}}

	assert.True(t, s.Reserve(combo))
	assert.False(t, s.Reserve(Combination{{"background", "a.png"}}))
	assert.Equal(t, 1, s.Len())

	s.Release(combo)
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.Reserve(combo))
}

func TestSeenSetConcurrentReserve(t *testing.T) {
	s := newSeenSet()
	combo := Combination{{"background", "a.png"}, {"hat", "x.png"}}
	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Reserve(combo) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}
