package nftlayers

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.png", true},
		{"b.PNG", true},
		{"c.Jpg", true},
		{"d.jpeg", true},
		{"e.gif", false},
		{"notes.txt", false},
		{"png", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsImageFile(tt.name))
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	t.Run("sorts traits and keeps category order", func(t *testing.T) {
		dir := layerTree(t, map[string][]string{
			"background": {"zeta.png", "alpha.png", "Mid.JPG"},
			"hat":        {"cap.png"},
		})
		require.NoError(t, os.WriteFile(filepath.Join(dir, "hat", "readme.txt"), []byte("x"), 0o644))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "hat", "nested.png"), 0o755))

		c := LoadCatalog(dir, []string{"hat", "background"}, quietLogger())

		require.Len(t, c.Categories, 2)
		assert.Equal(t, "hat", c.Categories[0].Name)
		assert.Equal(t, []string{"cap.png"}, c.Categories[0].Traits)
		assert.Equal(t, []string{"Mid.JPG", "alpha.png", "zeta.png"}, c.Categories[1].Traits)
	})

	t.Run("missing category is empty and warned", func(t *testing.T) {
		dir := layerTree(t, map[string][]string{"background": {"a.png"}})
		var buf bytes.Buffer
		logger := log.NewWithOptions(&buf, log.Options{})

		c := LoadCatalog(dir, []string{"background", "eyes"}, logger)

		assert.Empty(t, c.Traits("eyes"))
		assert.Equal(t, 1, c.NonEmpty())
		assert.Contains(t, buf.String(), "missing category")
		assert.Contains(t, buf.String(), "eyes")
	})

	t.Run("loading twice is stable", func(t *testing.T) {
		dir := layerTree(t, map[string][]string{
			"background": {"b.png", "a.png", "c.png"},
			"eyes":       {"x.png", "y.png"},
		})
		names := []string{"background", "eyes"}
		first := LoadCatalog(dir, names, quietLogger())
		second := LoadCatalog(dir, names, quietLogger())
		assert.Equal(t, first, second)
	})
}

func TestCatalogCapacity(t *testing.T) {
	c := &Catalog{Categories: []Category{
		{Name: "background", Traits: []string{"a", "b", "c"}},
		{Name: "empty"},
		{Name: "hat", Traits: []string{"x", "y"}},
	}}
	assert.Equal(t, 6, c.Capacity())

	assert.Equal(t, 1, (&Catalog{}).Capacity())

	huge := make([]string, 1<<20)
	big := &Catalog{}
	for range 5 {
		big.Categories = append(big.Categories, Category{Traits: huge})
	}
	assert.Equal(t, math.MaxInt, big.Capacity())
}

func TestCatalogTraitPath(t *testing.T) {
	c := &Catalog{Dir: "layers"}
	assert.Equal(t, filepath.Join("layers", "hat", "x.png"), c.TraitPath(Selection{Category: "hat", Trait: "x.png"}))
}
