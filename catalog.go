package nftlayers

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// ImageExtensions lists the accepted trait file extensions, lower case.
var ImageExtensions = []string{".png", ".jpg", ".jpeg"}

// IsImageFile reports whether name carries an accepted raster extension.
// The match is case-insensitive.
func IsImageFile(name string) bool {
	return slices.Contains(ImageExtensions, strings.ToLower(filepath.Ext(name)))
}

// Category is a named layer with its trait file names, sorted.
type Category struct {
	Name   string
	Traits []string
}

// Catalog maps layer categories to their traits. Categories keep the
// configured order, which is also the compositing order.
type Catalog struct {
	Dir        string
	Categories []Category
}

// LoadCatalog lists every category directory under dir. A missing or
// unreadable directory yields an empty category and a warning.
func LoadCatalog(dir string, names []string, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.Default()
	}
	c := &Catalog{
		Dir:        dir,
		Categories: make([]Category, 0, len(names)),
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		traits, err := listTraits(path)
		switch {
		case err != nil:
			logger.Warn("missing category", "category", name, "path", path, "error", err)
		case len(traits) == 0:
			logger.Warn("missing category", "category", name, "path", path, "error", "no images")
		default:
			logger.Info("loaded category", "category", name, "traits", len(traits))
		}
		c.Categories = append(c.Categories, Category{Name: name, Traits: traits})
	}
	return c
}

func listTraits(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	traits := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsImageFile(e.Name()) {
			continue
		}
		traits = append(traits, e.Name())
	}
	slices.Sort(traits)
	return traits, nil
}

// Traits returns the traits of the named category, or nil.
func (c *Catalog) Traits(name string) []string {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat.Traits
		}
	}
	return nil
}

// TraitPath is the file path of one trait image.
func (c *Catalog) TraitPath(s Selection) string {
	return filepath.Join(c.Dir, s.Category, s.Trait)
}

// NonEmpty counts categories that contribute to combinations.
func (c *Catalog) NonEmpty() int {
	n := 0
	for _, cat := range c.Categories {
		if len(cat.Traits) > 0 {
			n++
		}
	}
	return n
}

// Capacity is the number of distinct combinations the catalog can produce.
// Empty categories contribute a factor of one. The product saturates at
// math.MaxInt.
func (c *Catalog) Capacity() int {
	total := 1
	for _, cat := range c.Categories {
		n := len(cat.Traits)
		if n == 0 {
			continue
		}
		if total > math.MaxInt/n {
			return math.MaxInt
		}
		total *= n
	}
	return total
}
