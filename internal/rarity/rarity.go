// Package rarity computes trait frequencies and per-item rarity scores for a
// generated collection.
package rarity

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/setanarut/nftlayers"
)

// FileName is the report written into the output directory.
const FileName = "rarity.json"

// Item is one collection member reduced to what the report needs.
type Item struct {
	ID         int                   `json:"id"`
	Attributes []nftlayers.Attribute `json:"attributes,omitempty"`
}

// TraitStat counts how often a trait value appears within its category.
type TraitStat struct {
	TraitType string  `json:"trait_type"`
	Value     string  `json:"value"`
	Count     int     `json:"count"`
	Frequency float64 `json:"frequency"`
}

// ItemScore is the rarity score of one item: the sum of 1/frequency over
// its attributes. Rank 1 is the rarest.
type ItemScore struct {
	ID    int     `json:"id"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

type Report struct {
	Total  int         `json:"total"`
	Mean   float64     `json:"mean_score"`
	StdDev float64     `json:"stddev_score"`
	Traits []TraitStat `json:"traits"`
	Items  []ItemScore `json:"items"`
}

// FromArtifacts converts generator output to report items.
func FromArtifacts(arts []nftlayers.Artifact) []Item {
	items := make([]Item, 0, len(arts))
	for _, a := range arts {
		items = append(items, Item{ID: a.ID, Attributes: a.Metadata.Attributes})
	}
	return items
}

// FromMetadataDir reads every {id}.json record in dir. Files whose base
// name is not an integer are skipped.
func FromMetadataDir(dir string) ([]Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var items []Item
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue
		}
		m, err := nftlayers.ReadMetadata(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		items = append(items, Item{ID: id, Attributes: m.Attributes})
	}
	slices.SortFunc(items, func(a, b Item) int { return a.ID - b.ID })
	return items, nil
}

type traitKey struct{ typ, value string }

// Build computes the report. Frequencies are relative to the item count.
func Build(items []Item) *Report {
	r := &Report{Total: len(items)}
	if len(items) == 0 {
		return r
	}

	counts := make(map[traitKey]int)
	for _, it := range items {
		for _, a := range it.Attributes {
			counts[traitKey{a.TraitType, a.Value}]++
		}
	}
	n := float64(len(items))
	for k, c := range counts {
		r.Traits = append(r.Traits, TraitStat{
			TraitType: k.typ,
			Value:     k.value,
			Count:     c,
			Frequency: float64(c) / n,
		})
	}
	slices.SortFunc(r.Traits, func(a, b TraitStat) int {
		return cmp.Or(
			cmp.Compare(a.TraitType, b.TraitType),
			cmp.Compare(a.Count, b.Count),
			cmp.Compare(a.Value, b.Value),
		)
	})

	scores := make([]float64, len(items))
	r.Items = make([]ItemScore, len(items))
	for i, it := range items {
		s := 0.0
		for _, a := range it.Attributes {
			s += n / float64(counts[traitKey{a.TraitType, a.Value}])
		}
		scores[i] = s
		r.Items[i] = ItemScore{ID: it.ID, Score: s}
	}
	r.Mean, r.StdDev = stat.MeanStdDev(scores, nil)
	if len(scores) < 2 {
		r.StdDev = 0
	}

	slices.SortStableFunc(r.Items, func(a, b ItemScore) int {
		return cmp.Or(cmp.Compare(b.Score, a.Score), cmp.Compare(a.ID, b.ID))
	})
	for i := range r.Items {
		r.Items[i].Rank = i + 1
	}
	return r
}

// Write stores the report as indented JSON in dir/rarity.json.
func Write(dir string, r *Report) (string, error) {
	path := filepath.Join(dir, FileName)
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing rarity report: %w", err)
	}
	return path, nil
}
