package nftlayers

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/setanarut/nftlayers/utils"
)

var (
	// ErrDuplicate is returned by Attempt when the drawn combination was
	// already reserved in this run.
	ErrDuplicate = errors.New("duplicate combination")

	// ErrOutput wraps failures writing images or metadata. These stop the run.
	ErrOutput = errors.New("output write failure")

	ErrInvalidOptions = errors.New("invalid generator options")
)

// FailurePolicy decides what happens to a reservation when rendering fails.
type FailurePolicy int

const (
	// BurnOnFailure keeps the failed combination reserved so it is never
	// drawn again in this run.
	BurnOnFailure FailurePolicy = iota
	// ReleaseOnFailure frees the reservation so a later attempt may retry it.
	ReleaseOnFailure
)

func ParseFailurePolicy(name string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "burn":
		return BurnOnFailure, nil
	case "release":
		return ReleaseOnFailure, nil
	default:
		return 0, fmt.Errorf("unknown failure policy %q", name)
	}
}

func (p FailurePolicy) String() string {
	if p == ReleaseOnFailure {
		return "release"
	}
	return "burn"
}

type PaletteOptions struct {
	Enabled bool
	// Number of colors written to the metadata palette.
	Size   int
	Method utils.PaletteMethod
	// Also write a palettes/{id}.png swatch strip.
	Swatches bool
}

type Options struct {
	// Number of artifacts to produce.
	Count int
	// Attempts are capped at Count*AttemptMultiplier.
	AttemptMultiplier int
	// Attempts running at once. One keeps the run fully sequential.
	Workers       int
	FailurePolicy FailurePolicy
	OutputDir     string
	Metadata      MetadataOptions
	Palette       PaletteOptions
	Logger        *log.Logger
}

func DefaultOptions() Options {
	return Options{
		Count:             520,
		AttemptMultiplier: 10,
		Workers:           1,
		FailurePolicy:     BurnOnFailure,
		OutputDir:         "output",
		Metadata:          DefaultMetadataOptions(),
		Palette: PaletteOptions{
			Size:   5,
			Method: utils.PaletteMethodDominantColor,
		},
	}
}

func (o Options) validate() error {
	switch {
	case o.Count < 0:
		return fmt.Errorf("%w: count %d is negative", ErrInvalidOptions, o.Count)
	case o.AttemptMultiplier < 1:
		return fmt.Errorf("%w: attempt multiplier must be at least 1", ErrInvalidOptions)
	case o.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidOptions)
	case o.OutputDir == "":
		return fmt.Errorf("%w: output directory is empty", ErrInvalidOptions)
	case o.Palette.Enabled && o.Palette.Size < 1:
		return fmt.Errorf("%w: palette size must be at least 1", ErrInvalidOptions)
	}
	return nil
}

// Artifact is one accepted, rendered and written combination.
type Artifact struct {
	ID           int
	Combination  Combination
	ImagePath    string
	MetadataPath string
	Metadata     Metadata
}

// Report summarizes a Generate run.
type Report struct {
	Requested  int
	Attempts   int
	Duplicates int
	Failures   int
	// Exhausted is set when the attempt budget ran out before Requested
	// artifacts were produced.
	Exhausted bool
	Artifacts []Artifact
}

func (r *Report) Produced() int {
	return len(r.Artifacts)
}

func (r *Report) Shortfall() int {
	return max(0, r.Requested-len(r.Artifacts))
}

type Generator struct {
	catalog *Catalog
	opt     Options
	logger  *log.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
	seen  *seenSet
}

// NewGenerator returns a generator over catalog. A nil rng is replaced by a
// randomly seeded source.
func NewGenerator(catalog *Catalog, rng *rand.Rand, opt Options) (*Generator, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: nil catalog", ErrInvalidOptions)
	}
	if err := opt.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	logger := opt.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{
		catalog: catalog,
		opt:     opt,
		logger:  logger,
		rng:     rng,
		seen:    newSeenSet(),
	}, nil
}

// Seen is the number of combinations currently reserved.
func (g *Generator) Seen() int {
	return g.seen.Len()
}

// Attempt draws one combination and, when it is new, renders and writes
// artifact id. It returns ErrDuplicate for a rejected draw, an ErrTraitLoad
// or ErrNoLayers error for a failed render, and ErrOutput when writing fails.
func (g *Generator) Attempt(id int) (*Artifact, error) {
	g.rngMu.Lock()
	combo := Draw(g.catalog, g.rng)
	g.rngMu.Unlock()

	if !g.seen.Reserve(combo) {
		return nil, ErrDuplicate
	}

	paths := make([]string, 0, len(combo))
	for _, s := range combo {
		paths = append(paths, g.catalog.TraitPath(s))
	}
	img, err := Composite(paths)
	if err != nil {
		if g.opt.FailurePolicy == ReleaseOnFailure {
			g.seen.Release(combo)
		}
		return nil, err
	}

	name := strconv.Itoa(id)
	art := &Artifact{
		ID:           id,
		Combination:  combo,
		ImagePath:    filepath.Join(g.opt.OutputDir, ImagesDir, name+".png"),
		MetadataPath: filepath.Join(g.opt.OutputDir, MetadataDir, name+".json"),
		Metadata:     NewMetadata(id, combo, g.opt.Metadata),
	}
	if err := utils.SaveImage(img, art.ImagePath); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutput, err)
	}

	if p := g.opt.Palette; p.Enabled {
		palette := utils.ExtractPalette(img, p.Size, p.Method)
		utils.SortPaletteByBrightness(palette)
		art.Metadata.Palette = utils.HexPalette(palette)
		if p.Swatches && len(palette) > 0 {
			swatch := filepath.Join(g.opt.OutputDir, PalettesDir, name+".png")
			if err := utils.SavePalette(palette, 64, swatch); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrOutput, err)
			}
		}
	}

	if err := WriteMetadata(art.MetadataPath, art.Metadata); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutput, err)
	}
	return art, nil
}

// Generate runs attempts with ids 1, 2, ... until Count artifacts exist or
// Count*AttemptMultiplier ids have been used. Duplicates and render failures
// only consume an id; an output write failure aborts the run and is returned
// together with the partial report.
func (g *Generator) Generate() (*Report, error) {
	target := g.opt.Count
	report := &Report{Requested: target}
	if target == 0 {
		return report, nil
	}
	if capacity := g.catalog.Capacity(); capacity < target {
		g.logger.Warn("catalog cannot produce the requested count",
			"capacity", capacity, "requested", target)
	}

	d := &dispatcher{
		nextID: 1,
		budget: target * g.opt.AttemptMultiplier,
		target: target,
		report: report,
	}
	d.cond = sync.NewCond(&d.mu)

	var wg sync.WaitGroup
	for range g.opt.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.work(d)
		}()
	}
	wg.Wait()

	slices.SortFunc(report.Artifacts, func(a, b Artifact) int { return a.ID - b.ID })
	if d.fatal != nil {
		return report, d.fatal
	}
	if report.Produced() < target {
		report.Exhausted = true
		g.logger.Warn("having trouble finding unique combinations",
			"produced", report.Produced(), "requested", target, "attempts", report.Attempts)
	}
	return report, nil
}

func (g *Generator) work(d *dispatcher) {
	for {
		id, ok := d.next()
		if !ok {
			return
		}
		art, err := g.Attempt(id)
		switch {
		case err == nil:
			g.logger.Info("generated", "id", id)
		case errors.Is(err, ErrDuplicate):
			g.logger.Debug("duplicate combination rejected", "id", id)
		case errors.Is(err, ErrOutput):
			g.logger.Error("writing artifact", "id", id, "error", err)
		default:
			g.logger.Error("render failed", "id", id, "error", err)
		}
		d.done(art, err)
	}
}

// dispatcher hands out attempt ids. It never lets accepted plus in-flight
// attempts exceed the target, and never issues an id above the budget.
type dispatcher struct {
	mu   sync.Mutex
	cond *sync.Cond

	nextID   int
	budget   int
	target   int
	inflight int
	fatal    error
	report   *Report
}

func (d *dispatcher) next() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for {
		accepted := len(d.report.Artifacts)
		if d.fatal != nil || accepted >= d.target || d.nextID > d.budget {
			return 0, false
		}
		if accepted+d.inflight < d.target {
			break
		}
		d.cond.Wait()
	}
	id := d.nextID
	d.nextID++
	d.inflight++
	d.report.Attempts++
	return id, true
}

func (d *dispatcher) done(art *Artifact, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inflight--
	switch {
	case err == nil:
		d.report.Artifacts = append(d.report.Artifacts, *art)
	case errors.Is(err, ErrDuplicate):
		d.report.Duplicates++
	case errors.Is(err, ErrOutput):
		if d.fatal == nil {
			d.fatal = err
		}
	default:
		d.report.Failures++
	}
	d.cond.Broadcast()
}
