package cmd

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/setanarut/nftlayers"
	"github.com/setanarut/nftlayers/internal/config"
	oerrors "github.com/setanarut/nftlayers/internal/errors"
	"github.com/setanarut/nftlayers/internal/output"
	"github.com/setanarut/nftlayers/internal/rarity"
)

type generateFlags struct {
	count         int
	seed          uint64
	workers       int
	layersDir     string
	outputDir     string
	failurePolicy string
	rarity        bool
}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd(g *GlobalConfig) *cobra.Command {
	f := &generateFlags{}
	c := &cobra.Command{
		Use:   "generate",
		Short: "Generate the NFT collection",
		Long: `Prepare the layer and output directories, load the layer catalog and
generate unique trait combinations until the requested count is reached
or the attempt budget runs out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, g, f)
		},
	}
	c.Flags().IntVar(&f.count, "count", 0, "Number of NFTs to generate (config: count)")
	c.Flags().Uint64Var(&f.seed, "seed", 0, "Random seed, 0 seeds from entropy (config: seed)")
	c.Flags().IntVar(&f.workers, "workers", 1, "Concurrent attempts (config: workers)")
	c.Flags().StringVar(&f.layersDir, "layers", "", "Layer directory (config: layers_dir)")
	c.Flags().StringVar(&f.outputDir, "output", "", "Output directory (config: output_dir)")
	c.Flags().StringVar(&f.failurePolicy, "failure-policy", "", "burn or release (config: failure_policy)")
	c.Flags().BoolVar(&f.rarity, "rarity", false, "Write rarity.json after generation (config: rarity.enabled)")
	return c
}

// apply overrides cfg with explicitly set flags.
func (f *generateFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Lookup("count") == nil {
		// root command: no generate flags registered
		return
	}
	if flags.Changed("count") {
		cfg.Count = f.count
	}
	if flags.Changed("seed") {
		cfg.Seed = f.seed
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("layers") {
		cfg.LayersDir = f.layersDir
	}
	if flags.Changed("output") {
		cfg.OutputDir = f.outputDir
	}
	if flags.Changed("failure-policy") {
		cfg.FailurePolicy = f.failurePolicy
	}
	if flags.Changed("rarity") {
		cfg.Rarity.Enabled = f.rarity
	}
}

func runGenerate(cmd *cobra.Command, g *GlobalConfig, f *generateFlags) error {
	cfg := *g.Config
	f.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return oerrors.WrapValidation(err, "invalid configuration")
	}

	wd, _ := os.Getwd()
	output.Info("starting NFT generator", "workdir", wd, "count", cfg.Count)

	logger := output.Logger()
	setup := cfg.SetupOptions()
	setup.Logger = logger
	if err := nftlayers.EnsureLayout(setup); err != nil {
		return err
	}

	catalog := nftlayers.LoadCatalog(cfg.LayersDir, cfg.Categories, logger)

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}
	opt := cfg.GeneratorOptions()
	opt.Logger = logger
	gen, err := nftlayers.NewGenerator(catalog, rng, opt)
	if err != nil {
		return err
	}

	report, err := gen.Generate()
	if err != nil {
		output.Error("generation aborted", "produced", report.Produced(), "error", err)
		return err
	}

	summary := output.Summary{
		Requested:   report.Requested,
		Produced:    report.Produced(),
		Attempts:    report.Attempts,
		Duplicates:  report.Duplicates,
		Failures:    report.Failures,
		ImagesDir:   absPath(filepath.Join(cfg.OutputDir, nftlayers.ImagesDir)),
		MetadataDir: absPath(filepath.Join(cfg.OutputDir, nftlayers.MetadataDir)),
	}
	if cfg.Rarity.Enabled {
		path, err := rarity.Write(cfg.OutputDir, rarity.Build(rarity.FromArtifacts(report.Artifacts)))
		if err != nil {
			return err
		}
		summary.RarityFile = absPath(path)
	}

	fmt.Fprint(cmd.OutOrStdout(), output.FormatSummary(summary))
	return nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// NewSetupCmd creates the setup command.
func NewSetupCmd(g *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create layer and output directories",
		Long: `Create the output directories and every configured category directory.
Categories without images receive a transparent placeholder.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setup := g.Config.SetupOptions()
			setup.Logger = output.Logger()
			if err := nftlayers.EnsureLayout(setup); err != nil {
				return err
			}
			output.Info("layout ready", "layers", g.Config.LayersDir, "output", g.Config.OutputDir)
			return nil
		},
	}
}

// NewCatalogCmd creates the catalog command.
func NewCatalogCmd(g *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List trait counts per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := nftlayers.LoadCatalog(g.Config.LayersDir, g.Config.Categories, output.Logger())
			rows := make([]output.CategoryRow, 0, len(catalog.Categories))
			for _, c := range catalog.Categories {
				rows = append(rows, output.CategoryRow{Name: c.Name, Traits: len(c.Traits)})
			}
			fmt.Fprint(cmd.OutOrStdout(), output.FormatCatalog(catalog.Dir, rows, catalog.Capacity()))
			return nil
		},
	}
}

// NewRarityCmd creates the rarity command.
func NewRarityCmd(g *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "rarity",
		Short: "Build a rarity report from generated metadata",
		Long: `Read every metadata record under <output>/metadata and write trait
frequencies and per-item rarity scores to <output>/rarity.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := filepath.Join(g.Config.OutputDir, nftlayers.MetadataDir)
			items, err := rarity.FromMetadataDir(dir)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return oerrors.WrapNotFound(err, "reading metadata")
				}
				return err
			}
			r := rarity.Build(items)
			path, err := rarity.Write(g.Config.OutputDir, r)
			if err != nil {
				return err
			}
			output.Info("rarity report written", "items", r.Total, "path", path)
			return nil
		},
	}
}
