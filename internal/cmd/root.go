// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/setanarut/nftlayers/internal/config"
	oerrors "github.com/setanarut/nftlayers/internal/errors"
	"github.com/setanarut/nftlayers/internal/output"
)

// GlobalConfig holds CLI-wide state resolved during PersistentPreRunE and
// shared with every sub-command.
type GlobalConfig struct {
	ConfigFlag     string
	VerboseFlag    bool
	TimestampsFlag bool

	// Config is the loaded and validated run configuration.
	Config *config.Config
}

// NewRootCmd creates the root command. Run without a sub-command it
// prepares the layout and generates the collection from configuration.
func NewRootCmd() *cobra.Command {
	g := &GlobalConfig{}
	gen := &generateFlags{}

	rootCmd := &cobra.Command{
		Use:   "nftlayers",
		Short: "Generate unique layered NFT images and metadata",
		Long: `nftlayers combines one random trait image per layer category into
unique composite images and writes a JSON metadata record for each.

Run without a sub-command to set up directories and generate the
collection described by nftlayers.yaml (or built-in defaults).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd, g)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, g, gen)
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.ConfigFlag, "config", "", "Path to config file (default: ./nftlayers.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&g.VerboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&g.TimestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewGenerateCmd(g))
	rootCmd.AddCommand(NewSetupCmd(g))
	rootCmd.AddCommand(NewCatalogCmd(g))
	rootCmd.AddCommand(NewRarityCmd(g))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals loads configuration and sets up logging.
func initializeGlobals(cmd *cobra.Command, g *GlobalConfig) error {
	cfg, err := config.NewLoader().Load(g.ConfigFlag)
	if err != nil {
		output.SetupLogging(output.LogConfig{Verbose: g.VerboseFlag})
		return oerrors.WrapValidation(err, "loading config")
	}

	// timestamps: flag (if explicitly set) > config > default
	logCfg := output.LogConfig{Verbose: g.VerboseFlag}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(g.TimestampsFlag)
	} else if cfg.Log.Timestamps != nil {
		logCfg.Timestamps = cfg.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	g.Config = cfg
	output.Debug("configuration loaded",
		"config", g.ConfigFlag,
		"count", cfg.Count,
		"layers", cfg.LayersDir,
		"output", cfg.OutputDir,
		"categories", len(cfg.Categories),
	)
	return nil
}
