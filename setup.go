package nftlayers

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/setanarut/nftlayers/utils"
)

// Output subdirectories.
const (
	ImagesDir   = "images"
	MetadataDir = "metadata"
	PalettesDir = "palettes"
)

// PlaceholderName is the file written into empty category directories.
const PlaceholderName = "placeholder.png"

// SetupOptions describes the directory tree prepared before generation.
type SetupOptions struct {
	LayersDir  string
	Categories []string
	OutputDir  string
	// PlaceholderSize is the edge length of the blank image written into
	// empty categories. Zero disables placeholders.
	PlaceholderSize int
	Swatches        bool
	Logger          *log.Logger
}

// EnsureLayout creates the output directories and every category
// directory, and writes a transparent placeholder into categories that hold
// no images. Any error here is fatal for the run.
func EnsureLayout(opt SetupOptions) error {
	logger := opt.Logger
	if logger == nil {
		logger = log.Default()
	}
	dirs := []string{
		filepath.Join(opt.OutputDir, ImagesDir),
		filepath.Join(opt.OutputDir, MetadataDir),
	}
	if opt.Swatches {
		dirs = append(dirs, filepath.Join(opt.OutputDir, PalettesDir))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	for _, name := range opt.Categories {
		path := filepath.Join(opt.LayersDir, name)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating category directory: %w", err)
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return fmt.Errorf("reading category directory: %w", err)
		}
		if slices.ContainsFunc(entries, func(e os.DirEntry) bool {
			return !e.IsDir() && IsImageFile(e.Name())
		}) {
			continue
		}
		logger.Warn("no images in category, add PNG/JPG files", "category", name, "path", path)
		if opt.PlaceholderSize <= 0 {
			continue
		}
		blank := utils.NewBlank(opt.PlaceholderSize)
		if err := utils.SaveImage(blank, filepath.Join(path, PlaceholderName)); err != nil {
			return fmt.Errorf("writing placeholder: %w", err)
		}
		logger.Debug("wrote placeholder", "category", name)
	}
	return nil
}
