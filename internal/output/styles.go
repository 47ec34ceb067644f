package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette used across the CLI.
var (
	ColorCyan       = lipgloss.Color("14")
	ColorYellow     = lipgloss.Color("220")
	ColorGreenCheck = lipgloss.Color("10")
)

var (
	// StyleNoun styles paths and category names.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleWarn styles shortfall notes.
	StyleWarn = lipgloss.NewStyle().Foreground(ColorYellow)

	StyleDim     = lipgloss.NewStyle().Faint(true)
	StyleSummary = lipgloss.NewStyle().Bold(true)
	StyleCheck   = lipgloss.NewStyle().Foreground(ColorGreenCheck)
)

// Summary is what a generate run reports at the end, whether or not the
// target was met.
type Summary struct {
	Requested   int
	Produced    int
	Attempts    int
	Duplicates  int
	Failures    int
	ImagesDir   string
	MetadataDir string
	RarityFile  string
}

// FormatSummary renders the final run summary.
func FormatSummary(s Summary) string {
	var b strings.Builder
	if s.Produced >= s.Requested {
		fmt.Fprintf(&b, "%s %s\n", StyleCheck.Render("✔"),
			StyleSummary.Render(fmt.Sprintf("Successfully generated %d unique NFTs", s.Produced)))
	} else {
		fmt.Fprintf(&b, "%s %s\n", StyleWarn.Render("!"),
			StyleSummary.Render(fmt.Sprintf("Generated %d of %d requested NFTs", s.Produced, s.Requested)))
	}
	fmt.Fprintf(&b, "  %s %d attempts, %d duplicates, %d failures\n",
		StyleDim.Render("stats:   "), s.Attempts, s.Duplicates, s.Failures)
	fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render("images:  "), StyleNoun.Render(s.ImagesDir))
	fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render("metadata:"), StyleNoun.Render(s.MetadataDir))
	if s.RarityFile != "" {
		fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render("rarity:  "), StyleNoun.Render(s.RarityFile))
	}
	return b.String()
}

// CategoryRow is one line of the catalog listing.
type CategoryRow struct {
	Name   string
	Traits int
}

// FormatCatalog renders per-category trait counts and the capacity.
func FormatCatalog(dir string, rows []CategoryRow, capacity int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", StyleNoun.Render(dir))
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Name))
	}
	for _, r := range rows {
		count := fmt.Sprintf("%d", r.Traits)
		if r.Traits == 0 {
			count = StyleWarn.Render("empty")
		}
		fmt.Fprintf(&b, "  %-*s  %s\n", width, r.Name, count)
	}
	fmt.Fprintf(&b, "%s %d\n", StyleSummary.Render("unique combinations:"), capacity)
	return b.String()
}
