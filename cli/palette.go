package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"tinted-terminal/preset"
)

type paletteRow struct {
	Index      int           `json:"index"`
	Background string        `json:"background"`
	Foreground string        `json:"foreground"`
	Contrast   float64       `json:"contrast"`
	Rating     preset.Rating `json:"rating"`
}

func paletteRows() ([]paletteRow, error) {
	all := preset.All()
	rows := make([]paletteRow, 0, len(all))
	for i, p := range all {
		ratio, err := p.Contrast()
		if err != nil {
			return nil, fmt.Errorf("preset %d: %w", i, err)
		}
		rows = append(rows, paletteRow{
			Index:      i,
			Background: p.Background,
			Foreground: p.Foreground,
			Contrast:   ratio,
			Rating:     preset.Rate(ratio),
		})
	}
	return rows, nil
}

func newPaletteCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Print the color presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := paletteRows()
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			renderPalette(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	indexStyle  = lipgloss.NewStyle().Width(4).Align(lipgloss.Right)
)

func renderPalette(w io.Writer, rows []paletteRow) {
	fmt.Fprintln(w, headerStyle.Render("   #  sample        background  foreground  contrast"))
	for _, r := range rows {
		swatch := lipgloss.NewStyle().
			Background(lipgloss.Color(r.Background)).
			Foreground(lipgloss.Color(r.Foreground)).
			Padding(0, 1).
			Render("Sample Aa")
		fmt.Fprintf(w, "%s  %s  %-10s  %-10s  %5.2f %s\n",
			indexStyle.Render(fmt.Sprint(r.Index)), swatch, r.Background, r.Foreground, r.Contrast, r.Rating)
	}
}
