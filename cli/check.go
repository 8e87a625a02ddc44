package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tinted-terminal/preset"
)

var errCheckFailed = errors.New("palette check failed")

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every preset's colors and report contrast",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkPresets(cmd.OutOrStdout(), preset.Presets())
		},
	}
}

// checkPresets reports each preset on its own line. Malformed colors fail the
// check; low contrast is only a warning.
func checkPresets(w io.Writer, presets []preset.ColorPreset) error {
	ok := color.New(color.FgGreen).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()

	failed := 0
	for i, p := range presets {
		if err := p.Validate(); err != nil {
			failed++
			fmt.Fprintf(w, "%s preset %d: %v\n", fail("FAIL"), i, err)
			continue
		}
		ratio, _ := p.Contrast()
		if rating := preset.Rate(ratio); rating == preset.RatingFail {
			fmt.Fprintf(w, "%s preset %d: contrast %.2f below 3:1\n", warn("WARN"), i, ratio)
			continue
		}
		fmt.Fprintf(w, "%s preset %d: %s on %s\n", ok("ok"), i, p.Foreground, p.Background)
	}

	if len(presets) != preset.Count {
		failed++
		fmt.Fprintf(w, "%s expected %d presets, found %d\n", fail("FAIL"), preset.Count, len(presets))
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d problem(s)", errCheckFailed, failed)
	}
	return nil
}
