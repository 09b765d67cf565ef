// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/schema"
	"golang.org/x/term"
)

// GetMaxTableNameWidth calculates the maximum width for employee names in table output
// based on terminal width and the fixed columns around it.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + ID + Department + Score + Label + Window + Factors with borders/padding
	baseWidth := 95

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}

// riskLabel returns the label for a risk level, colored when colors are on.
func riskLabel(level schema.RiskLevel, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(level)
	}
	return contract.GetPlainLabel(level)
}
