package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dinjou/inconfluential/internal/adapters/driving/styles"
	"github.com/dinjou/inconfluential/internal/core/domain"
)

const (
	fatalMessage = "Unable to obtain requested pages from Confluence. Please see the logs for more information."
	changedLine  = "Changes have been pulled from your wiki."
	noChangeLine = "No changes have been pulled from your wiki."
	goodbyeLine  = "Thank you for using inconfluential. Goodbye."
)

var theme = styles.DefaultStyles()

func printBanner(w io.Writer, spaces []string, output string) {
	fmt.Fprintln(w, theme.Banner.Render("inconfluential "+version))
	fmt.Fprintln(w, theme.Muted.Render(fmt.Sprintf("Spaces: %s  Destination: %s", strings.Join(spaces, ", "), output)))
	fmt.Fprintln(w)
}

func printSummary(w io.Writer, result domain.RunResult) {
	fmt.Fprintln(w)
	for _, s := range result.Spaces {
		line := fmt.Sprintf("%-12s %4d pages  %4d written  %4d failed", s.SpaceKey, s.PagesVisited, s.PagesWritten, s.PagesFailed)
		if s.Partial {
			line += "  " + theme.Warning.Render("incomplete")
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	if result.Changed() {
		fmt.Fprintln(w, theme.Success.Render(changedLine))
	} else {
		fmt.Fprintln(w, noChangeLine)
	}
	fmt.Fprintln(w, theme.Muted.Render(goodbyeLine))
}
