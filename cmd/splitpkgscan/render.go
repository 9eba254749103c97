// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/adoptopenjdk/splitpkgscan/internal/artifact"
	"github.com/adoptopenjdk/splitpkgscan/internal/issue"
	"github.com/adoptopenjdk/splitpkgscan/internal/scan"
	"github.com/adoptopenjdk/splitpkgscan/internal/verdict"
	"github.com/adoptopenjdk/splitpkgscan/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// renderVerdicts prints the split packages as a table, or every package
// when all is set. Nothing is printed when there is no row to show.
func renderVerdicts(w io.Writer, verdicts []verdict.Verdict, all bool) {
	var shown []verdict.Verdict
	for _, v := range verdicts {
		if all || v.Split {
			shown = append(shown, v)
		}
	}
	if len(shown) == 0 {
		return
	}

	rows := make([][]string, len(shown))
	for i, v := range shown {
		owners := make([]string, len(v.Owners))
		for j, o := range v.Owners {
			owners[j] = o.String()
		}
		status := "clean"
		if v.Split {
			status = "split"
		}
		rows[i] = []string{v.Package, status, strings.Join(owners, "\n")}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		Headers("PACKAGE", "STATUS", "MODULES").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 1 && shown[row].Split:
				return tableCellStyle.Foreground(ColorError).Bold(true)
			case col == 1:
				return tableCellStyle.Foreground(ColorSuccess)
			case col == 0:
				return tableCellStyle.Foreground(ColorHighlight)
			default:
				return tableCellStyle
			}
		})

	fmt.Fprintln(w, t.Render())
}

// renderSummary prints the one-line outcome and the report location.
func renderSummary(w io.Writer, res *scan.Result, reportPath types.FilesystemPath) {
	split := len(res.SplitPackages())
	line := fmt.Sprintf("Scanned %d artifacts: %d packages, %d split", res.ArtifactsScanned, res.Classification.Len(), split)
	switch {
	case split > 0:
		fmt.Fprintln(w, ErrorStyle.Render("✗")+" "+line)
	default:
		fmt.Fprintln(w, SuccessStyle.Render("✓")+" "+line)
	}
	if reportPath != "" {
		fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("Report written to"), CmdStyle.Render(string(reportPath)))
	}
}

// renderSkipped lists the artifacts and dependencies that were left out of
// the scan set, followed once by the catalog guidance for missing artifacts.
func renderSkipped(w io.Writer, set *artifact.ScanSet, stylePath string) {
	if set == nil || len(set.Skipped) == 0 {
		return
	}
	for _, s := range set.Skipped {
		fmt.Fprintf(w, "%s %s\n", WarningStyle.Render("skipped:"), s.Error())
	}
	renderIssue(w, issue.ArtifactNotFoundId, stylePath)
}
