// Package observability provides formatted output for the CLI commands.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/candidate-match/internal/types"
	"github.com/jonathan/candidate-match/internal/validation"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the number of cells in a score bar
	barWidth = 20
)

// Printer handles formatted CLI output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// scoreBar renders a 0-100 score as a fixed-width bar.
func scoreBar(score int) string {
	score = max(0, min(100, score))
	filled := score * barWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func displayName(m types.MatchResult) string {
	name := m.Name
	if name == "" {
		name = m.CandidateID
	}
	if m.Party != "" {
		name += " (" + m.Party + ")"
	}
	return name
}

// PrintMatches outputs the ranked candidates with score bars and the
// per-area breakdown of the leader.
func (p *Printer) PrintMatches(resp *types.MatchResponse) {
	if resp == nil {
		return
	}
	if len(resp.Matches) == 0 {
		p.printBox("YOUR MATCHES", "No candidate could be scored against these answers.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Answered %d questions, %d candidates compared\n\n", resp.QuestionsAnswered, resp.TotalCandidates)

	count := min(len(resp.Matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := resp.Matches[i]
		fmt.Fprintf(&sb, "#%d  %s\n", i+1, displayName(m))
		fmt.Fprintf(&sb, "    %s %3d%%  (%d areas)\n", scoreBar(m.Score), m.Score, m.MatchedPositions)
	}
	if len(resp.Matches) > maxItemsToShow {
		fmt.Fprintf(&sb, "... and %d more candidates\n", len(resp.Matches)-maxItemsToShow)
	}

	top := resp.Matches[0]
	if len(top.AlignmentByArea) > 0 {
		fmt.Fprintf(&sb, "\nBreakdown for %s:\n", displayName(top))
		for _, area := range types.PolicyAreas() {
			if score, ok := top.AlignmentByArea[area]; ok {
				fmt.Fprintf(&sb, "  %-15s %3d%%\n", area, score)
			}
		}
	}

	p.printBox("YOUR MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPublicStats outputs the anonymized aggregate.
func (p *Printer) PrintPublicStats(stats types.PublicStats) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Quizzes completed:  %d\n", stats.TotalMatches)
	fmt.Fprintf(&sb, "Average answered:   %.1f\n", stats.AverageQuestions)

	if len(stats.TopResults) > 0 {
		sb.WriteString("\nMost common top matches:\n")
		for _, r := range stats.TopResults {
			fmt.Fprintf(&sb, "  #%d  %5.1f%%  (%d)\n", r.Rank, r.Percentage, r.Count)
		}
	}

	p.printBox("MATCH STATISTICS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDisclosedStats outputs per-candidate counts.
func (p *Printer) PrintDisclosedStats(stats types.DisclosedStats) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Quizzes completed:  %d\n", stats.TotalMatches)
	fmt.Fprintf(&sb, "Average answered:   %.1f\n", stats.AverageQuestions)

	if len(stats.Candidates) > 0 {
		sb.WriteString("\n")
		for _, c := range stats.Candidates {
			name := c.Name
			if name == "" {
				name = c.CandidateID
			}
			fmt.Fprintf(&sb, "  %-30s %5.1f%%  (%d)\n", truncate(name, 30), c.Percentage, c.Count)
		}
	}

	p.printBox("RESULTS BY CANDIDATE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidationReport outputs how many catalog records of one kind were
// dropped and why. Nothing is printed for a clean report.
func (p *Printer) PrintValidationReport(kind string, report validation.Report) {
	if report.Dropped == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Dropped %d of %d %s:\n", report.Dropped, report.Total, kind)

	reasons := make([]string, 0, len(report.Reasons))
	for reason := range report.Reasons {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool {
		a, b := report.Reasons[reasons[i]], report.Reasons[reasons[j]]
		if a != b {
			return a > b
		}
		return reasons[i] < reasons[j]
	})

	count := min(len(reasons), maxItemsToShow)
	for i := 0; i < count; i++ {
		fmt.Fprintf(&sb, "  ⚠ %s (%d)\n", reasons[i], report.Reasons[reasons[i]])
	}
	if len(reasons) > maxItemsToShow {
		fmt.Fprintf(&sb, "  ... and %d more\n", len(reasons)-maxItemsToShow)
	}

	p.printBox("CATALOG WARNINGS", strings.TrimSuffix(sb.String(), "\n"))
}
