package dispatch

import (
	"fmt"
	"iter"
	"strings"

	"github.com/notahq/nota/pkg/core"
	"github.com/notahq/nota/pkg/engine"
)

// renderNotas formats a query result for display. Notes have already
// been projected away by the engine when the caller asked for that.
func renderNotas(seq iter.Seq[core.Nota]) string {
	var b strings.Builder
	count := 0
	for n := range seq {
		count++
		fmt.Fprintf(&b, "- [%s] %s (status: %s, type: %s)\n", n.ID, n.Title, n.Status, n.Kind())
		if n.Project != "" {
			fmt.Fprintf(&b, "  Project: %s\n", n.Project)
		}
		if n.Context != "" {
			fmt.Fprintf(&b, "  Context: %s\n", n.Context)
		}
		if n.Notes != "" {
			fmt.Fprintf(&b, "  Notes: %s\n", n.Notes)
		}
		if n.StartDate != nil {
			fmt.Fprintf(&b, "  Start date: %s\n", n.StartDate)
		}
		fmt.Fprintf(&b, "  Created: %s\n", n.CreatedAt)
		fmt.Fprintf(&b, "  Updated: %s\n", n.UpdatedAt)
	}
	if count == 0 {
		return "No items found"
	}
	return fmt.Sprintf("Found %d item(s):\n\n%s", count, strings.TrimRight(b.String(), "\n"))
}

// renderOutcomes formats per-item transition results: successes first,
// then failures, each on its own line.
func renderOutcomes(outcomes []engine.Outcome) string {
	var ok, failed []engine.Outcome
	for _, o := range outcomes {
		if o.OK() {
			ok = append(ok, o)
		} else {
			failed = append(failed, o)
		}
	}

	var b strings.Builder
	if len(ok) > 0 {
		fmt.Fprintf(&b, "Successfully changed status for %d item%s:\n", len(ok), plural(len(ok)))
		for _, o := range ok {
			fmt.Fprintf(&b, "- %s: %s -> %s\n", o.ID, o.From, o.To)
			if o.NextID != "" {
				fmt.Fprintf(&b, "  Next occurrence created: %s on %s\n", o.NextID, o.NextDate)
			}
		}
	}
	if len(failed) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Failed to change status for %d item%s:\n", len(failed), plural(len(failed)))
		for _, o := range failed {
			fmt.Fprintf(&b, "- %s: %v\n", o.ID, o.Err)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderPurge formats a purge report, naming the referrer for every
// blocked nota.
func renderPurge(report engine.PurgeReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Deleted %d item(s) from trash", len(report.Removed))
	if len(report.Blocked) > 0 {
		fmt.Fprintf(&b, "\nLeft in trash (%d still referenced):\n", len(report.Blocked))
		for _, blocked := range report.Blocked {
			fmt.Fprintf(&b, "- %s: referenced by %s\n", blocked.ID, blocked.Referrer)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
