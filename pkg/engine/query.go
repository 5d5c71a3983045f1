package engine

import (
	"iter"
	"sort"
	"strings"

	"github.com/notahq/nota/pkg/core"
)

// Filter selects notas for a query. Filters compose conjunctively; empty
// fields don't constrain. Date only matters combined with
// Status=calendar: it hides calendar notas scheduled after the given
// date. ExcludeNotes is a projection flag — matching notas are yielded
// with their notes blanked, it removes nothing from the result set.
type Filter struct {
	Status       string
	Date         string
	Keyword      string
	Project      string
	Context      string
	ExcludeNotes bool
}

// Query returns a lazy, restartable sequence of matching notas. Each
// range over the sequence snapshots the store, so iteration never holds
// the engine lock and the caller may invoke operations mid-loop.
//
// Ordering: canonical status order first (actionable statuses before
// done/reference, trash last), creation order within a status.
func (e *Engine) Query(f Filter) (iter.Seq[core.Nota], error) {
	var status core.Status
	if f.Status != "" {
		parsed, err := core.ParseStatus(f.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	var date core.Date
	if f.Date != "" {
		parsed, err := core.CheckDate(f.Date)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	keyword := strings.ToLower(f.Keyword)

	return func(yield func(core.Nota) bool) {
		e.mu.Lock()
		notas := e.ds.Store.All()
		e.mu.Unlock()

		sort.SliceStable(notas, func(i, j int) bool {
			return notas[i].Status.Rank() < notas[j].Status.Rank()
		})

		for _, n := range notas {
			if status != "" && n.Status != status {
				continue
			}
			if !date.IsZero() && n.Status == core.StatusCalendar &&
				n.StartDate != nil && n.StartDate.After(date) {
				continue
			}
			if keyword != "" && !matchKeyword(n, keyword) {
				continue
			}
			if f.Project != "" && n.Project != f.Project {
				continue
			}
			if f.Context != "" && n.Context != f.Context {
				continue
			}
			if f.ExcludeNotes {
				n.Notes = ""
			}
			if !yield(n) {
				return
			}
		}
	}, nil
}

// matchKeyword does a case-insensitive substring match against id,
// title, and notes. A nota without notes never matches on notes.
func matchKeyword(n core.Nota, keyword string) bool {
	return strings.Contains(strings.ToLower(n.ID), keyword) ||
		strings.Contains(strings.ToLower(n.Title), keyword) ||
		strings.Contains(strings.ToLower(n.Notes), keyword)
}
