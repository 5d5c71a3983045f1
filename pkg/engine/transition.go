package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notahq/nota/pkg/core"
)

// Outcome is the per-id result of a batch transition. Err is nil on
// success; NextID/NextDate are set when completing a recurring nota
// spawned a new occurrence.
type Outcome struct {
	ID       string
	From     core.Status
	To       core.Status
	Err      error
	NextID   string
	NextDate core.Date
}

// OK reports whether this item succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Transition moves each id to newStatus independently: one id's failure
// never rolls back another's success. Batch-level arguments (the status
// and the optional start date) are validated once, up front.
func (e *Engine) Transition(ids []string, newStatus string, startDate string) ([]Outcome, error) {
	if len(ids) == 0 {
		return nil, errors.New("no ids provided; specify at least one item id")
	}

	status, err := core.ParseStatus(newStatus)
	if err != nil {
		return nil, err
	}

	var newDate *core.Date
	if startDate != "" {
		d, err := core.CheckDate(startDate)
		if err != nil {
			return nil, err
		}
		newDate = &d
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	outcomes := make([]Outcome, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		outcomes = append(outcomes, e.transitionOne(id, status, newDate))
	}
	return outcomes, nil
}

// transitionOne validates everything for a single item before touching
// it, so a failing item is left exactly as it was.
func (e *Engine) transitionOne(id string, status core.Status, newDate *core.Date) Outcome {
	store := e.ds.Store
	out := Outcome{ID: id, To: status}

	nota, err := store.Get(id)
	if err != nil {
		out.Err = err
		return out
	}
	out.From = nota.Status

	if status == core.StatusCalendar && newDate == nil && nota.StartDate == nil {
		out.Err = &core.MissingFieldError{ID: id, Field: "start_date"}
		return out
	}

	if status == core.StatusTrash {
		if err := core.CheckNotReferenced(store, id); err != nil {
			out.Err = err
			return out
		}
	}

	today := e.now()

	// Completing a recurring nota spawns the next occurrence. Both the
	// config and the synthetic id are checked before any mutation;
	// a clash on the synthetic id fails this item outright rather than
	// silently skipping the occurrence.
	var next *core.Nota
	if status == core.StatusDone && nota.IsRecurring() {
		from := today
		switch {
		case newDate != nil:
			from = *newDate
		case nota.StartDate != nil:
			from = *nota.StartDate
		}
		nextDate, err := core.NextOccurrence(nota.RecurrencePattern, nota.RecurrenceConfig, from)
		if err != nil {
			out.Err = err
			return out
		}
		nextID := fmt.Sprintf("%s-%s", id, nextDate.Compact())
		if existing, ok := store.StatusOf(nextID); ok {
			out.Err = &core.DuplicateIDError{ID: nextID, Existing: existing}
			return out
		}
		occurrence := nota
		occurrence.ID = nextID
		occurrence.Status = out.From // the pre-done status
		occurrence.StartDate = &nextDate
		occurrence.CreatedAt = today
		occurrence.UpdatedAt = today
		next = &occurrence
		out.NextID = nextID
		out.NextDate = nextDate
	}

	nota.Status = status
	if newDate != nil {
		nota.StartDate = newDate
	}
	nota.UpdatedAt = today
	if err := store.Update(id, nota); err != nil {
		out.Err = err
		return out
	}
	if next != nil {
		if err := store.Insert(*next); err != nil {
			out.Err = err
			return out
		}
		if e.logger != nil {
			e.logger.Debug("created next occurrence", "id", next.ID, "date", next.StartDate)
		}
	}
	return out
}
