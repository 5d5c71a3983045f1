package engine

import (
	"github.com/notahq/nota/pkg/core"
)

// ModifyInput is a partial field set. A nil pointer leaves the field
// untouched; an empty string on an optional field clears it. The id is
// immutable and therefore absent.
type ModifyInput struct {
	Title            *string
	Status           *string
	Project          *string
	Context          *string
	Notes            *string
	StartDate        *string
	Recurrence       *string
	RecurrenceConfig *string
}

// Modify applies the supplied fields to an existing nota, re-validating
// every field that changed. Changing status here transforms the nota's
// kind exactly as a transition would, but never generates a recurrence
// occurrence.
func (e *Engine) Modify(id string, in ModifyInput) (core.Nota, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	store := e.ds.Store
	nota, err := store.Get(id)
	if err != nil {
		return core.Nota{}, err
	}

	if in.Title != nil {
		nota.Title = *in.Title
	}

	if in.Status != nil {
		status, err := core.ParseStatus(*in.Status)
		if err != nil {
			return core.Nota{}, err
		}
		nota.Status = status
	}

	if in.Project != nil {
		if *in.Project == "" {
			nota.Project = ""
		} else {
			if err := core.CheckReference(store, *in.Project, core.KindProject); err != nil {
				return core.Nota{}, err
			}
			nota.Project = *in.Project
		}
	}

	if in.Context != nil {
		if *in.Context == "" {
			nota.Context = ""
		} else {
			if err := core.CheckReference(store, *in.Context, core.KindContext); err != nil {
				return core.Nota{}, err
			}
			nota.Context = *in.Context
		}
	}

	if in.Notes != nil {
		nota.Notes = core.NormalizeLineEndings(*in.Notes)
	}

	if in.StartDate != nil {
		if *in.StartDate == "" {
			nota.StartDate = nil
		} else {
			d, err := core.CheckDate(*in.StartDate)
			if err != nil {
				return core.Nota{}, err
			}
			nota.StartDate = &d
		}
	}

	if in.Recurrence != nil {
		if *in.Recurrence == "" {
			nota.RecurrencePattern = ""
		} else {
			pattern, err := core.ParseRecurrencePattern(*in.Recurrence)
			if err != nil {
				return core.Nota{}, err
			}
			nota.RecurrencePattern = pattern
		}
	}
	if in.RecurrenceConfig != nil {
		nota.RecurrenceConfig = *in.RecurrenceConfig
	}
	if nota.RecurrencePattern != "" && (in.Recurrence != nil || in.RecurrenceConfig != nil) {
		if err := core.CheckRecurrenceConfig(nota.RecurrencePattern, nota.RecurrenceConfig); err != nil {
			return core.Nota{}, err
		}
	}

	// The calendar invariant is checked on the merged result: a status
	// change to calendar and a cleared start date both surface here.
	if nota.Status == core.StatusCalendar && nota.StartDate == nil {
		return core.Nota{}, &core.MissingFieldError{ID: id, Field: "start_date"}
	}

	nota.UpdatedAt = e.now()
	if err := store.Update(id, nota); err != nil {
		return core.Nota{}, err
	}
	if e.logger != nil {
		e.logger.Debug("modified nota", "id", id)
	}
	return nota, nil
}
