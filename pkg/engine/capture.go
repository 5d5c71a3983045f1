package engine

import (
	"github.com/notahq/nota/pkg/core"
)

// CaptureInput carries the raw, caller-supplied fields of a new nota.
// The id is chosen by the caller and immutable afterwards. Optional
// fields are empty strings.
type CaptureInput struct {
	ID               string
	Title            string
	Status           string
	Project          string
	Context          string
	Notes            string
	StartDate        string
	Recurrence       string
	RecurrenceConfig string
}

// Capture validates and inserts a new nota. Every check runs before the
// insert: a failure leaves the store unchanged.
func (e *Engine) Capture(in CaptureInput) (core.Nota, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	store := e.ds.Store
	if existing, ok := store.StatusOf(in.ID); ok {
		return core.Nota{}, &core.DuplicateIDError{ID: in.ID, Existing: existing}
	}

	// An empty status lands the nota in the inbox.
	status := core.StatusInbox
	if in.Status != "" {
		var err error
		status, err = core.ParseStatus(in.Status)
		if err != nil {
			return core.Nota{}, err
		}
	}

	if status == core.StatusCalendar && in.StartDate == "" {
		return core.Nota{}, &core.MissingFieldError{Field: "start_date"}
	}

	var startDate *core.Date
	if in.StartDate != "" {
		d, err := core.CheckDate(in.StartDate)
		if err != nil {
			return core.Nota{}, err
		}
		startDate = &d
	}

	if in.Project != "" {
		if err := core.CheckReference(store, in.Project, core.KindProject); err != nil {
			return core.Nota{}, err
		}
	}
	if in.Context != "" {
		if err := core.CheckReference(store, in.Context, core.KindContext); err != nil {
			return core.Nota{}, err
		}
	}

	var pattern core.RecurrencePattern
	if in.Recurrence != "" {
		p, err := core.ParseRecurrencePattern(in.Recurrence)
		if err != nil {
			return core.Nota{}, err
		}
		if err := core.CheckRecurrenceConfig(p, in.RecurrenceConfig); err != nil {
			return core.Nota{}, err
		}
		pattern = p
	}

	today := e.now()
	nota := core.Nota{
		ID:                in.ID,
		Title:             in.Title,
		Status:            status,
		Project:           in.Project,
		Context:           in.Context,
		Notes:             core.NormalizeLineEndings(in.Notes),
		StartDate:         startDate,
		CreatedAt:         today,
		UpdatedAt:         today,
		RecurrencePattern: pattern,
		RecurrenceConfig:  in.RecurrenceConfig,
	}
	if err := store.Insert(nota); err != nil {
		return core.Nota{}, err
	}
	if e.logger != nil {
		e.logger.Debug("captured nota", "id", nota.ID, "status", nota.Status)
	}
	return nota, nil
}
