package core

import (
	"errors"
	"fmt"
	"strings"
)

// Category sentinels. Every typed error below matches exactly one of
// these through errors.Is, so callers can branch on the category without
// caring about the detail fields.
var (
	ErrDuplicateID       = errors.New("duplicate id")
	ErrNotFound          = errors.New("not found")
	ErrInvalidReference  = errors.New("invalid reference")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidDate       = errors.New("invalid date format")
	ErrMissingField      = errors.New("missing required field")
	ErrStillReferenced   = errors.New("referential integrity violation")
	ErrInvalidRecurrence = errors.New("invalid recurrence config")
)

// DuplicateIDError reports an insert that would violate id uniqueness.
type DuplicateIDError struct {
	ID       string
	Existing Status
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("id %q already exists (status: %s); every item needs a unique id, choose a different one", e.ID, e.Existing)
}

func (e *DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }

// NotFoundError reports a lookup of an id that is not in the store.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item %q does not exist", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ReferenceError reports a project or context reference that names a
// missing nota or a nota of the wrong kind. Available lists the ids that
// would have been valid, so the message can steer the caller.
type ReferenceError struct {
	Kind      Kind // expected kind of the referenced nota
	ID        string
	Available []string
}

func (e *ReferenceError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("%s %q does not exist; no %ss have been created yet, capture one first with status=%q",
			e.Kind, e.ID, e.Kind, string(e.Kind))
	}
	return fmt.Sprintf("%s %q does not exist; available %ss: %s",
		e.Kind, e.ID, e.Kind, strings.Join(e.Available, ", "))
}

func (e *ReferenceError) Is(target error) bool { return target == ErrInvalidReference }

// StatusError reports a status string outside the known set.
type StatusError struct {
	Value string
}

func (e *StatusError) Error() string {
	valid := make([]string, len(StatusOrder))
	for i, s := range StatusOrder {
		valid[i] = string(s)
	}
	return fmt.Sprintf("invalid status %q; valid statuses: %s", e.Value, strings.Join(valid, ", "))
}

func (e *StatusError) Is(target error) bool { return target == ErrInvalidStatus }

// DateError reports an unparsable date string.
type DateError struct {
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %q; use YYYY-MM-DD (e.g. 2025-03-15)", e.Value)
}

func (e *DateError) Is(target error) bool { return target == ErrInvalidDate }

// MissingFieldError reports a required field that could not be resolved,
// such as a calendar transition with no start date anywhere.
type MissingFieldError struct {
	ID    string
	Field string
}

func (e *MissingFieldError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("status=calendar requires %s in YYYY-MM-DD format", e.Field)
	}
	return fmt.Sprintf("%s: calendar status requires a %s", e.ID, e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// ReferencedError reports an attempt to trash or purge a nota that other
// notas still point at. Referrer names one of them.
type ReferencedError struct {
	ID       string
	Referrer string
}

func (e *ReferencedError) Error() string {
	return fmt.Sprintf("%q is still referenced by %q; retarget or trash the referrer first", e.ID, e.Referrer)
}

func (e *ReferencedError) Is(target error) bool { return target == ErrStillReferenced }

// RecurrenceConfigError reports a recurrence config that does not match
// the grammar its pattern expects.
type RecurrenceConfigError struct {
	Pattern RecurrencePattern
	Config  string
	Hint    string
}

func (e *RecurrenceConfigError) Error() string {
	return fmt.Sprintf("invalid recurrence config %q for pattern %q: %s", e.Config, e.Pattern, e.Hint)
}

func (e *RecurrenceConfigError) Is(target error) bool { return target == ErrInvalidRecurrence }
