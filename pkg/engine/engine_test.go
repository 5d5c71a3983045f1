package engine_test

import (
	"errors"
	"testing"

	"github.com/notahq/nota/pkg/core"
	"github.com/notahq/nota/pkg/engine"
)

// fixedNow pins the engine clock; 2025-10-27 is a Monday.
func fixedNow(t *testing.T, s string) func() core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return func() core.Date { return d }
}

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(engine.WithNow(fixedNow(t, "2025-10-27")))
}

func capture(t *testing.T, e *engine.Engine, in engine.CaptureInput) core.Nota {
	t.Helper()
	n, err := e.Capture(in)
	if err != nil {
		t.Fatalf("Capture(%s): %v", in.ID, err)
	}
	return n
}

func collect(t *testing.T, e *engine.Engine, f engine.Filter) []core.Nota {
	t.Helper()
	seq, err := e.Query(f)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	var out []core.Nota
	for n := range seq {
		out = append(out, n)
	}
	return out
}

func TestCaptureDefaultsToInbox(t *testing.T) {
	e := newEngine(t)
	n := capture(t, e, engine.CaptureInput{ID: "t-1", Title: "Call the bank"})
	if n.Status != core.StatusInbox {
		t.Errorf("status = %s, want inbox", n.Status)
	}
	if n.CreatedAt.String() != "2025-10-27" || n.UpdatedAt != n.CreatedAt {
		t.Errorf("timestamps not stamped from the clock: %v / %v", n.CreatedAt, n.UpdatedAt)
	}
}

func TestCaptureValidation(t *testing.T) {
	e := newEngine(t)
	capture(t, e, engine.CaptureInput{ID: "t-1", Title: "Existing"})

	tests := []struct {
		name string
		in   engine.CaptureInput
		want error
	}{
		{"duplicate id", engine.CaptureInput{ID: "t-1", Title: "Again"}, core.ErrDuplicateID},
		{"unknown status", engine.CaptureInput{ID: "t-2", Status: "urgent"}, core.ErrInvalidStatus},
		{"calendar without date", engine.CaptureInput{ID: "t-2", Status: "calendar"}, core.ErrMissingField},
		{"bad date", engine.CaptureInput{ID: "t-2", Status: "calendar", StartDate: "27/10/2025"}, core.ErrInvalidDate},
		{"dangling project", engine.CaptureInput{ID: "t-2", Project: "nope"}, core.ErrInvalidReference},
		{"dangling context", engine.CaptureInput{ID: "t-2", Context: "nope"}, core.ErrInvalidReference},
		{"bad recurrence", engine.CaptureInput{ID: "t-2", Recurrence: "hourly"}, core.ErrInvalidRecurrence},
		{"weekly without config", engine.CaptureInput{ID: "t-2", Recurrence: "weekly"}, core.ErrInvalidRecurrence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.Capture(tt.in); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	// Every rejected capture left the store untouched.
	if e.Len() != 1 {
		t.Errorf("Len = %d after rejected captures, want 1", e.Len())
	}
}

func TestCaptureReferences(t *testing.T) {
	e := newEngine(t)
	capture(t, e, engine.CaptureInput{ID: "website", Title: "Website relaunch", Status: "project"})
	capture(t, e, engine.CaptureInput{ID: "office", Title: "At the office", Status: "context"})

	n := capture(t, e, engine.CaptureInput{
		ID: "t-1", Title: "Draft copy", Status: "next_action",
		Project: "website", Context: "office",
	})
	if n.Project != "website" || n.Context != "office" {
		t.Errorf("references not kept: %+v", n)
	}

	// A project id is not acceptable where a context is expected.
	_, err := e.Capture(engine.CaptureInput{ID: "t-2", Context: "website"})
	if !errors.Is(err, core.ErrInvalidReference) {
		t.Errorf("expected invalid reference error, got %v", err)
	}
}

func TestCaptureNormalizesNotes(t *testing.T) {
	e := newEngine(t)
	n := capture(t, e, engine.CaptureInput{ID: "t-1", Title: "x", Notes: "a\r\nb\rc"})
	if n.Notes != "a\nb\nc" {
		t.Errorf("notes = %q", n.Notes)
	}
}

func TestModify(t *testing.T) {
	e := newEngine(t)
	capture(t, e, engine.CaptureInput{ID: "website", Title: "Website relaunch", Status: "project"})
	capture(t, e, engine.CaptureInput{ID: "t-1", Title: "Draft copy", Project: "website", Notes: "old"})

	title := "Draft landing copy"
	clear := ""
	n, err := e.Modify("t-1", engine.ModifyInput{Title: &title, Notes: &clear})
	if err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
	if n.Title != title {
		t.Errorf("title = %q", n.Title)
	}
	if n.Notes != "" {
		t.Errorf("empty value should clear notes, got %q", n.Notes)
	}
	if n.Project != "website" {
		t.Errorf("untouched field changed: %q", n.Project)
	}

	// Explicitly clearing the project works too.
	n, err = e.Modify("t-1", engine.ModifyInput{Project: &clear})
	if err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
	if n.Project != "" {
		t.Errorf("project not cleared: %q", n.Project)
	}
}

func TestModifyUnknownID(t *testing.T) {
	e := newEngine(t)
	title := "x"
	if _, err := e.Modify("ghost", engine.ModifyInput{Title: &title}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestModifyCalendarInvariant(t *testing.T) {
	e := newEngine(t)
	capture(t, e, engine.CaptureInput{ID: "t-1", Title: "Dentist", Status: "calendar", StartDate: "2025-11-03"})

	// Clearing the start date of a calendar nota violates the invariant.
	clear := ""
	if _, err := e.Modify("t-1", engine.ModifyInput{StartDate: &clear}); !errors.Is(err, core.ErrMissingField) {
		t.Errorf("expected missing field error, got %v", err)
	}

	// And so does moving a dateless nota to calendar.
	capture(t, e, engine.CaptureInput{ID: "t-2", Title: "Someday"})
	status := "calendar"
	if _, err := e.Modify("t-2", engine.ModifyInput{Status: &status}); !errors.Is(err, core.ErrMissingField) {
		t.Errorf("expected missing field error, got %v", err)
	}

	// A failed modify changes nothing.
	n, err := e.Get("t-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if n.StartDate == nil {
		t.Errorf("failed modify cleared the start date")
	}
}

func TestModifyStatusDoesNotSpawnOccurrence(t *testing.T) {
	e := newEngine(t)
	capture(t, e, engine.CaptureInput{ID: "t-1", Title: "Standup", Recurrence: "daily"})

	status := "done"
	if _, err := e.Modify("t-1", engine.ModifyInput{Status: &status}); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
	if e.Len() != 1 {
		t.Errorf("field edit spawned an occurrence; Len = %d", e.Len())
	}
}

func TestTransitionBatchIndependence(t *testing.T) {
	e := newEngine(t)
	capture(t, e, engine.CaptureInput{ID: "t-1", Title: "One"})
	capture(t, e, engine.CaptureInput{ID: "t-2", Title: "Two"})

	outcomes, err := e.Transition([]string{"t-1", "ghost", "t-2"}, "next_action", "")
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes", len(outcomes))
	}
	if !outcomes[0].OK() || !outcomes[2].OK() {
		t.Errorf("valid ids should succeed: %+v", outcomes)
	}
	if !errors.Is(outcomes[1].Err, core.ErrNotFound) {
		t.Errorf("ghost outcome = %v", outcomes[1].Err)
	}

	// The failure in the middle did not stop the rest.
	n, _ := e.Get("t-2")
	if n.Status != core.StatusNextAction {
		t.Errorf("t-2 status = %s", n.Status)
	}
}

func TestTransitionBatchArgs(t *testing.T) {
	e := newEngine(t)
	if _, err := e.Transition(nil, "done", ""); err == nil {
		t.Error("empty id list should fail")
	}
	if _, err := e.Transition([]string{"t-1"}, "urgent", ""); !errors.Is(err, core.ErrInvalidStatus) {
		t.Errorf("expected invalid status error, got %v", err)
	}
	if _, err := e.Transition([]string{"t-1"}, "calendar", "someday"); !errors.Is(err, core.ErrInvalidDate) {
		t.Errorf("expected invalid date error, got %v", err)
	}
}

func TestTransitionToCalendar(t *testing.T) {
	e := newEngine(t)
	capture(t, e, engine.CaptureInput{ID: "t-1", Title: "Dentist"})

	outcomes, err := e.Transition([]string{"t-1"}, "calendar", "")
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if !errors.Is(outcomes[0].Err, core.ErrMissingField) {
		t.Errorf("dateless calendar move should fail per item, got %v", outcomes[0].Err)
	}

	outcomes, err = e.Transition([]string{"t-1"}, "calendar", "2025-11-03")
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if !outcomes[0].OK() {
		t.Fatalf("outcome: %v", outcomes[0].Err)
	}
	n, _ := e.Get("t-1")
	if n.Status != core.StatusCalendar || n.StartDate == nil || n.StartDate.String() != "2025-11-03" {
		t.Errorf("calendar move wrong: %+v", n)
	}

	// A calendar nota keeps its date on a dateless re-transition.
	e.Transition([]string{"t-1"}, "later", "")
	outcomes, _ = e.Transition([]string{"t-1"}, "calendar", "")
	if !outcomes[0].OK() {
		t.Errorf("existing start date should satisfy the calendar move: %v", outcomes[0].Err)
	}
}

func TestTransitionTrashProtection(t *testing.T) {
	e := newEngine(t)
	capture(t, e, engine.CaptureInput{ID: "website", Title: "Website relaunch", Status: "project"})
	capture(t, e, engine.CaptureInput{ID: "t-1", Title: "Draft copy", Project: "website"})

	outcomes, err := e.Transition([]string{"website"}, "trash", "")
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if !errors.Is(outcomes[0].Err, core.ErrStillReferenced) {
		t.Errorf("referenced project should not be trashable, got %v", outcomes[0].Err)
	}

	// Retargeting the referrer unblocks the trash move.
	clear := ""
	if _, err := e.Modify("t-1", engine.ModifyInput{Project: &clear}); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
	outcomes, _ = e.Transition([]string{"website"}, "trash", "")
	if !outcomes[0].OK() {
		t.Errorf("unreferenced project should be trashable: %v", outcomes[0].Err)
	}
}

func TestTransitionRecurrence(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		config    string
		startDate string
		wantDate  string
	}{
		{"daily", "daily", "", "2025-10-27", "2025-10-28"},
		{"weekly", "weekly", "Monday,Thursday", "2025-10-27", "2025-10-30"},
		{"monthly", "monthly", "1,15", "2025-10-27", "2025-11-01"},
		{"yearly", "yearly", "12-25", "2025-10-27", "2025-12-25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t)
			capture(t, e, engine.CaptureInput{
				ID: "habit", Title: "Routine", Status: "next_action",
				StartDate: tt.startDate, Recurrence: tt.pattern, RecurrenceConfig: tt.config,
			})

			outcomes, err := e.Transition([]string{"habit"}, "done", "")
			if err != nil {
				t.Fatalf("Transition failed: %v", err)
			}
			out := outcomes[0]
			if !out.OK() {
				t.Fatalf("outcome: %v", out.Err)
			}

			wantID := "habit-" + tt.wantDate[:4] + tt.wantDate[5:7] + tt.wantDate[8:]
			if out.NextID != wantID {
				t.Errorf("NextID = %s, want %s", out.NextID, wantID)
			}
			if out.NextDate.String() != tt.wantDate {
				t.Errorf("NextDate = %s, want %s", out.NextDate, tt.wantDate)
			}

			next, err := e.Get(wantID)
			if err != nil {
				t.Fatalf("occurrence not inserted: %v", err)
			}
			if next.Status != core.StatusNextAction {
				t.Errorf("occurrence status = %s, want the pre-done status", next.Status)
			}
			if next.StartDate == nil || next.StartDate.String() != tt.wantDate {
				t.Errorf("occurrence start date = %v", next.StartDate)
			}
			if next.RecurrencePattern == "" {
				t.Errorf("occurrence should stay recurring")
			}

			done, _ := e.Get("habit")
			if done.Status != core.StatusDone {
				t.Errorf("original status = %s, want done", done.Status)
			}
		})
	}
}

func TestTransitionRecurrenceIDClash(t *testing.T) {
	e := newEngine(t)
	capture(t, e, engine.CaptureInput{
		ID: "habit", Title: "Routine", StartDate: "2025-10-27", Recurrence: "daily",
	})
	capture(t, e, engine.CaptureInput{ID: "habit-20251028", Title: "Squatter"})

	outcomes, err := e.Transition([]string{"habit"}, "done", "")
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if !errors.Is(outcomes[0].Err, core.ErrDuplicateID) {
		t.Fatalf("expected duplicate id error, got %v", outcomes[0].Err)
	}

	// The clash left the original untouched.
	n, _ := e.Get("habit")
	if n.Status != core.StatusInbox {
		t.Errorf("failed completion changed the original: %s", n.Status)
	}
}

func TestTransitionRecurrenceFallsBackToToday(t *testing.T) {
	// No start date anywhere: the clock (2025-10-27) seeds the scan.
	e := newEngine(t)
	capture(t, e, engine.CaptureInput{ID: "habit", Title: "Routine", Recurrence: "daily"})

	outcomes, _ := e.Transition([]string{"habit"}, "done", "")
	if outcomes[0].NextID != "habit-20251028" {
		t.Errorf("NextID = %s", outcomes[0].NextID)
	}
}

func TestPurgeTrash(t *testing.T) {
	e := newEngine(t)
	capture(t, e, engine.CaptureInput{ID: "website", Title: "Website relaunch", Status: "project"})
	capture(t, e, engine.CaptureInput{ID: "t-1", Title: "Draft copy", Project: "website"})
	capture(t, e, engine.CaptureInput{ID: "old", Title: "Obsolete"})
	e.Transition([]string{"old"}, "trash", "")

	// A trashed project still referenced by a live task is blocked. The
	// field-edit path does not guard the trash move, so this state is
	// reachable.
	status := "trash"
	if _, err := e.Modify("website", engine.ModifyInput{Status: &status}); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}

	report, err := e.PurgeTrash()
	if err != nil {
		t.Fatalf("PurgeTrash failed: %v", err)
	}
	if len(report.Removed) != 1 || report.Removed[0] != "old" {
		t.Errorf("Removed = %v", report.Removed)
	}
	if len(report.Blocked) != 1 || report.Blocked[0].ID != "website" || report.Blocked[0].Referrer != "t-1" {
		t.Errorf("Blocked = %v", report.Blocked)
	}
	if _, err := e.Get("website"); err != nil {
		t.Errorf("blocked nota should survive the purge: %v", err)
	}

	// Trashing the referrer unblocks the next sweep.
	e.Transition([]string{"t-1"}, "trash", "")
	report, err = e.PurgeTrash()
	if err != nil {
		t.Fatalf("PurgeTrash failed: %v", err)
	}
	if len(report.Removed) != 2 || len(report.Blocked) != 0 {
		t.Errorf("second sweep: %+v", report)
	}
	if e.Len() != 0 {
		t.Errorf("Len = %d after full purge", e.Len())
	}
}

func TestQueryOrderingAndFilters(t *testing.T) {
	e := newEngine(t)
	capture(t, e, engine.CaptureInput{ID: "website", Title: "Website relaunch", Status: "project"})
	capture(t, e, engine.CaptureInput{ID: "t-1", Title: "Draft copy", Status: "next_action", Project: "website", Notes: "hero section"})
	capture(t, e, engine.CaptureInput{ID: "t-2", Title: "Old idea", Status: "someday"})
	capture(t, e, engine.CaptureInput{ID: "junk", Title: "Junk", Status: "trash"})
	capture(t, e, engine.CaptureInput{ID: "t-3", Title: "Inbox item"})

	all := collect(t, e, engine.Filter{})
	if len(all) != 5 {
		t.Fatalf("got %d notas", len(all))
	}
	if all[0].ID != "t-3" {
		t.Errorf("inbox should sort first, got %s", all[0].ID)
	}
	if all[len(all)-1].ID != "junk" {
		t.Errorf("trash should sort last, got %s", all[len(all)-1].ID)
	}

	if got := collect(t, e, engine.Filter{Status: "next_action"}); len(got) != 1 || got[0].ID != "t-1" {
		t.Errorf("status filter: %v", got)
	}
	if got := collect(t, e, engine.Filter{Project: "website"}); len(got) != 1 || got[0].ID != "t-1" {
		t.Errorf("project filter: %v", got)
	}
	if got := collect(t, e, engine.Filter{Keyword: "HERO"}); len(got) != 1 || got[0].ID != "t-1" {
		t.Errorf("keyword should match notes case-insensitively: %v", got)
	}
	if got := collect(t, e, engine.Filter{Keyword: "relaunch", Status: "project"}); len(got) != 1 {
		t.Errorf("filters should compose: %v", got)
	}
	if got := collect(t, e, engine.Filter{Keyword: "nothing-matches"}); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}

	if _, err := e.Query(engine.Filter{Status: "urgent"}); !errors.Is(err, core.ErrInvalidStatus) {
		t.Errorf("expected invalid status error, got %v", err)
	}
}

func TestQueryDateHidesFutureCalendar(t *testing.T) {
	e := newEngine(t)
	capture(t, e, engine.CaptureInput{ID: "soon", Title: "Soon", Status: "calendar", StartDate: "2025-10-30"})
	capture(t, e, engine.CaptureInput{ID: "far", Title: "Far", Status: "calendar", StartDate: "2025-12-01"})

	got := collect(t, e, engine.Filter{Status: "calendar", Date: "2025-11-01"})
	if len(got) != 1 || got[0].ID != "soon" {
		t.Errorf("date filter should hide future calendar items: %v", got)
	}
}

func TestQueryExcludeNotes(t *testing.T) {
	e := newEngine(t)
	capture(t, e, engine.CaptureInput{ID: "t-1", Title: "x", Notes: "secret"})

	got := collect(t, e, engine.Filter{ExcludeNotes: true})
	if len(got) != 1 || got[0].Notes != "" {
		t.Errorf("notes should be blanked: %v", got)
	}

	// The projection is per-query; the stored nota keeps its notes.
	n, _ := e.Get("t-1")
	if n.Notes != "secret" {
		t.Errorf("stored notes lost: %q", n.Notes)
	}
}

func TestQueryIsRestartable(t *testing.T) {
	e := newEngine(t)
	capture(t, e, engine.CaptureInput{ID: "t-1", Title: "x"})

	seq, err := e.Query(engine.Filter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	first := 0
	for range seq {
		first++
	}
	capture(t, e, engine.CaptureInput{ID: "t-2", Title: "y"})
	second := 0
	for range seq {
		second++
	}
	if first != 1 || second != 2 {
		t.Errorf("each iteration should snapshot fresh: %d then %d", first, second)
	}
}

func TestEncodeReloadRoundTrip(t *testing.T) {
	e := newEngine(t)
	capture(t, e, engine.CaptureInput{ID: "website", Title: "Website relaunch", Status: "project"})
	capture(t, e, engine.CaptureInput{ID: "t-1", Title: "Draft copy", Project: "website"})

	data, err := e.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	loaded, err := engine.Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Len() != 2 {
		t.Errorf("Len = %d after reload", loaded.Len())
	}
	n, err := loaded.Get("t-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if n.Project != "website" || n.Status != core.StatusInbox {
		t.Errorf("round trip lost fields: %+v", n)
	}
}
