package core_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/notahq/nota/pkg/core"
)

func seedStore(t *testing.T) *core.Store {
	t.Helper()
	s := core.NewStore()
	notas := []core.Nota{
		{ID: "website", Title: "Website relaunch", Status: core.StatusProject},
		{ID: "home", Title: "At home", Status: core.StatusContext},
		{ID: "t-1", Title: "Draft copy", Status: core.StatusNextAction, Project: "website"},
		{ID: "t-2", Title: "Fix the sink", Status: core.StatusInbox, Context: "home"},
	}
	for _, n := range notas {
		if err := s.Insert(n); err != nil {
			t.Fatalf("Insert(%s): %v", n.ID, err)
		}
	}
	return s
}

func TestCheckReference(t *testing.T) {
	s := seedStore(t)

	if err := core.CheckReference(s, "website", core.KindProject); err != nil {
		t.Errorf("valid project ref rejected: %v", err)
	}
	if err := core.CheckReference(s, "home", core.KindContext); err != nil {
		t.Errorf("valid context ref rejected: %v", err)
	}

	// A context id is not a valid project reference even though it exists.
	err := core.CheckReference(s, "home", core.KindProject)
	if !errors.Is(err, core.ErrInvalidReference) {
		t.Fatalf("expected invalid reference error, got %v", err)
	}
	if !strings.Contains(err.Error(), "website") {
		t.Errorf("error should list available projects: %q", err.Error())
	}
}

func TestCheckReferenceNoneAvailable(t *testing.T) {
	s := core.NewStore()
	err := core.CheckReference(s, "website", core.KindProject)
	if !errors.Is(err, core.ErrInvalidReference) {
		t.Fatalf("expected invalid reference error, got %v", err)
	}
	if !strings.Contains(err.Error(), "no projects have been created yet") {
		t.Errorf("error should explain the empty case: %q", err.Error())
	}
}

func TestCheckNotReferenced(t *testing.T) {
	s := seedStore(t)

	err := core.CheckNotReferenced(s, "website")
	if !errors.Is(err, core.ErrStillReferenced) {
		t.Fatalf("expected referential integrity error, got %v", err)
	}
	var ref *core.ReferencedError
	if !errors.As(err, &ref) {
		t.Fatalf("expected *ReferencedError, got %T", err)
	}
	if ref.Referrer != "t-1" {
		t.Errorf("Referrer = %s, want t-1", ref.Referrer)
	}

	if err := core.CheckNotReferenced(s, "t-2"); err != nil {
		t.Errorf("unreferenced nota rejected: %v", err)
	}
}

func TestFindReferrerSkipsTrash(t *testing.T) {
	s := seedStore(t)

	// Trash the only referrer of "website".
	n, _ := s.Get("t-1")
	n.Status = core.StatusTrash
	if err := s.Update("t-1", n); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, found := core.FindReferrer(s, "website", false); !found {
		t.Errorf("full scan should still see the trashed referrer")
	}
	if _, found := core.FindReferrer(s, "website", true); found {
		t.Errorf("trash-skipping scan should ignore the trashed referrer")
	}
}
