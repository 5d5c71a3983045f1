package core

import "strings"

// NormalizeLineEndings folds CRLF and bare CR into LF. Notes are stored
// LF-only so documents written on other platforms round-trip cleanly.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Stateless validation over a Store. These functions never mutate; the
// workflow engine runs every applicable check before touching the store
// so a failed operation leaves it unchanged.

// CheckReference verifies that id names an existing nota of the expected
// kind. The error lists the ids that would have been valid.
func CheckReference(s *Store, id string, kind Kind) error {
	if st, ok := s.StatusOf(id); ok && st.Kind() == kind {
		return nil
	}
	var available []string
	for _, n := range s.All() {
		if n.Kind() == kind {
			available = append(available, n.ID)
		}
	}
	return &ReferenceError{Kind: kind, ID: id, Available: available}
}

// CheckDate parses a strict YYYY-MM-DD date string.
func CheckDate(value string) (Date, error) {
	return ParseDate(value)
}

// FindReferrer returns the first nota whose project or context field
// names id. With skipTrash set, referrers that are themselves in the
// trash are ignored; purge uses that form since those referrers are being
// destroyed in the same sweep.
func FindReferrer(s *Store, id string, skipTrash bool) (Nota, bool) {
	for _, n := range s.All() {
		if n.ID == id {
			continue
		}
		if skipTrash && n.Status == StatusTrash {
			continue
		}
		if n.Project == id || n.Context == id {
			return n, true
		}
	}
	return Nota{}, false
}

// CheckNotReferenced fails if any other nota still names id in its
// project or context field, naming the referrer.
func CheckNotReferenced(s *Store, id string) error {
	if ref, found := FindReferrer(s, id, false); found {
		return &ReferencedError{ID: id, Referrer: ref.ID}
	}
	return nil
}
