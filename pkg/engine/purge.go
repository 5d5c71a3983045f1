package engine

import (
	"github.com/notahq/nota/pkg/core"
)

// BlockedNota names a trashed nota that could not be purged and the
// referrer keeping it alive.
type BlockedNota struct {
	ID       string
	Referrer string
}

// PurgeReport itemizes the result of a purge sweep.
type PurgeReport struct {
	Removed []string
	Blocked []BlockedNota
}

// PurgeTrash permanently removes every trashed nota that no surviving
// nota references. References from other trashed notas don't block the
// purge — they are destroyed in the same sweep. Blocked notas stay in the
// trash and are reported with their referrer.
func (e *Engine) PurgeTrash() (PurgeReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	store := e.ds.Store
	var report PurgeReport
	for _, n := range store.All() {
		if n.Status != core.StatusTrash {
			continue
		}
		if ref, found := core.FindReferrer(store, n.ID, true); found {
			report.Blocked = append(report.Blocked, BlockedNota{ID: n.ID, Referrer: ref.ID})
			continue
		}
		if _, err := store.Remove(n.ID); err != nil {
			return PurgeReport{}, err
		}
		report.Removed = append(report.Removed, n.ID)
	}
	if e.logger != nil {
		e.logger.Debug("purged trash", "removed", len(report.Removed), "blocked", len(report.Blocked))
	}
	return report, nil
}
