// Package nota is the composition root for the nota task engine.
//
// It binds the workflow engine (capture, status transitions, recurrence,
// trash) to a git-backed YAML data file, so a whole task list lives in a
// single versioned document.
//
// Philosophy:
//
// Every record is a nota: tasks, projects and contexts share one shape and
// differ only by status. Moving work through its life cycle is always a
// status change, never a conversion between types. The file on disk is the
// database; git is the history.
//
// Features:
//
//   - **Unified records**: one type across inbox, actions, projects and contexts.
//   - **Workflow transitions**: batch status changes with per-id outcomes.
//   - **Recurrence**: completing a recurring nota schedules its next occurrence.
//   - **Reference integrity**: project and context links are validated on write.
//   - **Versioned format**: v1 and v2 files are migrated transparently on load.
//   - **Git persistence**: every save is an atomic write plus a commit.
//
// Usage:
//
//	svc, err := nota.Open(ctx, "tasks.yaml",
//		nota.WithSync(true),
//		nota.WithLogger(logger),
//	)
//
//	// Capture a task into the inbox
//	n, err := svc.Capture(ctx, nota.CaptureInput{ID: "t-1", Title: "Call the bank"})
package nota
