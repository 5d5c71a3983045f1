// Package dispatch turns named tool calls with JSON arguments into core
// engine operations and renders the results as text for the caller. It
// is the transport-facing edge of the system: everything here is
// translation, none of it is business logic.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/notahq/nota/pkg/engine"
)

// Persister receives the encoded dataset after every successful
// mutation. The message describes the operation for version-control
// history.
type Persister interface {
	Persist(ctx context.Context, data []byte, message string) error
}

// Handler owns the tool table.
type Handler struct {
	engine    *engine.Engine
	persister Persister
	logger    *slog.Logger
}

// NewHandler wires the engine to a persister.
func NewHandler(e *engine.Engine, p Persister, logger *slog.Logger) *Handler {
	return &Handler{engine: e, persister: p, logger: logger}
}

// Request is one inbound tool call.
type Request struct {
	Tool string          `json:"tool"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Response is the outcome of one tool call. Warning is set when the
// operation was applied in memory but could not be persisted — the
// caller must know the two states may now disagree.
type Response struct {
	OK      bool   `json:"ok"`
	Result  string `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

type inboxArgs struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Status           string `json:"status"`
	Project          string `json:"project,omitempty"`
	Context          string `json:"context,omitempty"`
	Notes            string `json:"notes,omitempty"`
	StartDate        string `json:"start_date,omitempty"`
	Recurrence       string `json:"recurrence,omitempty"`
	RecurrenceConfig string `json:"recurrence_config,omitempty"`
}

type listArgs struct {
	Status       string `json:"status,omitempty"`
	Date         string `json:"date,omitempty"`
	Keyword      string `json:"keyword,omitempty"`
	Project      string `json:"project,omitempty"`
	Context      string `json:"context,omitempty"`
	ExcludeNotes bool   `json:"exclude_notes,omitempty"`
}

type updateArgs struct {
	ID               string  `json:"id"`
	Title            *string `json:"title,omitempty"`
	Status           *string `json:"status,omitempty"`
	Project          *string `json:"project,omitempty"`
	Context          *string `json:"context,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	StartDate        *string `json:"start_date,omitempty"`
	Recurrence       *string `json:"recurrence,omitempty"`
	RecurrenceConfig *string `json:"recurrence_config,omitempty"`
}

type changeStatusArgs struct {
	IDs       []string `json:"ids"`
	NewStatus string   `json:"new_status"`
	StartDate string   `json:"start_date,omitempty"`
}

// Call dispatches one tool invocation. Unknown tools and malformed
// arguments are caller errors, reported in the response rather than
// returned.
func (h *Handler) Call(ctx context.Context, req Request) Response {
	if h.logger != nil {
		h.logger.Debug("tool call", "tool", req.Tool)
	}
	switch req.Tool {
	case "inbox":
		return h.inbox(ctx, req.Args)
	case "list":
		return h.list(req.Args)
	case "update":
		return h.update(ctx, req.Args)
	case "change_status":
		return h.changeStatus(ctx, req.Args)
	case "empty_trash":
		return h.emptyTrash(ctx)
	}
	return fail(fmt.Errorf("unknown tool %q; available tools: inbox, list, update, change_status, empty_trash", req.Tool))
}

func (h *Handler) inbox(ctx context.Context, args json.RawMessage) Response {
	var in inboxArgs
	if err := decodeArgs(args, &in); err != nil {
		return fail(err)
	}
	nota, err := h.engine.Capture(engine.CaptureInput(in))
	if err != nil {
		return fail(err)
	}
	resp := Response{
		OK:     true,
		Result: fmt.Sprintf("Item created with ID: %s (type: %s)", nota.ID, nota.Kind()),
	}
	h.save(ctx, &resp, fmt.Sprintf("Add item %s", nota.ID))
	return resp
}

func (h *Handler) list(args json.RawMessage) Response {
	var in listArgs
	if err := decodeArgs(args, &in); err != nil {
		return fail(err)
	}
	seq, err := h.engine.Query(engine.Filter(in))
	if err != nil {
		return fail(err)
	}
	return Response{OK: true, Result: renderNotas(seq)}
}

func (h *Handler) update(ctx context.Context, args json.RawMessage) Response {
	var in updateArgs
	if err := decodeArgs(args, &in); err != nil {
		return fail(err)
	}
	if in.ID == "" {
		return fail(errors.New("update requires an id"))
	}
	_, err := h.engine.Modify(in.ID, engine.ModifyInput{
		Title:            in.Title,
		Status:           in.Status,
		Project:          in.Project,
		Context:          in.Context,
		Notes:            in.Notes,
		StartDate:        in.StartDate,
		Recurrence:       in.Recurrence,
		RecurrenceConfig: in.RecurrenceConfig,
	})
	if err != nil {
		return fail(err)
	}
	resp := Response{OK: true, Result: fmt.Sprintf("Item %s updated successfully", in.ID)}
	h.save(ctx, &resp, fmt.Sprintf("Update item %s", in.ID))
	return resp
}

func (h *Handler) changeStatus(ctx context.Context, args json.RawMessage) Response {
	var in changeStatusArgs
	if err := decodeArgs(args, &in); err != nil {
		return fail(err)
	}
	outcomes, err := h.engine.Transition(in.IDs, in.NewStatus, in.StartDate)
	if err != nil {
		return fail(err)
	}

	succeeded := 0
	for _, o := range outcomes {
		if o.OK() {
			succeeded++
		}
	}
	result := renderOutcomes(outcomes)
	if succeeded == 0 {
		return Response{OK: false, Error: result}
	}

	resp := Response{OK: true, Result: result}
	subject := fmt.Sprintf("%d items", succeeded)
	if succeeded == 1 {
		for _, o := range outcomes {
			if o.OK() {
				subject = o.ID
				break
			}
		}
	}
	h.save(ctx, &resp, fmt.Sprintf("Change %s status to %s", subject, in.NewStatus))
	return resp
}

func (h *Handler) emptyTrash(ctx context.Context) Response {
	report, err := h.engine.PurgeTrash()
	if err != nil {
		return fail(err)
	}
	resp := Response{OK: true, Result: renderPurge(report)}
	if len(report.Removed) > 0 {
		h.save(ctx, &resp, "Empty trash")
	}
	return resp
}

// save encodes the dataset and hands the bytes to the persister. By the
// time it runs the mutation has already been applied, so a failure here
// becomes a warning on an otherwise-successful response, never a rollback.
func (h *Handler) save(ctx context.Context, resp *Response, message string) {
	data, err := h.engine.Encode()
	if err == nil {
		err = h.persister.Persist(ctx, data, message)
	}
	if err != nil {
		err = fmt.Errorf("%w: %v", engine.ErrPersist, err)
		if h.logger != nil {
			h.logger.Error("persist failed", "error", err)
		}
		resp.Warning = err.Error()
	}
}

func decodeArgs(args json.RawMessage, into any) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, into); err != nil {
		return fmt.Errorf("malformed arguments: %w", err)
	}
	return nil
}

func fail(err error) Response {
	return Response{OK: false, Error: err.Error()}
}
