package core

// Status encodes both the workflow stage of a task and, for the two
// reserved values StatusProject and StatusContext, the kind of the nota.
type Status string

const (
	StatusInbox      Status = "inbox"
	StatusNextAction Status = "next_action"
	StatusWaitingFor Status = "waiting_for"
	StatusLater      Status = "later"
	StatusCalendar   Status = "calendar"
	StatusSomeday    Status = "someday"
	StatusDone       Status = "done"
	StatusReference  Status = "reference"
	StatusContext    Status = "context"
	StatusProject    Status = "project"
	StatusTrash      Status = "trash"
)

// StatusOrder is the canonical ordering used for serialization and query
// output: actionable statuses first, trash last. A stable order keeps the
// persisted document diff-friendly.
var StatusOrder = []Status{
	StatusInbox,
	StatusNextAction,
	StatusWaitingFor,
	StatusLater,
	StatusCalendar,
	StatusSomeday,
	StatusDone,
	StatusReference,
	StatusContext,
	StatusProject,
	StatusTrash,
}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	for _, known := range StatusOrder {
		if Status(s) == known {
			return known, nil
		}
	}
	return "", &StatusError{Value: s}
}

// Rank returns the position of the status in the canonical order.
// Unknown statuses sort last.
func (s Status) Rank() int {
	for i, known := range StatusOrder {
		if s == known {
			return i
		}
	}
	return len(StatusOrder)
}

// Kind is the entity kind derived from a nota's status.
type Kind string

const (
	KindTask    Kind = "task"
	KindProject Kind = "project"
	KindContext Kind = "context"
)

// Kind maps the dual-purpose status onto an entity kind.
func (s Status) Kind() Kind {
	switch s {
	case StatusProject:
		return KindProject
	case StatusContext:
		return KindContext
	default:
		return KindTask
	}
}

// Nota is the unified record representing a task, project, or context.
// The status field decides which of the three it is; everything else is
// shared so a nota can change kind by changing status.
type Nota struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Status Status `yaml:"-"`

	// Project and Context reference other notas by id. Empty means unset.
	Project string `yaml:"project,omitempty"`
	Context string `yaml:"context,omitempty"`
	Notes   string `yaml:"notes,omitempty"`

	StartDate *Date `yaml:"start_date,omitempty"`
	CreatedAt Date  `yaml:"created_at"`
	UpdatedAt Date  `yaml:"updated_at"`

	RecurrencePattern RecurrencePattern `yaml:"recurrence_pattern,omitempty"`
	RecurrenceConfig  string            `yaml:"recurrence_config,omitempty"`
}

// Kind reports whether the nota is a task, project, or context.
func (n Nota) Kind() Kind { return n.Status.Kind() }

// IsRecurring reports whether completing the nota should spawn a new
// occurrence.
func (n Nota) IsRecurring() bool { return n.RecurrencePattern != "" }
