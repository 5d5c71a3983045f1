// Package codec encodes and decodes the nota dataset to and from its
// versioned on-disk YAML document.
//
// The document carries a format_version integer; loading runs a linear
// chain of pure transforms (v1 -> v2 -> v3) until the in-memory
// representation is current. Saving always emits version 3: one sequence
// of nota records per status, in canonical status order.
package codec

import (
	"fmt"

	"github.com/notahq/nota/pkg/core"
	"gopkg.in/yaml.v3"
)

// FormatVersion is the canonical on-disk format emitted by Encode.
const FormatVersion = 3

// Dataset is the decoded document: the store plus the id counters older
// format versions used for generated ids. The counters are passthrough —
// kept so re-saving an old file loses nothing.
type Dataset struct {
	Store          *core.Store
	TaskCounter    int
	ProjectCounter int
}

// NewDataset returns an empty current-version dataset.
func NewDataset() *Dataset {
	return &Dataset{Store: core.NewStore()}
}

// document is the on-disk shape across every format version. Which
// fields are populated depends on the version: task sections are shared
// by v2 and v3, Projects/Contexts only exist before v3, and the
// project/context sections only exist in v3.
type document struct {
	FormatVersion int `yaml:"format_version,omitempty"`

	Inbox      []core.Nota `yaml:"inbox,omitempty"`
	NextAction []core.Nota `yaml:"next_action,omitempty"`
	WaitingFor []core.Nota `yaml:"waiting_for,omitempty"`
	Later      []core.Nota `yaml:"later,omitempty"`
	Calendar   []core.Nota `yaml:"calendar,omitempty"`
	Someday    []core.Nota `yaml:"someday,omitempty"`
	Done       []core.Nota `yaml:"done,omitempty"`
	Reference  []core.Nota `yaml:"reference,omitempty"`
	Context    []core.Nota `yaml:"context,omitempty"`
	Project    []core.Nota `yaml:"project,omitempty"`
	Trash      []core.Nota `yaml:"trash,omitempty"`

	// Legacy sections, read-only. v1 stored projects as a sequence with
	// inline ids; v2 as a mapping keyed by id. Contexts were a mapping
	// keyed by name in both.
	Projects legacyProjects           `yaml:"projects,omitempty"`
	Contexts map[string]legacyContext `yaml:"contexts,omitempty"`

	TaskCounter    int `yaml:"task_counter,omitempty"`
	ProjectCounter int `yaml:"project_counter,omitempty"`
}

func (d *document) taskSections() map[core.Status]*[]core.Nota {
	return map[core.Status]*[]core.Nota{
		core.StatusInbox:      &d.Inbox,
		core.StatusNextAction: &d.NextAction,
		core.StatusWaitingFor: &d.WaitingFor,
		core.StatusLater:      &d.Later,
		core.StatusCalendar:   &d.Calendar,
		core.StatusSomeday:    &d.Someday,
		core.StatusDone:       &d.Done,
		core.StatusReference:  &d.Reference,
		core.StatusContext:    &d.Context,
		core.StatusProject:    &d.Project,
		core.StatusTrash:      &d.Trash,
	}
}

// Decode parses a document of any supported version into a current
// dataset. Empty input decodes to an empty dataset — an absent file is an
// empty system, not an error.
func Decode(data []byte) (*Dataset, error) {
	ds := NewDataset()
	if len(data) == 0 {
		return ds, nil
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	version := doc.FormatVersion
	if version == 0 {
		version = 1
	}
	if version > FormatVersion {
		return nil, fmt.Errorf("unsupported format_version %d (newest supported: %d)", version, FormatVersion)
	}

	// Migration chain. Each step rewrites the document in place into the
	// next version's shape; the live engine only ever sees the result of
	// the final step.
	if version < 2 {
		migrateV1ToV2(&doc)
	}
	if version < 3 {
		migrateV2ToV3(&doc)
	}

	sections := doc.taskSections()
	for _, status := range core.StatusOrder {
		for _, n := range *sections[status] {
			normalizeNota(&n, status)
			if err := ds.Store.Insert(n); err != nil {
				return nil, fmt.Errorf("failed to load %s section: %w", status, err)
			}
		}
	}
	ds.TaskCounter = doc.TaskCounter
	ds.ProjectCounter = doc.ProjectCounter
	return ds, nil
}

// normalizeNota stamps the section's status onto the record and repairs
// fields legacy files may omit. Notes are normalized to LF so documents
// written on other platforms round-trip cleanly.
func normalizeNota(n *core.Nota, status core.Status) {
	n.Status = status
	n.Notes = core.NormalizeLineEndings(n.Notes)
	if n.Title == "" {
		n.Title = n.ID
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = core.Today()
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}
}

// Encode serializes the dataset as a version 3 document: notas grouped
// into per-status sections in canonical order, creation order within each
// section, optional fields omitted.
func Encode(ds *Dataset) ([]byte, error) {
	doc := document{FormatVersion: FormatVersion}
	sections := doc.taskSections()
	for _, n := range ds.Store.All() {
		section, ok := sections[n.Status]
		if !ok {
			return nil, fmt.Errorf("cannot serialize nota %q: unknown status %q", n.ID, n.Status)
		}
		*section = append(*section, n)
	}
	doc.TaskCounter = ds.TaskCounter
	doc.ProjectCounter = ds.ProjectCounter

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return out, nil
}
