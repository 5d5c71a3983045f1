package codec

import (
	"fmt"
	"sort"

	"github.com/notahq/nota/pkg/core"
	"gopkg.in/yaml.v3"
)

// Legacy record shapes. These are frozen, decode-only types used solely
// by the migration chain; nothing outside this file touches them.
//
// Version 1 stored projects as a sequence with inline ids and contexts as
// a mapping keyed by name. Version 2 changed projects to a mapping keyed
// by id. Both predate the unified nota shape, so their records carry old
// field names ("name" for title, "description" for notes) and a stray
// status field that is accepted and discarded.

type legacyProject struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Name        string     `yaml:"name"`
	Notes       string     `yaml:"notes"`
	Description string     `yaml:"description"`
	Project     string     `yaml:"project"`
	Context     string     `yaml:"context"`
	StartDate   *core.Date `yaml:"start_date"`
	CreatedAt   *core.Date `yaml:"created_at"`
	UpdatedAt   *core.Date `yaml:"updated_at"`
	Status      string     `yaml:"status"` // pre-v3 files sometimes carried this; ignored
}

func (p legacyProject) title() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

func (p legacyProject) notes() string {
	if p.Notes != "" {
		return p.Notes
	}
	return p.Description
}

type legacyContext struct {
	Name      string     `yaml:"name"`
	ID        string     `yaml:"id"`
	Title     string     `yaml:"title"`
	Notes     string     `yaml:"notes"`
	Project   string     `yaml:"project"`
	Context   string     `yaml:"context"`
	StartDate *core.Date `yaml:"start_date"`
	CreatedAt *core.Date `yaml:"created_at"`
	UpdatedAt *core.Date `yaml:"updated_at"`
	Status    string     `yaml:"status"`
}

// legacyProjects accepts either the v1 sequence shape or the v2 mapping
// shape. In the mapping shape the key is the project id and is copied
// into the record, preserving document order.
type legacyProjects []legacyProject

func (p *legacyProjects) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var projects []legacyProject
		if err := value.Decode(&projects); err != nil {
			return err
		}
		*p = projects
		return nil
	case yaml.MappingNode:
		var projects []legacyProject
		for i := 0; i+1 < len(value.Content); i += 2 {
			var proj legacyProject
			if err := value.Content[i+1].Decode(&proj); err != nil {
				return err
			}
			proj.ID = value.Content[i].Value
			projects = append(projects, proj)
		}
		*p = projects
		return nil
	}
	return fmt.Errorf("projects: expected a sequence or mapping, got %v", value.Kind)
}

// migrateV1ToV2 rewrites the version 1 shape into version 2. The only
// structural difference is project storage: a sequence with inline ids
// becomes a mapping keyed by id. legacyProjects already absorbs both
// shapes positionally, so the transform reduces to asserting every
// project has an id to be keyed by.
func migrateV1ToV2(doc *document) {
	kept := doc.Projects[:0]
	for _, p := range doc.Projects {
		if p.ID == "" {
			// v1 files written before ids were mandatory; key by title.
			p.ID = p.title()
		}
		kept = append(kept, p)
	}
	doc.Projects = kept
}

// migrateV2ToV3 folds the separate project and context collections into
// unified nota records under the v3 per-status sections. Task sections
// keep their shape; only their missing fields are defaulted later during
// load.
func migrateV2ToV3(doc *document) {
	for _, p := range doc.Projects {
		doc.Project = append(doc.Project, core.Nota{
			ID:        p.ID,
			Title:     p.title(),
			Status:    core.StatusProject,
			Project:   p.Project,
			Context:   p.Context,
			Notes:     p.notes(),
			StartDate: p.StartDate,
			CreatedAt: dateOrZero(p.CreatedAt),
			UpdatedAt: dateOrZero(p.UpdatedAt),
		})
	}
	doc.Projects = nil

	for _, c := range orderedContexts(doc.Contexts) {
		id := c.Name
		title := c.Title
		if title == "" {
			title = id
		}
		doc.Context = append(doc.Context, core.Nota{
			ID:        id,
			Title:     title,
			Status:    core.StatusContext,
			Project:   c.Project,
			Context:   c.Context,
			Notes:     c.Notes,
			StartDate: c.StartDate,
			CreatedAt: dateOrZero(c.CreatedAt),
			UpdatedAt: dateOrZero(c.UpdatedAt),
		})
	}
	doc.Contexts = nil
}

// orderedContexts flattens the contexts mapping deterministically. The
// mapping key is authoritative for the context name (it doubles as the
// nota id), mirroring how v2 files keyed the section.
func orderedContexts(contexts map[string]legacyContext) []legacyContext {
	names := make([]string, 0, len(contexts))
	for name := range contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]legacyContext, 0, len(contexts))
	for _, name := range names {
		c := contexts[name]
		c.Name = name
		out = append(out, c)
	}
	return out
}

func dateOrZero(d *core.Date) core.Date {
	if d == nil {
		return core.Date{}
	}
	return *d
}
