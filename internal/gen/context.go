package gen

import "time"

// Context is the accumulating record of generated-entity identifiers threaded
// between pipeline stages. Each stage returns a new value with its collections
// appended; earlier collections are never mutated, so later stages can
// reference earlier entities without re-querying the store.
type Context struct {
	OrgID        string
	Domain       string
	Teams        []TeamRef
	Users        []UserRef
	Projects     []ProjectRef
	Tags         []TagRef
	CustomFields []FieldRef
}

type TeamRef struct {
	ID   string
	Name string
}

type UserRef struct {
	ID       string
	Email    string
	FullName string
	Role     string
}

type ProjectRef struct {
	ID        string
	TeamID    string
	CreatedAt time.Time
}

type TagRef struct {
	ID   string
	Name string
}

type FieldRef struct {
	ID        string
	ProjectID string
	Name      string
	FieldType string
}

// withMetadata returns a copy of the context extended with the metadata
// stage's output.
func (c Context) withMetadata(tags []TagRef, fields []FieldRef) Context {
	out := c
	out.Tags = tags
	out.CustomFields = fields
	return out
}

// fieldsForProject filters the custom-field definitions down to one project.
func (c Context) fieldsForProject(projectID string) []FieldRef {
	var out []FieldRef
	for _, f := range c.CustomFields {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	return out
}
