package gen

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"worksim/internal/domain"
)

// BuildMetadata creates the organization-wide tag vocabulary and 0-3 custom
// field definitions per project. It only appends: the returned context is an
// extended copy, nothing from the organization stage is touched.
func (g Generator) BuildMetadata(ctx context.Context, c Context) (Context, error) {
	tx, err := g.DB.BeginTx(ctx, nil)
	if err != nil {
		return Context{}, err
	}
	defer tx.Rollback()

	tags := make([]TagRef, 0, len(g.Profile.Vocab.Tags))
	for _, name := range g.Profile.Vocab.Tags {
		t := domain.Tag{ID: g.uid(), OrgID: c.OrgID, Name: name}
		if err := g.Repo.InsertTag(ctx, tx, t); err != nil {
			return Context{}, fmt.Errorf("insert tag: %w", err)
		}
		tags = append(tags, TagRef{ID: t.ID, Name: name})
	}

	fieldCount := UniformInt{Lo: 0, Hi: g.Profile.Structure.MaxCustomFields}
	var fields []FieldRef
	for _, p := range c.Projects {
		for i := 0; i < fieldCount.Draw(g.Rand); i++ {
			d := domain.CustomFieldDef{
				ID:        g.uid(),
				ProjectID: p.ID,
				Name:      pick(g.Rand, g.Profile.Vocab.CustomFields),
				FieldType: pick(g.Rand, g.Profile.Vocab.FieldTypes),
			}
			if err := g.Repo.InsertCustomFieldDef(ctx, tx, d); err != nil {
				return Context{}, fmt.Errorf("insert custom field def: %w", err)
			}
			fields = append(fields, FieldRef{ID: d.ID, ProjectID: p.ID, Name: d.Name, FieldType: d.FieldType})
		}
	}

	if err := tx.Commit(); err != nil {
		return Context{}, err
	}
	g.Log.Info("metadata stage complete", zap.Int("tags", len(tags)), zap.Int("custom_fields", len(fields)))
	return c.withMetadata(tags, fields), nil
}
