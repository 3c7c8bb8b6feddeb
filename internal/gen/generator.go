// Package gen implements the generation pipeline: a strictly ordered sequence
// of builders that populate the store with one organization, its teams, users,
// projects, metadata and tasks, obeying referential integrity and the
// configured statistical distributions.
package gen

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"worksim/internal/config"
	"worksim/internal/content"
	"worksim/internal/repo"
)

// Generator runs the pipeline against one exclusive store connection.
type Generator struct {
	DB      *sql.DB
	Repo    repo.Repo
	Content content.Source
	Profile *config.Profile
	Rand    *rand.Rand
	Log     *zap.Logger
	Now     func() time.Time
}

// New builds a Generator. Seed 0 derives a seed from the clock; any other
// value makes the run reproducible.
func New(db *sql.DB, profile *config.Profile, seed int64) Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return Generator{
		DB:      db,
		Repo:    repo.Repo{DB: db},
		Content: content.WithFallback(content.NewFaker(uint64(seed))),
		Profile: profile,
		Rand:    rand.New(rand.NewSource(seed)),
		Log:     zap.NewNop(),
		Now:     time.Now,
	}
}

// Options configure one generation run.
type Options struct {
	NumUsers int
	Density  float64
}

// Run executes the three builders in order. The organization builder is the
// leaf dependency; metadata extends its context; the task builder consumes
// the fully extended context. No stage may run out of order.
func (g Generator) Run(ctx context.Context, opts Options) (Context, error) {
	if opts.NumUsers <= 0 {
		return Context{}, fmt.Errorf("num users must be positive, got %d", opts.NumUsers)
	}
	if opts.Density <= 0 {
		opts.Density = 1.0
	}
	started := g.now()

	c, err := g.BuildOrganization(ctx, opts.NumUsers)
	if err != nil {
		return Context{}, fmt.Errorf("organization stage: %w", err)
	}
	c, err = g.BuildMetadata(ctx, c)
	if err != nil {
		return Context{}, fmt.Errorf("metadata stage: %w", err)
	}
	if err := g.BuildTasks(ctx, c, opts.Density); err != nil {
		return Context{}, fmt.Errorf("task stage: %w", err)
	}

	g.Log.Info("generation complete",
		zap.String("org_id", c.OrgID),
		zap.Int("teams", len(c.Teams)),
		zap.Int("users", len(c.Users)),
		zap.Int("projects", len(c.Projects)),
		zap.Duration("elapsed", g.now().Sub(started)))
	return c, nil
}

func (g Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g Generator) uid() string {
	return uuid.NewString()
}

func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
