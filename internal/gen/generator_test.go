package gen_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worksim/internal/config"
	"worksim/internal/db"
	"worksim/internal/gen"
	"worksim/internal/migrate"
	"worksim/internal/repo"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestGenerator(t *testing.T, seed int64) (gen.Generator, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.sqlite")
	conn, err := db.Recreate(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	g := gen.New(conn, config.Default(), seed)
	g.Now = func() time.Time { return testNow }
	return g, conn
}

func countRows(t *testing.T, conn *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count query %q: %v", query, err)
	}
	return n
}

func TestRoundRobinExactSplit(t *testing.T) {
	g, conn := newTestGenerator(t, 1)
	c, err := g.BuildOrganization(context.Background(), 30)
	if err != nil {
		t.Fatalf("build organization: %v", err)
	}
	if len(c.Teams) != 3 {
		t.Fatalf("expected max(3, 30/10) = 3 teams, got %d", len(c.Teams))
	}
	for _, team := range c.Teams {
		n := countRows(t, conn, `SELECT COUNT(1) FROM team_memberships WHERE team_id=?`, team.ID)
		if n != 10 {
			t.Fatalf("team %s has %d members, want 10", team.Name, n)
		}
	}
}

func TestSmallPopulationSplit(t *testing.T) {
	g, conn := newTestGenerator(t, 1)
	c, err := g.BuildOrganization(context.Background(), 5)
	if err != nil {
		t.Fatalf("build organization: %v", err)
	}
	if len(c.Teams) != 3 {
		t.Fatalf("expected 3 teams for 5 users, got %d", len(c.Teams))
	}
	want := []int{2, 2, 1}
	for i, team := range c.Teams {
		n := countRows(t, conn, `SELECT COUNT(1) FROM team_memberships WHERE team_id=?`, team.ID)
		if n != want[i] {
			t.Fatalf("team %d has %d members, want %d", i, n, want[i])
		}
	}
}

func TestEmptyTeamsAreNotAnError(t *testing.T) {
	g, conn := newTestGenerator(t, 3)
	ctx := context.Background()
	c, err := g.BuildOrganization(ctx, 2)
	if err != nil {
		t.Fatalf("build organization: %v", err)
	}
	empty := 0
	for _, team := range c.Teams {
		if countRows(t, conn, `SELECT COUNT(1) FROM team_memberships WHERE team_id=?`, team.ID) == 0 {
			empty++
		}
	}
	if empty != 1 {
		t.Fatalf("expected exactly 1 empty team with 2 users over 3 teams, got %d", empty)
	}
	// The full pipeline still runs; empty teams yield unassigned tasks.
	c, err = g.BuildMetadata(ctx, c)
	if err != nil {
		t.Fatalf("build metadata: %v", err)
	}
	if err := g.BuildTasks(ctx, c, 0.2); err != nil {
		t.Fatalf("build tasks: %v", err)
	}
	violations := countRows(t, conn, `SELECT COUNT(1) FROM tasks t
JOIN projects p ON t.project_id = p.project_id
WHERE t.assignee_id IS NOT NULL
AND NOT EXISTS (SELECT 1 FROM team_memberships m WHERE m.team_id = p.team_id AND m.user_id = t.assignee_id)`)
	if violations != 0 {
		t.Fatalf("found %d tasks assigned outside the owning team", violations)
	}
}

func TestSectionsFixedAndOrdered(t *testing.T) {
	g, conn := newTestGenerator(t, 2)
	c, err := g.BuildOrganization(context.Background(), 10)
	if err != nil {
		t.Fatalf("build organization: %v", err)
	}
	r := repo.Repo{DB: conn}
	want := []string{"To Do", "In Progress", "Review", "Done"}
	for _, p := range c.Projects {
		sections, err := r.SectionsForProject(context.Background(), p.ID)
		if err != nil {
			t.Fatalf("sections: %v", err)
		}
		if len(sections) != len(want) {
			t.Fatalf("project %s has %d sections, want %d", p.ID, len(sections), len(want))
		}
		for i, s := range sections {
			if s.Name != want[i] {
				t.Fatalf("section %d is %q, want %q", i, s.Name, want[i])
			}
		}
	}
}

func TestMetadataExtendsContext(t *testing.T) {
	g, _ := newTestGenerator(t, 4)
	ctx := context.Background()
	c, err := g.BuildOrganization(ctx, 10)
	if err != nil {
		t.Fatalf("build organization: %v", err)
	}
	teamsBefore, projectsBefore := len(c.Teams), len(c.Projects)
	c2, err := g.BuildMetadata(ctx, c)
	if err != nil {
		t.Fatalf("build metadata: %v", err)
	}
	if len(c2.Tags) != 7 {
		t.Fatalf("expected 7 tags, got %d", len(c2.Tags))
	}
	if len(c2.Teams) != teamsBefore || len(c2.Projects) != projectsBefore {
		t.Fatalf("metadata stage must not alter earlier collections")
	}
	perProject := map[string]int{}
	for _, f := range c2.CustomFields {
		perProject[f.ProjectID]++
	}
	for id, n := range perProject {
		if n > 3 {
			t.Fatalf("project %s has %d custom fields, want at most 3", id, n)
		}
	}
}

func TestPipelineIntegrity(t *testing.T) {
	g, conn := newTestGenerator(t, 5)
	ctx := context.Background()
	if _, err := g.Run(ctx, gen.Options{NumUsers: 40, Density: 0.5}); err != nil {
		t.Fatalf("run: %v", err)
	}
	r := repo.Repo{DB: conn}
	checks, err := r.VerifyIntegrity(ctx, testNow)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	for _, c := range checks {
		if c.Violations != 0 {
			t.Errorf("check %q reported %d violations", c.Name, c.Violations)
		}
	}
	if countRows(t, conn, `SELECT COUNT(1) FROM organizations`) != 1 {
		t.Fatalf("expected exactly one organization")
	}
}

func TestTemporalOrdering(t *testing.T) {
	g, conn := newTestGenerator(t, 6)
	ctx := context.Background()
	if _, err := g.Run(ctx, gen.Options{NumUsers: 20, Density: 0.3}); err != nil {
		t.Fatalf("run: %v", err)
	}
	rows, err := conn.Query(`SELECT created_at, due_date, completed, completed_at FROM tasks`)
	if err != nil {
		t.Fatalf("query tasks: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var createdAt string
		var dueDate, completedAt sql.NullString
		var completed int
		if err := rows.Scan(&createdAt, &dueDate, &completed, &completedAt); err != nil {
			t.Fatalf("scan: %v", err)
		}
		created, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			t.Fatalf("parse created_at: %v", err)
		}
		if created.After(testNow) {
			t.Fatalf("task created in the future: %s", createdAt)
		}
		if (completed == 1) != completedAt.Valid {
			t.Fatalf("completed flag and completed_at disagree")
		}
		if dueDate.Valid {
			due, err := time.Parse(time.RFC3339, dueDate.String)
			if err != nil {
				t.Fatalf("parse due_date: %v", err)
			}
			if !due.After(created) {
				t.Fatalf("due date %s not after creation %s", dueDate.String, createdAt)
			}
		}
		if completedAt.Valid {
			done, err := time.Parse(time.RFC3339, completedAt.String)
			if err != nil {
				t.Fatalf("parse completed_at: %v", err)
			}
			if done.Before(created) {
				t.Fatalf("completed_at %s before creation %s", completedAt.String, createdAt)
			}
			if done.After(testNow) {
				t.Fatalf("completed_at %s is in the future", completedAt.String)
			}
		}
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate: %v", err)
	}
}

func TestSubtasksSingleLevel(t *testing.T) {
	g, conn := newTestGenerator(t, 7)
	if _, err := g.Run(context.Background(), gen.Options{NumUsers: 20, Density: 0.5}); err != nil {
		t.Fatalf("run: %v", err)
	}
	nested := countRows(t, conn, `SELECT COUNT(1) FROM tasks c
JOIN tasks p ON c.parent_task_id = p.task_id
WHERE p.parent_task_id IS NOT NULL`)
	if nested != 0 {
		t.Fatalf("found %d subtasks whose parent is itself a subtask", nested)
	}
	crossProject := countRows(t, conn, `SELECT COUNT(1) FROM tasks c
JOIN tasks p ON c.parent_task_id = p.task_id
WHERE c.project_id != p.project_id`)
	if crossProject != 0 {
		t.Fatalf("found %d subtasks crossing projects", crossProject)
	}
}

func TestCustomFieldValueCoverage(t *testing.T) {
	g, conn := newTestGenerator(t, 8)
	if _, err := g.Run(context.Background(), gen.Options{NumUsers: 20, Density: 0.5}); err != nil {
		t.Fatalf("run: %v", err)
	}
	// Subtasks carry no field values; coverage applies to top-level tasks.
	missing := countRows(t, conn, `SELECT COUNT(1) FROM (
SELECT t.task_id FROM tasks t
JOIN custom_field_defs d ON d.project_id = t.project_id
LEFT JOIN custom_field_values v ON v.task_id = t.task_id AND v.field_id = d.field_id
WHERE t.parent_task_id IS NULL
GROUP BY t.task_id, d.field_id
HAVING COUNT(v.value_id) != 1)`)
	if missing != 0 {
		t.Fatalf("%d (task, field) pairs without exactly one value", missing)
	}
}

func TestStatisticalTolerances(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical run is slow")
	}
	g, conn := newTestGenerator(t, 9)
	if _, err := g.Run(context.Background(), gen.Options{NumUsers: 100, Density: 2.0}); err != nil {
		t.Fatalf("run: %v", err)
	}

	// Benchmarks apply to top-level tasks; subtasks are generated minimal
	// (always unassigned, never completed) and would skew the ratios.
	total := countRows(t, conn, `SELECT COUNT(1) FROM tasks WHERE parent_task_id IS NULL`)
	require.Greater(t, total, 1000, "need a large sample for tolerance checks")

	frac := func(n int) float64 { return float64(n) / float64(total) }
	unassigned := countRows(t, conn, `SELECT COUNT(1) FROM tasks WHERE parent_task_id IS NULL AND assignee_id IS NULL`)
	withDue := countRows(t, conn, `SELECT COUNT(1) FROM tasks WHERE parent_task_id IS NULL AND due_date IS NOT NULL`)
	completed := countRows(t, conn, `SELECT COUNT(1) FROM tasks WHERE parent_task_id IS NULL AND completed = 1`)
	subtasks := countRows(t, conn, `SELECT COUNT(1) FROM tasks WHERE parent_task_id IS NOT NULL`)
	tagged := countRows(t, conn, `SELECT COUNT(1) FROM task_tags`)
	attachments := countRows(t, conn, `SELECT COUNT(1) FROM attachments`)

	assert.InDelta(t, 0.15, frac(unassigned), 0.03, "unassigned rate")
	assert.InDelta(t, 0.90, frac(withDue), 0.03, "due date rate")
	assert.InDelta(t, 0.60, frac(completed), 0.04, "completion rate")
	assert.InDelta(t, 0.20, frac(subtasks), 0.03, "subtask rate")
	assert.InDelta(t, 0.35, frac(tagged), 0.04, "tagged rate")
	assert.InDelta(t, 0.10, frac(attachments), 0.03, "attachment rate")
}

func TestRegenerateReplacesStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.sqlite")
	run := func(seed int64) string {
		conn, err := db.Recreate(path)
		if err != nil {
			t.Fatalf("recreate: %v", err)
		}
		defer conn.Close()
		if err := migrate.Migrate(conn); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		g := gen.New(conn, config.Default(), seed)
		g.Now = func() time.Time { return testNow }
		c, err := g.Run(context.Background(), gen.Options{NumUsers: 10, Density: 0.2})
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if n := countRows(t, conn, `SELECT COUNT(1) FROM organizations`); n != 1 {
			t.Fatalf("store holds %d organizations after regeneration, want 1", n)
		}
		return c.OrgID
	}
	first := run(10)
	second := run(11)
	if first == second {
		t.Fatalf("expected a fresh organization on regeneration")
	}
}
