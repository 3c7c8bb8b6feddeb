package repo

import (
	"context"
	"time"
)

// Check is one integrity rule recomputed over a generated store.
type Check struct {
	Name       string `json:"name"`
	Violations int    `json:"violations"`
}

// VerifyIntegrity re-derives the dataset invariants with SQL. A fresh
// generation must report zero violations for every rule; worksim verify
// exposes this to operators.
func (r Repo) VerifyIntegrity(ctx context.Context, now time.Time) ([]Check, error) {
	nowStr := now.UTC().Format(time.RFC3339)
	rules := []struct {
		name  string
		query string
		args  []any
	}{
		{
			name:  "completed flag matches completion timestamp",
			query: `SELECT COUNT(1) FROM tasks WHERE (completed = 1) != (completed_at IS NOT NULL)`,
		},
		{
			name:  "completion timestamp not before creation",
			query: `SELECT COUNT(1) FROM tasks WHERE completed_at IS NOT NULL AND completed_at < created_at`,
		},
		{
			name:  "completion timestamp not in the future",
			query: `SELECT COUNT(1) FROM tasks WHERE completed_at IS NOT NULL AND completed_at > ?`,
			args:  []any{nowStr},
		},
		{
			name:  "due date strictly after creation",
			query: `SELECT COUNT(1) FROM tasks WHERE due_date IS NOT NULL AND due_date <= created_at`,
		},
		{
			name:  "assignee belongs to the project's team",
			query: `SELECT COUNT(1) FROM tasks t
JOIN projects p ON t.project_id = p.project_id
WHERE t.assignee_id IS NOT NULL
AND NOT EXISTS (SELECT 1 FROM team_memberships m WHERE m.team_id = p.team_id AND m.user_id = t.assignee_id)`,
		},
		{
			name:  "subtask parent in same project",
			query: `SELECT COUNT(1) FROM tasks c
JOIN tasks p ON c.parent_task_id = p.task_id
WHERE c.project_id != p.project_id`,
		},
		{
			name:  "subtask nesting limited to one level",
			query: `SELECT COUNT(1) FROM tasks c
JOIN tasks p ON c.parent_task_id = p.task_id
WHERE p.parent_task_id IS NOT NULL`,
		},
		{
			// Subtasks carry no field values, so only top-level tasks
			// participate in the one-value rule.
			name: "exactly one value per task and project field",
			query: `SELECT COUNT(1) FROM (
SELECT t.task_id FROM tasks t
JOIN custom_field_defs d ON d.project_id = t.project_id
LEFT JOIN custom_field_values v ON v.task_id = t.task_id AND v.field_id = d.field_id
WHERE t.parent_task_id IS NULL
GROUP BY t.task_id, d.field_id
HAVING COUNT(v.value_id) != 1)`,
		},
		{
			name: "field value belongs to the task's project",
			query: `SELECT COUNT(1) FROM custom_field_values v
JOIN custom_field_defs d ON v.field_id = d.field_id
JOIN tasks t ON v.task_id = t.task_id
WHERE d.project_id != t.project_id`,
		},
		{
			name:  "comment dated after its task",
			query: `SELECT COUNT(1) FROM comments c JOIN tasks t ON c.task_id = t.task_id WHERE c.created_at <= t.created_at`,
		},
	}

	var res []Check
	for _, rule := range rules {
		var n int
		err := r.DB.QueryRowContext(ctx, rule.query, rule.args...).Scan(&n)
		if err != nil {
			return nil, err
		}
		res = append(res, Check{Name: rule.name, Violations: n})
	}
	return res, nil
}
