package repo

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// TaskRow is the read-side join of a task with its project, team, assignee
// and section, shaped for the explorer table and the HTTP API.
type TaskRow struct {
	TaskID       string  `json:"task_id"`
	TaskName     string  `json:"task_name"`
	Description  string  `json:"description,omitempty"`
	CreatedAt    string  `json:"created_at" format:"date-time"`
	DueDate      *string `json:"due_date,omitempty" format:"date-time"`
	Completed    bool    `json:"completed"`
	ProjectID    string  `json:"project_id"`
	ProjectName  string  `json:"project_name"`
	TeamID       string  `json:"team_id"`
	TeamName     string  `json:"team_name"`
	AssigneeID   *string `json:"assignee_id,omitempty"`
	AssigneeName *string `json:"assignee_name,omitempty"`
	SectionName  *string `json:"section_name,omitempty"`
}

// TaskFilter narrows ListTaskRows. Zero values mean no filter.
type TaskFilter struct {
	ProjectID  string
	TeamID     string
	AssigneeID string
	Limit      int
}

// ListTaskRows joins tasks with projects, teams, users and sections.
func (r Repo) ListTaskRows(ctx context.Context, f TaskFilter) ([]TaskRow, error) {
	q := `SELECT tasks.task_id, tasks.name, COALESCE(tasks.description,''), tasks.created_at, tasks.due_date, tasks.completed,
       projects.project_id, projects.name,
       teams.team_id, teams.name,
       users.user_id, users.full_name,
       sections.name
FROM tasks
JOIN projects ON tasks.project_id = projects.project_id
JOIN teams ON projects.team_id = teams.team_id
LEFT JOIN users ON tasks.assignee_id = users.user_id
LEFT JOIN sections ON tasks.section_id = sections.section_id`
	var (
		clauses []string
		args    []any
	)
	if f.ProjectID != "" {
		clauses = append(clauses, "projects.project_id = ?")
		args = append(args, f.ProjectID)
	}
	if f.TeamID != "" {
		clauses = append(clauses, "teams.team_id = ?")
		args = append(args, f.TeamID)
	}
	if f.AssigneeID != "" {
		clauses = append(clauses, "users.user_id = ?")
		args = append(args, f.AssigneeID)
	}
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += " ORDER BY tasks.created_at DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []TaskRow
	for rows.Next() {
		var row TaskRow
		var dueDate, userID, fullName, section sql.NullString
		var completed int
		if err := rows.Scan(&row.TaskID, &row.TaskName, &row.Description, &row.CreatedAt, &dueDate, &completed,
			&row.ProjectID, &row.ProjectName, &row.TeamID, &row.TeamName, &userID, &fullName, &section); err != nil {
			return nil, err
		}
		row.Completed = completed != 0
		if dueDate.Valid {
			row.DueDate = &dueDate.String
		}
		if userID.Valid {
			row.AssigneeID = &userID.String
		}
		if fullName.Valid {
			row.AssigneeName = &fullName.String
		}
		if section.Valid {
			row.SectionName = &section.String
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

// Metrics are the aggregate QC numbers reported by the explorer.
type Metrics struct {
	TotalUsers      int     `json:"total_users"`
	TotalTasks      int     `json:"total_tasks"`
	PctUnassigned   float64 `json:"pct_unassigned"`
	PctOverdue      float64 `json:"pct_overdue"`
	PctCompleted    float64 `json:"pct_completed"`
	UnassignedTasks int     `json:"unassigned_tasks"`
	OverdueTasks    int     `json:"overdue_tasks"`
	CompletedTasks  int     `json:"completed_tasks"`
}

// ComputeMetrics recomputes the QC aggregates as of now.
func (r Repo) ComputeMetrics(ctx context.Context, now time.Time) (Metrics, error) {
	var m Metrics
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(1) FROM users`).Scan(&m.TotalUsers); err != nil {
		return m, err
	}
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(1) FROM tasks`).Scan(&m.TotalTasks); err != nil {
		return m, err
	}
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(1) FROM tasks WHERE assignee_id IS NULL`).Scan(&m.UnassignedTasks); err != nil {
		return m, err
	}
	nowStr := now.UTC().Format(time.RFC3339)
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(1) FROM tasks WHERE completed = 0 AND due_date IS NOT NULL AND due_date < ?`, nowStr).Scan(&m.OverdueTasks); err != nil {
		return m, err
	}
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(1) FROM tasks WHERE completed = 1`).Scan(&m.CompletedTasks); err != nil {
		return m, err
	}
	if m.TotalTasks > 0 {
		m.PctUnassigned = float64(m.UnassignedTasks) / float64(m.TotalTasks) * 100
		m.PctOverdue = float64(m.OverdueTasks) / float64(m.TotalTasks) * 100
		m.PctCompleted = float64(m.CompletedTasks) / float64(m.TotalTasks) * 100
	}
	return m, nil
}
