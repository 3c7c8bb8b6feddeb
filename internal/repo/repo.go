package repo

import (
	"context"
	"database/sql"
	"errors"

	"worksim/internal/domain"
)

// Repo is a thin persistence layer over the SQLite store. Generation-side
// inserts take an explicit *sql.Tx because each pipeline stage writes in one
// transaction; read-side queries go through the plain connection.
type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

func (r Repo) InsertOrganization(ctx context.Context, tx *sql.Tx, o domain.Organization) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO organizations(org_id,name,domain) VALUES (?,?,?)`,
		o.ID, o.Name, o.Domain)
	return err
}

func (r Repo) InsertTeam(ctx context.Context, tx *sql.Tx, t domain.Team) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO teams(team_id,org_id,name) VALUES (?,?,?)`,
		t.ID, t.OrgID, t.Name)
	return err
}

func (r Repo) InsertUser(ctx context.Context, tx *sql.Tx, u domain.User) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO users(user_id,org_id,email,full_name,role,created_at) VALUES (?,?,?,?,?,?)`,
		u.ID, u.OrgID, u.Email, u.FullName, u.Role, u.CreatedAt)
	return err
}

func (r Repo) InsertTeamMembership(ctx context.Context, tx *sql.Tx, m domain.TeamMembership) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO team_memberships(team_id,user_id) VALUES (?,?)`,
		m.TeamID, m.UserID)
	return err
}

func (r Repo) InsertProject(ctx context.Context, tx *sql.Tx, p domain.Project) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO projects(project_id,team_id,name,description,created_at) VALUES (?,?,?,?,?)`,
		p.ID, p.TeamID, p.Name, nullable(p.Description), p.CreatedAt)
	return err
}

func (r Repo) InsertSection(ctx context.Context, tx *sql.Tx, s domain.Section) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO sections(section_id,project_id,name) VALUES (?,?,?)`,
		s.ID, s.ProjectID, s.Name)
	return err
}

func (r Repo) InsertTag(ctx context.Context, tx *sql.Tx, t domain.Tag) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO tags(tag_id,org_id,name) VALUES (?,?,?)`,
		t.ID, t.OrgID, t.Name)
	return err
}

func (r Repo) InsertCustomFieldDef(ctx context.Context, tx *sql.Tx, d domain.CustomFieldDef) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO custom_field_defs(field_id,project_id,name,field_type) VALUES (?,?,?,?)`,
		d.ID, d.ProjectID, d.Name, d.FieldType)
	return err
}

func (r Repo) InsertTask(ctx context.Context, tx *sql.Tx, t domain.Task) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO tasks(task_id,project_id,section_id,parent_task_id,name,description,assignee_id,due_date,created_at,completed,completed_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		t.ID, t.ProjectID, nullableStringPtr(t.SectionID), nullableStringPtr(t.ParentTaskID), t.Name, nullable(t.Description),
		nullableStringPtr(t.AssigneeID), nullableStringPtr(t.DueDate), t.CreatedAt, boolToInt(t.Completed), nullableStringPtr(t.CompletedAt))
	return err
}

func (r Repo) InsertComment(ctx context.Context, tx *sql.Tx, c domain.Comment) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO comments(comment_id,task_id,user_id,body,created_at) VALUES (?,?,?,?,?)`,
		c.ID, c.TaskID, c.UserID, c.Body, c.CreatedAt)
	return err
}

func (r Repo) InsertTaskTag(ctx context.Context, tx *sql.Tx, t domain.TaskTag) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO task_tags(id,task_id,tag_id) VALUES (?,?,?)`,
		t.ID, t.TaskID, t.TagID)
	return err
}

func (r Repo) InsertCustomFieldValue(ctx context.Context, tx *sql.Tx, v domain.CustomFieldValue) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO custom_field_values(value_id,field_id,task_id,value) VALUES (?,?,?,?)`,
		v.ID, v.FieldID, v.TaskID, v.Value)
	return err
}

func (r Repo) InsertAttachment(ctx context.Context, tx *sql.Tx, a domain.Attachment) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO attachments(attachment_id,task_id,filename,url,uploaded_by,created_at) VALUES (?,?,?,?,?,?)`,
		a.ID, a.TaskID, a.Filename, a.URL, nullableStringPtr(a.UploadedBy), a.CreatedAt)
	return err
}

// GetOrganization returns the single organization of the store.
func (r Repo) GetOrganization(ctx context.Context) (domain.Organization, error) {
	var o domain.Organization
	err := r.DB.QueryRowContext(ctx, `SELECT org_id,name,domain FROM organizations LIMIT 1`).
		Scan(&o.ID, &o.Name, &o.Domain)
	if err == sql.ErrNoRows {
		return o, ErrNotFound
	}
	return o, err
}

func (r Repo) ListTeams(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT team_id,org_id,name FROM teams`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.OrgID, &t.Name); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// SectionsForProject returns sections in creation (rowid) order, matching the
// fixed workflow ordering written by the organization builder.
func (r Repo) SectionsForProject(ctx context.Context, projectID string) ([]domain.Section, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT section_id,project_id,name FROM sections WHERE project_id=? ORDER BY rowid`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Section
	for rows.Next() {
		var s domain.Section
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Name); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// TeamMemberIDs returns up to limit user ids belonging to the team. The task
// builder samples assignees from this pool.
func (r Repo) TeamMemberIDs(ctx context.Context, teamID string, limit int) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT u.user_id FROM users u
JOIN team_memberships m ON u.user_id = m.user_id
WHERE m.team_id = ? LIMIT ?`, teamID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		res = append(res, id)
	}
	return res, rows.Err()
}

func (r Repo) CountRows(ctx context.Context, table string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+table).Scan(&n)
	return n, err
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableStringPtr(v *string) any {
	if v == nil || *v == "" {
		return nil
	}
	return *v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
