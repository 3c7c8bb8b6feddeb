package domain

// Organization is the single top-level tenant generated per run.
type Organization struct {
	ID     string `json:"org_id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

type Team struct {
	ID    string `json:"team_id"`
	OrgID string `json:"org_id"`
	Name  string `json:"name"`
}

type User struct {
	ID        string `json:"user_id"`
	OrgID     string `json:"org_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

type TeamMembership struct {
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
}

type Project struct {
	ID          string `json:"project_id"`
	TeamID      string `json:"team_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at" format:"date-time"`
}

type Section struct {
	ID        string `json:"section_id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
}

type Tag struct {
	ID    string `json:"tag_id"`
	OrgID string `json:"org_id"`
	Name  string `json:"name"`
}

// CustomFieldDef is the definition half of the EAV pair; values live in
// custom_field_values rows keyed by (field_id, task_id).
type CustomFieldDef struct {
	ID        string `json:"field_id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	FieldType string `json:"field_type" enum:"text,number,enum"`
}

type Task struct {
	ID           string  `json:"task_id"`
	ProjectID    string  `json:"project_id"`
	SectionID    *string `json:"section_id,omitempty"`
	ParentTaskID *string `json:"parent_task_id,omitempty"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	AssigneeID   *string `json:"assignee_id,omitempty"`
	DueDate      *string `json:"due_date,omitempty" format:"date-time"`
	CreatedAt    string  `json:"created_at" format:"date-time"`
	Completed    bool    `json:"completed"`
	CompletedAt  *string `json:"completed_at,omitempty" format:"date-time"`
}

type Comment struct {
	ID        string `json:"comment_id"`
	TaskID    string `json:"task_id"`
	UserID    string `json:"user_id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

type TaskTag struct {
	ID     string `json:"id"`
	TaskID string `json:"task_id"`
	TagID  string `json:"tag_id"`
}

type CustomFieldValue struct {
	ID      string `json:"value_id"`
	FieldID string `json:"field_id"`
	TaskID  string `json:"task_id"`
	Value   string `json:"value"`
}

type Attachment struct {
	ID         string  `json:"attachment_id"`
	TaskID     string  `json:"task_id"`
	Filename   string  `json:"filename"`
	URL        string  `json:"url"`
	UploadedBy *string `json:"uploaded_by,omitempty"`
	CreatedAt  string  `json:"created_at" format:"date-time"`
}
