// Package worksimsdk is a minimal client for the Worksim explorer API.
// The API is read-only; the client only issues GETs.
package worksimsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a worksim serve instance.
type Client struct {
	BaseURL     string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Task is the explorer's joined task row with derived status.
type Task struct {
	TaskID       string  `json:"task_id"`
	TaskName     string  `json:"task_name"`
	CreatedAt    string  `json:"created_at"`
	DueDate      *string `json:"due_date,omitempty"`
	Completed    bool    `json:"completed"`
	ProjectID    string  `json:"project_id"`
	ProjectName  string  `json:"project_name"`
	TeamID       string  `json:"team_id"`
	TeamName     string  `json:"team_name"`
	AssigneeID   *string `json:"assignee_id,omitempty"`
	AssigneeName *string `json:"assignee_name,omitempty"`
	SectionName  *string `json:"section_name,omitempty"`
	Status       string  `json:"status"`
}

// Organization is the generated tenant summary.
type Organization struct {
	OrgID  string `json:"org_id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Teams  int    `json:"teams"`
}

// Metrics are the explorer's aggregate QC numbers.
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

// TaskQuery narrows Tasks results. Zero values mean no filter.
type TaskQuery struct {
	ProjectID  string
	TeamID     string
	AssigneeID string
	Limit      int
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Organization fetches the generated organization summary.
func (c *Client) Organization(ctx context.Context) (Organization, error) {
	var resp Organization
	err := c.get(ctx, "v0/organization", &resp)
	return resp, err
}

// Tasks lists tasks with derived status.
func (c *Client) Tasks(ctx context.Context, q TaskQuery) ([]Task, error) {
	values := url.Values{}
	if q.ProjectID != "" {
		values.Set("project_id", q.ProjectID)
	}
	if q.TeamID != "" {
		values.Set("team_id", q.TeamID)
	}
	if q.AssigneeID != "" {
		values.Set("assignee_id", q.AssigneeID)
	}
	if q.Limit > 0 {
		values.Set("limit", fmt.Sprintf("%d", q.Limit))
	}
	endpoint := "v0/tasks"
	if len(values) > 0 {
		endpoint += "?" + values.Encode()
	}
	var resp struct {
		Tasks []Task `json:"tasks"`
	}
	err := c.get(ctx, endpoint, &resp)
	return resp.Tasks, err
}

// Metrics fetches the aggregate QC metrics.
func (c *Client) Metrics(ctx context.Context) (Metrics, error) {
	var resp Metrics
	err := c.get(ctx, "v0/metrics", &resp)
	return resp, err
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if c.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
