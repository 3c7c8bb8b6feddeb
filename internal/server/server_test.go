package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"worksim/internal/config"
	"worksim/internal/db"
	"worksim/internal/gen"
	"worksim/internal/migrate"
	"worksim/internal/repo"
)

func newTestServer(t *testing.T, auth AuthConfig) *httptest.Server {
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
	g := gen.New(conn, config.Default(), 1)
	g.Now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	if _, err := g.Run(context.Background(), gen.Options{NumUsers: 10, Density: 0.2}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	handler, err := New(Config{Repo: repo.Repo{DB: conn}, BasePath: "/v0", Auth: auth})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if out != nil && resp.StatusCode < 300 {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("decode %s: %v (body: %s)", url, err, body)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, AuthConfig{})
	var body map[string]string
	if status := getJSON(t, srv.URL+"/v0/health", &body); status != http.StatusOK {
		t.Fatalf("health returned %d", status)
	}
	if body["status"] != "ok" {
		t.Fatalf("health body = %v", body)
	}
}

func TestOrganizationSummary(t *testing.T) {
	srv := newTestServer(t, AuthConfig{})
	var body struct {
		OrgID  string `json:"org_id"`
		Name   string `json:"name"`
		Domain string `json:"domain"`
		Teams  int    `json:"teams"`
	}
	if status := getJSON(t, srv.URL+"/v0/organization", &body); status != http.StatusOK {
		t.Fatalf("organization returned %d", status)
	}
	if body.OrgID == "" || body.Name == "" || body.Domain == "" {
		t.Fatalf("incomplete organization summary: %+v", body)
	}
	if body.Teams != 3 {
		t.Fatalf("10 users should yield 3 teams, got %d", body.Teams)
	}
}

func TestListTasksWithStatus(t *testing.T) {
	srv := newTestServer(t, AuthConfig{})
	var body struct {
		Tasks []struct {
			TaskID      string `json:"task_id"`
			ProjectName string `json:"project_name"`
			TeamName    string `json:"team_name"`
			Status      string `json:"status"`
		} `json:"tasks"`
	}
	if status := getJSON(t, srv.URL+"/v0/tasks?limit=20", &body); status != http.StatusOK {
		t.Fatalf("tasks returned %d", status)
	}
	if len(body.Tasks) == 0 {
		t.Fatal("expected generated tasks")
	}
	valid := map[string]bool{"Completed": true, "Overdue": true, "In Progress": true, "Open": true}
	for _, task := range body.Tasks {
		if task.TaskID == "" || task.ProjectName == "" || task.TeamName == "" {
			t.Fatalf("incomplete task row: %+v", task)
		}
		if !valid[task.Status] {
			t.Fatalf("unexpected status %q", task.Status)
		}
	}
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t, AuthConfig{})
	var body repo.Metrics
	if status := getJSON(t, srv.URL+"/v0/metrics", &body); status != http.StatusOK {
		t.Fatalf("metrics returned %d", status)
	}
	if body.TotalUsers != 10 {
		t.Fatalf("total users = %d, want 10", body.TotalUsers)
	}
	if body.TotalTasks == 0 {
		t.Fatal("expected generated tasks in metrics")
	}
}

func TestAuthRequiredWhenSecretSet(t *testing.T) {
	srv := newTestServer(t, AuthConfig{JWTSecret: "test-secret"})
	if status := getJSON(t, srv.URL+"/v0/tasks", nil); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", status)
	}
	// Health stays open for probes.
	if status := getJSON(t, srv.URL+"/v0/health", nil); status != http.StatusOK {
		t.Fatalf("health should bypass auth, got %d", status)
	}
}
