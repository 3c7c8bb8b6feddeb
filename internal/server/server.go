// Package server exposes the generated store over a read-only HTTP API.
// The explorer never mutates the dataset; every endpoint is a query.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"worksim/internal/dashboard"
	"worksim/internal/repo"
)

// Config for the HTTP explorer handler.
type Config struct {
	Repo     repo.Repo
	BasePath string
	Auth     AuthConfig
	Now      func() time.Time
}

type apiErrorBody struct {
	Code    string `json:"code" example:"not_found"`
	Message string `json:"message" example:"store holds no organization"`
}

type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns the explorer handler.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg)
	}

	router := chi.NewRouter()
	router.Use(newAuthMiddleware(basePath, cfg.Auth))
	hcfg := huma.DefaultConfig("Worksim Explorer API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerHealth(group)
	registerOrganization(group, cfg.Repo)
	registerTasks(group, cfg.Repo, now)
	registerMetrics(group, cfg.Repo, now)

	return router, nil
}

func newAPIError(status int, code, message string) huma.StatusError {
	if code == "" {
		switch status {
		case http.StatusNotFound:
			code = "not_found"
		case http.StatusUnauthorized:
			code = "unauthorized"
		case http.StatusBadRequest:
			code = "bad_request"
		default:
			code = "internal_error"
		}
	}
	return &apiError{status: status, Body: apiErrorBody{Code: code, Message: message}}
}

func handleError(err error) huma.StatusError {
	if errors.Is(err, repo.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error())
	}
	return newAPIError(http.StatusInternalServerError, "internal_error", err.Error())
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerOrganization(api huma.API, r repo.Repo) {
	type orgOutput struct {
		Body struct {
			OrgID  string `json:"org_id"`
			Name   string `json:"name"`
			Domain string `json:"domain"`
			Teams  int    `json:"teams"`
		} `json:"body"`
	}
	huma.Register(api, huma.Operation{
		OperationID: "organization",
		Method:      http.MethodGet,
		Path:        "/organization",
		Summary:     "Generated organization summary",
	}, func(ctx context.Context, _ *struct{}) (*orgOutput, error) {
		org, err := r.GetOrganization(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		teams, err := r.ListTeams(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		out := &orgOutput{}
		out.Body.OrgID = org.ID
		out.Body.Name = org.Name
		out.Body.Domain = org.Domain
		out.Body.Teams = len(teams)
		return out, nil
	})
}

func registerTasks(api huma.API, r repo.Repo, now func() time.Time) {
	type tasksInput struct {
		ProjectID  string `query:"project_id" doc:"Filter by project"`
		TeamID     string `query:"team_id" doc:"Filter by team"`
		AssigneeID string `query:"assignee_id" doc:"Filter by assignee"`
		Limit      int    `query:"limit" default:"100" minimum:"1" maximum:"1000"`
	}
	type tasksOutput struct {
		Body struct {
			Tasks []dashboard.Row `json:"tasks"`
		} `json:"body"`
	}
	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks with derived status",
	}, func(ctx context.Context, input *tasksInput) (*tasksOutput, error) {
		limit := input.Limit
		if limit <= 0 {
			limit = 100
		}
		rows, err := r.ListTaskRows(ctx, repo.TaskFilter{
			ProjectID:  input.ProjectID,
			TeamID:     input.TeamID,
			AssigneeID: input.AssigneeID,
			Limit:      limit,
		})
		if err != nil {
			return nil, handleError(err)
		}
		out := &tasksOutput{}
		out.Body.Tasks = dashboard.Annotate(rows, now())
		return out, nil
	})
}

func registerMetrics(api huma.API, r repo.Repo, now func() time.Time) {
	type metricsOutput struct {
		Body repo.Metrics `json:"body"`
	}
	huma.Register(api, huma.Operation{
		OperationID: "metrics",
		Method:      http.MethodGet,
		Path:        "/metrics",
		Summary:     "Aggregate QC metrics",
	}, func(ctx context.Context, _ *struct{}) (*metricsOutput, error) {
		m, err := r.ComputeMetrics(ctx, now())
		if err != nil {
			return nil, handleError(err)
		}
		return &metricsOutput{Body: m}, nil
	})
}
