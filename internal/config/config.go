// Package config holds the generation profile: every stochastic knob of the
// pipeline in one YAML-loadable value, so benchmark runs can tune volumes and
// rates without touching the builders.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile models worksim.yml.
type Profile struct {
	Windows struct {
		// OrgHistoryDays is the simulation window for user and project
		// creation, counted back from "now".
		OrgHistoryDays int `yaml:"org_history_days"`
		// ProjectSpreadDays bounds project creation after window start.
		ProjectSpreadDays int `yaml:"project_spread_days"`
		// TaskHistoryDays bounds task creation back from "now".
		TaskHistoryDays   int `yaml:"task_history_days"`
		DueDateMinDays    int `yaml:"due_date_min_days"`
		DueDateMaxDays    int `yaml:"due_date_max_days"`
		CompletionMaxDays int `yaml:"completion_max_days"`
	} `yaml:"windows"`
	Rates struct {
		Assigned   float64 `yaml:"assigned"`
		DueDate    float64 `yaml:"due_date"`
		Completed  float64 `yaml:"completed"`
		Subtask    float64 `yaml:"subtask"`
		Comment    float64 `yaml:"comment"`
		Tagged     float64 `yaml:"tagged"`
		Attachment float64 `yaml:"attachment"`
	} `yaml:"rates"`
	Roles struct {
		MemberWeight int `yaml:"member_weight"`
		AdminWeight  int `yaml:"admin_weight"`
		GuestWeight  int `yaml:"guest_weight"`
	} `yaml:"roles"`
	Structure struct {
		AvgTeamSize        int `yaml:"avg_team_size"`
		MinTeams           int `yaml:"min_teams"`
		ProjectsPerTeamMin int `yaml:"projects_per_team_min"`
		ProjectsPerTeamMax int `yaml:"projects_per_team_max"`
		TasksPerProject    int `yaml:"tasks_per_project"`
		TaskScaleMax       int `yaml:"task_scale_max"`
		MaxCustomFields    int `yaml:"max_custom_fields"`
	} `yaml:"structure"`
	Vocab struct {
		Sections     []string `yaml:"sections"`
		Tags         []string `yaml:"tags"`
		CustomFields []string `yaml:"custom_fields"`
		FieldTypes   []string `yaml:"field_types"`
	} `yaml:"vocab"`
}

// Default returns the profile matching the documented benchmark rates.
func Default() *Profile {
	p := &Profile{}
	p.Windows.OrgHistoryDays = 180
	p.Windows.ProjectSpreadDays = 30
	p.Windows.TaskHistoryDays = 720
	p.Windows.DueDateMinDays = 1
	p.Windows.DueDateMaxDays = 90
	p.Windows.CompletionMaxDays = 60
	p.Rates.Assigned = 0.85
	p.Rates.DueDate = 0.90
	p.Rates.Completed = 0.60
	p.Rates.Subtask = 0.20
	p.Rates.Comment = 0.40
	p.Rates.Tagged = 0.35
	p.Rates.Attachment = 0.10
	p.Roles.MemberWeight = 85
	p.Roles.AdminWeight = 5
	p.Roles.GuestWeight = 10
	p.Structure.AvgTeamSize = 10
	p.Structure.MinTeams = 3
	p.Structure.ProjectsPerTeamMin = 1
	p.Structure.ProjectsPerTeamMax = 3
	p.Structure.TasksPerProject = 20
	p.Structure.TaskScaleMax = 5
	p.Structure.MaxCustomFields = 3
	p.Vocab.Sections = []string{"To Do", "In Progress", "Review", "Done"}
	p.Vocab.Tags = []string{"bug", "feature", "urgent", "customer-request", "research", "low-priority", "qa-blocked"}
	p.Vocab.CustomFields = []string{"Priority", "Story Points", "T-Shirt Size", "Reviewer", "Department"}
	p.Vocab.FieldTypes = []string{"text", "number", "enum"}
	return p
}

// Load reads a profile from path, starting from defaults so partial files
// only override what they name.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("profile %s not found", path)
		}
		return nil, err
	}
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Validate ensures the profile describes a runnable generation.
func (p *Profile) Validate() error {
	rates := map[string]float64{
		"rates.assigned":   p.Rates.Assigned,
		"rates.due_date":   p.Rates.DueDate,
		"rates.completed":  p.Rates.Completed,
		"rates.subtask":    p.Rates.Subtask,
		"rates.comment":    p.Rates.Comment,
		"rates.tagged":     p.Rates.Tagged,
		"rates.attachment": p.Rates.Attachment,
	}
	for name, v := range rates {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
	}
	for name, v := range map[string]int{
		"windows.org_history_days":    p.Windows.OrgHistoryDays,
		"windows.project_spread_days": p.Windows.ProjectSpreadDays,
		"windows.task_history_days":   p.Windows.TaskHistoryDays,
		"windows.due_date_max_days":   p.Windows.DueDateMaxDays,
		"windows.completion_max_days": p.Windows.CompletionMaxDays,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if p.Windows.DueDateMinDays < 1 {
		return fmt.Errorf("windows.due_date_min_days must be at least 1 so due dates land after creation")
	}
	if p.Windows.DueDateMinDays > p.Windows.DueDateMaxDays {
		return fmt.Errorf("windows.due_date_min_days exceeds due_date_max_days")
	}
	if p.Roles.MemberWeight+p.Roles.AdminWeight+p.Roles.GuestWeight <= 0 {
		return fmt.Errorf("role weights must sum to a positive value")
	}
	if p.Structure.AvgTeamSize <= 0 {
		return fmt.Errorf("structure.avg_team_size must be positive")
	}
	if p.Structure.MinTeams <= 0 {
		return fmt.Errorf("structure.min_teams must be positive")
	}
	if p.Structure.ProjectsPerTeamMin < 1 || p.Structure.ProjectsPerTeamMax < p.Structure.ProjectsPerTeamMin {
		return fmt.Errorf("structure.projects_per_team range invalid")
	}
	if p.Structure.TasksPerProject <= 0 || p.Structure.TaskScaleMax < 1 {
		return fmt.Errorf("structure task volume settings invalid")
	}
	if p.Structure.MaxCustomFields < 0 {
		return fmt.Errorf("structure.max_custom_fields must not be negative")
	}
	if len(p.Vocab.Tags) == 0 {
		return fmt.Errorf("vocab.tags must not be empty")
	}
	if len(p.Vocab.CustomFields) == 0 || len(p.Vocab.FieldTypes) == 0 {
		return fmt.Errorf("vocab custom field candidates must not be empty")
	}
	return nil
}
