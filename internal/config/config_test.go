package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}
}

func TestValidateRejectsBadRates(t *testing.T) {
	p := Default()
	p.Rates.Completed = 1.5
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for rate above 1")
	}
	p = Default()
	p.Rates.Assigned = -0.1
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for negative rate")
	}
}

func TestValidateRejectsBadWindows(t *testing.T) {
	p := Default()
	p.Windows.TaskHistoryDays = 0
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for zero task history")
	}
	p = Default()
	p.Windows.DueDateMinDays = 0
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for due date min below 1")
	}
	p = Default()
	p.Windows.DueDateMinDays = 10
	p.Windows.DueDateMaxDays = 5
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for inverted due date range")
	}
}

func TestValidateRejectsEmptyVocab(t *testing.T) {
	p := Default()
	p.Vocab.Tags = nil
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for empty tag vocabulary")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worksim.yml")
	data := []byte("rates:\n  completed: 0.75\nstructure:\n  avg_team_size: 5\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Rates.Completed != 0.75 {
		t.Fatalf("completed rate = %v, want 0.75", p.Rates.Completed)
	}
	if p.Structure.AvgTeamSize != 5 {
		t.Fatalf("avg team size = %d, want 5", p.Structure.AvgTeamSize)
	}
	// Untouched keys keep their defaults.
	if p.Rates.Assigned != 0.85 {
		t.Fatalf("assigned rate = %v, want default 0.85", p.Rates.Assigned)
	}
	if len(p.Vocab.Tags) != 7 {
		t.Fatalf("tag vocabulary = %d entries, want default 7", len(p.Vocab.Tags))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("expected error for missing profile")
	}
}

func TestLoadRejectsInvalidProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worksim.yml")
	if err := os.WriteFile(path, []byte("rates:\n  subtask: 2.0\n"), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}
