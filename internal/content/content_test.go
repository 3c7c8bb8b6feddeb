package content

import (
	"strings"
	"testing"
)

func TestFakerProducesNonEmptyText(t *testing.T) {
	s := NewFaker(1)
	if s.CompanyName() == "" || s.FullName() == "" || s.JobTitle() == "" {
		t.Fatal("identity fields must be non-empty")
	}
	if s.TeamName() == "" || s.ProjectName() == "" || s.ProjectDescription() == "" {
		t.Fatal("project fields must be non-empty")
	}
	if s.TaskName() == "" || s.Sentence() == "" || s.Word() == "" {
		t.Fatal("task fields must be non-empty")
	}
	if !strings.HasSuffix(s.CompanyName(), " Inc.") {
		t.Fatal("company names carry the Inc. suffix")
	}
	if !strings.HasSuffix(s.FileName("pdf"), ".pdf") {
		t.Fatal("filenames carry the requested extension")
	}
}

func TestFakerNameLengthCaps(t *testing.T) {
	s := NewFaker(2)
	for i := 0; i < 200; i++ {
		if n := s.TeamName(); len(n) > 40 {
			t.Fatalf("team name %q exceeds 40 chars", n)
		}
		if n := s.ProjectName(); len(n) > 80 {
			t.Fatalf("project name %q exceeds 80 chars", n)
		}
	}
}

func TestTaskDescriptionTiers(t *testing.T) {
	s := NewFaker(3)
	sawEmpty, sawShort, sawChecklist := false, false, false
	for i := 0; i < 500; i++ {
		desc := s.TaskDescription("Fix Flow API")
		switch {
		case desc == "":
			sawEmpty = true
		case strings.Contains(desc, "- [ ]"):
			sawChecklist = true
		default:
			sawShort = true
		}
	}
	if !sawEmpty || !sawShort || !sawChecklist {
		t.Fatalf("expected all description tiers; empty=%v short=%v checklist=%v", sawEmpty, sawShort, sawChecklist)
	}
}

func TestSeededFakerIsReproducible(t *testing.T) {
	a, b := NewFaker(42), NewFaker(42)
	for i := 0; i < 50; i++ {
		if a.TaskName() != b.TaskName() {
			t.Fatal("same seed produced diverging task names")
		}
	}
}

// emptySource fails every draw so the fallback path is exercised.
type emptySource struct{}

func (emptySource) CompanyName() string           { return "" }
func (emptySource) FullName() string              { return "" }
func (emptySource) JobTitle() string              { return "" }
func (emptySource) TeamName() string              { return "" }
func (emptySource) ProjectName() string           { return "" }
func (emptySource) ProjectDescription() string    { return "" }
func (emptySource) TaskName() string              { return "" }
func (emptySource) TaskDescription(string) string { return "" }
func (emptySource) Sentence() string              { return "" }
func (emptySource) Word() string                  { return "" }
func (emptySource) FileName(string) string        { return "" }

func TestFallbackRecoversEmptyDraws(t *testing.T) {
	s := WithFallback(emptySource{})
	if s.CompanyName() == "" || s.FullName() == "" || s.JobTitle() == "" ||
		s.TeamName() == "" || s.ProjectName() == "" || s.ProjectDescription() == "" ||
		s.TaskName() == "" || s.Sentence() == "" || s.Word() == "" || s.FileName("pdf") == "" {
		t.Fatal("fallback must substitute every empty draw")
	}
	// The company list cycles rather than repeating one entry.
	first := s.CompanyName()
	second := s.CompanyName()
	if first == second {
		t.Fatalf("fallback companies did not cycle: %q twice", first)
	}
}

func TestFallbackPassesThroughRealValues(t *testing.T) {
	s := WithFallback(NewFaker(4))
	for i := 0; i < 20; i++ {
		if s.FullName() == "" {
			t.Fatal("expected a generated name")
		}
	}
	if s.names.next != 0 {
		t.Fatal("fallback cycler advanced on successful draws")
	}
}
