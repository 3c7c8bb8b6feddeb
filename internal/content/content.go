// Package content supplies the plausible-text surface of the generator:
// company and person names, task names and descriptions, sentences, words,
// filenames. Callers treat it as a black box; the only contract is non-empty,
// realistic strings.
package content

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

// Source is the opaque text provider consumed by the builders.
type Source interface {
	CompanyName() string
	FullName() string
	JobTitle() string
	TeamName() string
	ProjectName() string
	ProjectDescription() string
	TaskName() string
	TaskDescription(name string) string
	Sentence() string
	Word() string
	FileName(ext string) string
}

// Faker is the default Source, backed by gofakeit. A non-zero seed makes the
// stream reproducible.
type Faker struct {
	f *gofakeit.Faker
}

// NewFaker returns a seeded Faker. Seed 0 picks a random stream.
func NewFaker(seed uint64) *Faker {
	return &Faker{f: gofakeit.New(seed)}
}

func (s *Faker) CompanyName() string {
	return s.f.Company() + " Inc."
}

func (s *Faker) FullName() string {
	return s.f.Name()
}

func (s *Faker) JobTitle() string {
	return s.f.JobTitle()
}

func (s *Faker) TeamName() string {
	name := titleCase(s.f.BS())
	if len(name) > 40 {
		name = name[:40]
	}
	return name
}

func (s *Faker) ProjectName() string {
	name := titleCase(s.f.Phrase())
	if len(name) > 80 {
		name = name[:80]
	}
	return name
}

func (s *Faker) ProjectDescription() string {
	return s.f.Sentence(12)
}

var (
	taskPrefixes = []string{"Update", "Implement", "Fix", "Refactor", "Research"}
	taskSubjects = []string{"API", "UI Module", "Database Schema", "Auth Flow", "Documentation"}
)

// TaskName mimics professional task naming conventions rather than raw
// lorem ipsum.
func (s *Faker) TaskName() string {
	switch s.f.Number(0, 2) {
	case 0:
		return fmt.Sprintf("%s %s %s",
			taskPrefixes[s.f.Number(0, len(taskPrefixes)-1)],
			titleCase(s.f.Word()),
			taskSubjects[s.f.Number(0, len(taskSubjects)-1)])
	case 1:
		return fmt.Sprintf("%s: %s",
			taskSubjects[s.f.Number(0, len(taskSubjects)-1)],
			s.f.Phrase())
	default:
		return fmt.Sprintf("[%s] - %s",
			strings.ToUpper(s.f.Word()),
			titleCase(s.f.BS()))
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// TaskDescription returns tiered complexity: some tasks have no description,
// most a short paragraph, the rest a paragraph plus a checklist.
func (s *Faker) TaskDescription(name string) string {
	roll := s.f.Float64Range(0, 1)
	if roll < 0.15 {
		return ""
	}
	if roll < 0.50 {
		return s.f.Paragraph(1, 3, 10, " ")
	}
	overview := s.f.Paragraph(1, 2, 10, " ")
	items := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		items = append(items, "- [ ] "+s.f.Sentence(5))
	}
	return overview + "\n\nKey Tasks:\n" + strings.Join(items, "\n")
}

func (s *Faker) Sentence() string {
	return s.f.Sentence(8)
}

func (s *Faker) Word() string {
	return s.f.Word()
}

func (s *Faker) FileName(ext string) string {
	return fmt.Sprintf("%s_%s.%s", s.f.Word(), s.f.Word(), ext)
}
