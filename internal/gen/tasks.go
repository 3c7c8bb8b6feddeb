package gen

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"worksim/internal/domain"
)

// assigneePoolLimit caps how many team members the task builder samples from.
const assigneePoolLimit = 200

// attachmentURL is a placeholder; the dataset only needs the column populated.
const attachmentURL = "https://files.example/s"

// BuildTasks generates tasks and their artifacts (subtasks, comments, tags,
// custom-field values, attachments) for every project in the context. Each
// artifact decision is an independent Bernoulli draw with the configured
// probability; the resulting dataset matches the benchmark rates only in
// aggregate, never exactly.
func (g Generator) BuildTasks(ctx context.Context, c Context, density float64) error {
	rates := g.Profile.Rates
	dists := taskDistributions{
		assigned:     Bernoulli{P: rates.Assigned},
		dueDate:      Bernoulli{P: rates.DueDate},
		completed:    Bernoulli{P: rates.Completed},
		subtask:      Bernoulli{P: rates.Subtask},
		comment:      Bernoulli{P: rates.Comment},
		tagged:       Bernoulli{P: rates.Tagged},
		attachment:   Bernoulli{P: rates.Attachment},
		scale:        UniformInt{Lo: 1, Hi: g.Profile.Structure.TaskScaleMax},
		createdAge:   UniformInt{Lo: 0, Hi: g.Profile.Windows.TaskHistoryDays},
		dueOffset:    UniformInt{Lo: g.Profile.Windows.DueDateMinDays, Hi: g.Profile.Windows.DueDateMaxDays},
		doneOffset:   UniformInt{Lo: 0, Hi: g.Profile.Windows.CompletionMaxDays},
		recentMinute: UniformInt{Lo: 1, Hi: 60},
		fieldValue:   UniformInt{Lo: 1, Hi: 100},
	}

	now := g.now()
	total := 0
	for _, p := range c.Projects {
		n, err := g.buildProjectTasks(ctx, c, p, density, dists, now)
		if err != nil {
			return fmt.Errorf("project %s: %w", p.ID, err)
		}
		total += n
	}
	g.Log.Info("task stage complete", zap.Int("projects", len(c.Projects)), zap.Int("tasks", total))
	return nil
}

type taskDistributions struct {
	assigned     Bernoulli
	dueDate      Bernoulli
	completed    Bernoulli
	subtask      Bernoulli
	comment      Bernoulli
	tagged       Bernoulli
	attachment   Bernoulli
	scale        UniformInt
	createdAge   UniformInt
	dueOffset    UniformInt
	doneOffset   UniformInt
	recentMinute UniformInt
	fieldValue   UniformInt
}

func (g Generator) buildProjectTasks(ctx context.Context, c Context, p ProjectRef, density float64, dists taskDistributions, now time.Time) (int, error) {
	sections, err := g.Repo.SectionsForProject(ctx, p.ID)
	if err != nil {
		return 0, fmt.Errorf("load sections: %w", err)
	}
	members, err := g.Repo.TeamMemberIDs(ctx, p.TeamID, assigneePoolLimit)
	if err != nil {
		return 0, fmt.Errorf("load team members: %w", err)
	}
	fields := c.fieldsForProject(p.ID)

	tx, err := g.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	numTasks := int(float64(g.Profile.Structure.TasksPerProject) * density * float64(dists.scale.Draw(g.Rand)))
	for i := 0; i < numTasks; i++ {
		if err := g.buildTask(ctx, tx, c, p, sections, members, fields, dists, now); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	g.Log.Debug("project tasks written", zap.String("project_id", p.ID), zap.Int("tasks", numTasks))
	return numTasks, nil
}

func (g Generator) buildTask(ctx context.Context, tx *sql.Tx, c Context, p ProjectRef, sections []domain.Section, members []string, fields []FieldRef, dists taskDistributions, now time.Time) error {
	name := g.Content.TaskName()

	var sectionID *string
	if len(sections) > 0 {
		s := pick(g.Rand, sections)
		sectionID = &s.ID
	}

	// An unassignable roll (empty team) leaves the task unassigned
	// regardless of the probability.
	var assignee *string
	if len(members) > 0 && dists.assigned.Draw(g.Rand) {
		id := pick(g.Rand, members)
		assignee = &id
	}

	created := now.AddDate(0, 0, -dists.createdAge.Draw(g.Rand))

	var due *string
	if dists.dueDate.Draw(g.Rand) {
		d := ts(created.AddDate(0, 0, dists.dueOffset.Draw(g.Rand)))
		due = &d
	}

	completed := false
	var completedAt *string
	if dists.completed.Draw(g.Rand) {
		completed = true
		doneAt := created.AddDate(0, 0, dists.doneOffset.Draw(g.Rand))
		if doneAt.After(now) {
			doneAt = now.Add(-time.Duration(dists.recentMinute.Draw(g.Rand)) * time.Minute)
			if doneAt.Before(created) {
				doneAt = created
			}
		}
		d := ts(doneAt)
		completedAt = &d
	}

	task := domain.Task{
		ID:          g.uid(),
		ProjectID:   p.ID,
		SectionID:   sectionID,
		Name:        name,
		Description: g.Content.TaskDescription(name),
		AssigneeID:  assignee,
		DueDate:     due,
		CreatedAt:   ts(created),
		Completed:   completed,
		CompletedAt: completedAt,
	}
	if err := g.Repo.InsertTask(ctx, tx, task); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	// Subtasks stay minimal: same project and section, one level deep,
	// no assignee or due date of their own.
	if dists.subtask.Draw(g.Rand) {
		sub := domain.Task{
			ID:           g.uid(),
			ProjectID:    p.ID,
			SectionID:    sectionID,
			ParentTaskID: &task.ID,
			Name:         "Subtask: " + name,
			CreatedAt:    task.CreatedAt,
		}
		if err := g.Repo.InsertTask(ctx, tx, sub); err != nil {
			return fmt.Errorf("insert subtask: %w", err)
		}
	}

	if assignee != nil && dists.comment.Draw(g.Rand) {
		comment := domain.Comment{
			ID:        g.uid(),
			TaskID:    task.ID,
			UserID:    *assignee,
			Body:      g.Content.Sentence(),
			CreatedAt: ts(commentTime(created, now)),
		}
		if err := g.Repo.InsertComment(ctx, tx, comment); err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
	}

	if len(c.Tags) > 0 && dists.tagged.Draw(g.Rand) {
		tag := pick(g.Rand, c.Tags)
		tt := domain.TaskTag{ID: g.uid(), TaskID: task.ID, TagID: tag.ID}
		if err := g.Repo.InsertTaskTag(ctx, tx, tt); err != nil {
			return fmt.Errorf("insert task tag: %w", err)
		}
	}

	// Exactly one value per project field, unconditionally.
	for _, f := range fields {
		value := g.Content.Word()
		if f.FieldType == "number" {
			value = strconv.Itoa(dists.fieldValue.Draw(g.Rand))
		}
		cfv := domain.CustomFieldValue{ID: g.uid(), FieldID: f.ID, TaskID: task.ID, Value: value}
		if err := g.Repo.InsertCustomFieldValue(ctx, tx, cfv); err != nil {
			return fmt.Errorf("insert custom field value: %w", err)
		}
	}

	if dists.attachment.Draw(g.Rand) {
		att := domain.Attachment{
			ID:         g.uid(),
			TaskID:     task.ID,
			Filename:   g.Content.FileName("pdf"),
			URL:        attachmentURL,
			UploadedBy: assignee,
			CreatedAt:  task.CreatedAt,
		}
		if err := g.Repo.InsertAttachment(ctx, tx, att); err != nil {
			return fmt.Errorf("insert attachment: %w", err)
		}
	}
	return nil
}

// commentTime places a comment one day after its task, pulled back to "now"
// for very fresh tasks while staying strictly after the task's creation.
func commentTime(created, now time.Time) time.Time {
	at := created.AddDate(0, 0, 1)
	if at.After(now) {
		at = now
	}
	if !at.After(created) {
		at = created.Add(time.Minute)
	}
	return at
}
