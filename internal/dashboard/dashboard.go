// Package dashboard holds the read-only derivations shown by the explorer:
// the per-task status label and helpers around the QC metrics. It never
// writes to the store.
package dashboard

import (
	"strings"
	"time"

	"worksim/internal/repo"
)

const (
	StatusCompleted  = "Completed"
	StatusOverdue    = "Overdue"
	StatusInProgress = "In Progress"
	StatusOpen       = "Open"
)

// Status derives the display status for a task row. Completion wins over
// everything; an expired due date wins over section placement; the
// "In Progress" section is matched case-insensitively.
func Status(row repo.TaskRow, now time.Time) string {
	if row.Completed {
		return StatusCompleted
	}
	if row.DueDate != nil {
		if due, err := time.Parse(time.RFC3339, *row.DueDate); err == nil && due.Before(now) {
			return StatusOverdue
		}
	}
	if row.SectionName != nil && strings.EqualFold(*row.SectionName, "in progress") {
		return StatusInProgress
	}
	return StatusOpen
}

// Row is a TaskRow with its derived status, as rendered by the explorer.
type Row struct {
	repo.TaskRow
	Status string `json:"status"`
}

// Annotate attaches the derived status to each row.
func Annotate(rows []repo.TaskRow, now time.Time) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, Row{TaskRow: r, Status: Status(r, now)})
	}
	return out
}
