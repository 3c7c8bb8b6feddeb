package gen

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode"

	"worksim/internal/domain"
)

// buildUsers generates the user population for the organization. Emails are
// derived deterministically from the full name and the organization domain;
// collisions are possible and deliberately not deduplicated.
func (g Generator) buildUsers(ctx context.Context, tx *sql.Tx, orgID string, numUsers int, domainName string, windowStart, now time.Time) ([]UserRef, error) {
	roles := WeightedChoice{
		Items:   []string{"member", "admin", "guest"},
		Weights: []int{g.Profile.Roles.MemberWeight, g.Profile.Roles.AdminWeight, g.Profile.Roles.GuestWeight},
	}
	joinOffset := UniformInt{Lo: 0, Hi: g.Profile.Windows.OrgHistoryDays}

	users := make([]UserRef, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		fullName := g.Content.FullName()
		roleType := roles.Draw(g.Rand)

		createdAt := windowStart.AddDate(0, 0, joinOffset.Draw(g.Rand))
		if createdAt.After(now) {
			createdAt = now
		}

		u := domain.User{
			ID:        g.uid(),
			OrgID:     orgID,
			Email:     deriveEmail(fullName, domainName),
			FullName:  fullName,
			Role:      fmt.Sprintf("%s (%s)", g.Content.JobTitle(), roleType),
			CreatedAt: ts(createdAt),
		}
		if err := g.Repo.InsertUser(ctx, tx, u); err != nil {
			return nil, fmt.Errorf("insert user: %w", err)
		}
		users = append(users, UserRef{ID: u.ID, Email: u.Email, FullName: fullName, Role: roleType})
	}
	return users, nil
}

// deriveEmail lowercases the name, replaces spaces with a separator, then
// strips everything non-alphanumeric (the separator included) before
// appending the domain.
func deriveEmail(fullName, domainName string) string {
	cleaned := strings.ReplaceAll(strings.ToLower(fullName), " ", ".")
	var b strings.Builder
	for _, r := range cleaned {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String() + "@" + domainName
}
