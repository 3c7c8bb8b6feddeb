package gen

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"worksim/internal/domain"
)

// BuildOrganization creates the organization, its teams, the user population,
// round-robin team memberships, and 1-3 projects per team with the fixed
// workflow sections. It returns the context consumed by the later stages.
func (g Generator) BuildOrganization(ctx context.Context, numUsers int) (Context, error) {
	tx, err := g.DB.BeginTx(ctx, nil)
	if err != nil {
		return Context{}, err
	}
	defer tx.Rollback()

	now := g.now()
	windowStart := now.AddDate(0, 0, -g.Profile.Windows.OrgHistoryDays)

	org := domain.Organization{
		ID:   g.uid(),
		Name: g.Content.CompanyName(),
	}
	org.Domain = emailDomain(org.Name)
	if err := g.Repo.InsertOrganization(ctx, tx, org); err != nil {
		return Context{}, fmt.Errorf("insert organization: %w", err)
	}

	numTeams := numUsers / g.Profile.Structure.AvgTeamSize
	if numTeams < g.Profile.Structure.MinTeams {
		numTeams = g.Profile.Structure.MinTeams
	}
	teams := make([]TeamRef, 0, numTeams)
	for i := 0; i < numTeams; i++ {
		t := domain.Team{ID: g.uid(), OrgID: org.ID, Name: g.Content.TeamName()}
		if err := g.Repo.InsertTeam(ctx, tx, t); err != nil {
			return Context{}, fmt.Errorf("insert team: %w", err)
		}
		teams = append(teams, TeamRef{ID: t.ID, Name: t.Name})
	}

	users, err := g.buildUsers(ctx, tx, org.ID, numUsers, org.Domain, windowStart, now)
	if err != nil {
		return Context{}, err
	}

	// Round-robin membership keeps the distribution near-even; with few
	// users some teams simply end up empty.
	for i, u := range users {
		m := domain.TeamMembership{TeamID: teams[i%len(teams)].ID, UserID: u.ID}
		if err := g.Repo.InsertTeamMembership(ctx, tx, m); err != nil {
			return Context{}, fmt.Errorf("insert membership: %w", err)
		}
	}

	projectsPerTeam := UniformInt{Lo: g.Profile.Structure.ProjectsPerTeamMin, Hi: g.Profile.Structure.ProjectsPerTeamMax}
	projectOffset := UniformInt{Lo: 0, Hi: g.Profile.Windows.ProjectSpreadDays}
	var projects []ProjectRef
	for _, t := range teams {
		for i := 0; i < projectsPerTeam.Draw(g.Rand); i++ {
			createdAt := windowStart.AddDate(0, 0, projectOffset.Draw(g.Rand))
			p := domain.Project{
				ID:          g.uid(),
				TeamID:      t.ID,
				Name:        g.Content.ProjectName(),
				Description: g.Content.ProjectDescription(),
				CreatedAt:   ts(createdAt),
			}
			if err := g.Repo.InsertProject(ctx, tx, p); err != nil {
				return Context{}, fmt.Errorf("insert project: %w", err)
			}
			for _, name := range g.Profile.Vocab.Sections {
				s := domain.Section{ID: g.uid(), ProjectID: p.ID, Name: name}
				if err := g.Repo.InsertSection(ctx, tx, s); err != nil {
					return Context{}, fmt.Errorf("insert section: %w", err)
				}
			}
			projects = append(projects, ProjectRef{ID: p.ID, TeamID: t.ID, CreatedAt: createdAt})
		}
	}

	if err := tx.Commit(); err != nil {
		return Context{}, err
	}
	g.Log.Info("organization stage complete",
		zap.String("org", org.Name),
		zap.Int("teams", len(teams)),
		zap.Int("users", len(users)),
		zap.Int("projects", len(projects)))
	return Context{
		OrgID:    org.ID,
		Domain:   org.Domain,
		Teams:    teams,
		Users:    users,
		Projects: projects,
	}, nil
}

// emailDomain derives a clean domain from the first word of the company name.
func emailDomain(orgName string) string {
	first := orgName
	if i := strings.IndexByte(first, ' '); i >= 0 {
		first = first[:i]
	}
	first = strings.ToLower(strings.ReplaceAll(first, ",", ""))
	return first + ".com"
}
