package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/ports"
	"github.com/alignedworks/cvx/internal/tokenmath"
)

func invalid(op, format string, args ...any) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindInvalidConfig,
		Err:  fmt.Errorf("%w: %s", domain.ErrInvalidRequest, fmt.Sprintf(format, args...)),
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func checkPercent(op, field string, v float64) error {
	if !finite(v) || v < 0 || v > 100 {
		return invalid(op, "%s must be between 0 and 100, got %v", field, v)
	}
	return nil
}

type ProposeCollaborative struct {
	collabs ports.CollaborativeAPI
	cycles  int
}

func NewProposeCollaborative(collabs ports.CollaborativeAPI, cycles int) *ProposeCollaborative {
	return &ProposeCollaborative{collabs: collabs, cycles: cycles}
}

// Preview validates the proposal and returns the schedule it would produce.
// Previews clamp silently; submissions reject out-of-range input instead.
func (uc *ProposeCollaborative) Preview(p domain.CollaborativeProposal) (tokenmath.ReleaseSchedule, error) {
	const op = "collaborative.propose"
	if strings.TrimSpace(p.Name) == "" {
		return tokenmath.ReleaseSchedule{}, invalid(op, "name is required")
	}
	if !finite(p.TokensCreated) || p.TokensCreated <= 0 {
		return tokenmath.ReleaseSchedule{}, invalid(op, "tokens created must be positive, got %v", p.TokensCreated)
	}
	if err := checkPercent(op, "prior work percent", p.TokensPriorWorkPercent); err != nil {
		return tokenmath.ReleaseSchedule{}, err
	}
	if err := checkPercent(op, "release rate", p.TokenReleaseRate); err != nil {
		return tokenmath.ReleaseSchedule{}, err
	}
	if err := checkPercent(op, "admin compensation percent", p.CollabAdminCompensationPercent); err != nil {
		return tokenmath.ReleaseSchedule{}, err
	}

	return tokenmath.BuildReleaseSchedule(tokenmath.AdminCompensationInput{
		CompensationPercent: p.CollabAdminCompensationPercent,
		Schedule: tokenmath.ReleaseScheduleInput{
			TokensCreated:          p.TokensCreated,
			TokensPriorWorkPercent: p.TokensPriorWorkPercent,
			TokenReleaseRate:       p.TokenReleaseRate,
			CycleCount:             uc.cycles,
		},
	}), nil
}

// Execute previews and then submits the proposal.
func (uc *ProposeCollaborative) Execute(ctx context.Context, p domain.CollaborativeProposal) (domain.Collaborative, tokenmath.ReleaseSchedule, error) {
	sched, err := uc.Preview(p)
	if err != nil {
		return domain.Collaborative{}, sched, err
	}
	c, err := uc.collabs.ProposeCollaborative(ctx, p)
	if err != nil {
		return domain.Collaborative{}, sched, err
	}
	return c, sched, nil
}

type LaunchProject struct {
	budgets  *PreviewBudget
	projects ports.ProjectAPI
}

func NewLaunchProject(collabs ports.CollaborativeAPI, projects ports.ProjectAPI) *LaunchProject {
	return &LaunchProject{budgets: NewPreviewBudget(collabs, projects), projects: projects}
}

// Execute previews the budget against the collaborative's launch-token balance and
// submits it. Advisories block the launch with *AdvisoryError unless force is set.
func (uc *LaunchProject) Execute(ctx context.Context, l domain.ProjectLaunch, force bool) (domain.Project, BudgetPreview, error) {
	const op = "project.launch"
	if strings.TrimSpace(l.CollabID) == "" || strings.TrimSpace(l.Name) == "" {
		return domain.Project{}, BudgetPreview{}, invalid(op, "collaborative and name are required")
	}
	if !finite(l.AdminPay) || l.AdminPay < 0 {
		return domain.Project{}, BudgetPreview{}, invalid(op, "admin pay must not be negative, got %v", l.AdminPay)
	}

	p, err := uc.budgets.ForProject(ctx, l.CollabID, l.Budget, l.AdminPay)
	if err != nil {
		return domain.Project{}, BudgetPreview{}, err
	}
	if !p.Applicable {
		return domain.Project{}, p, invalid(op, "budget must be positive, got %v", l.Budget)
	}
	if err := checkAdvisories(p, force); err != nil {
		return domain.Project{}, p, err
	}

	created, err := uc.projects.LaunchProject(ctx, l)
	if err != nil {
		return domain.Project{}, p, err
	}
	return created, p, nil
}

type CreateMilestone struct {
	budgets    *PreviewBudget
	milestones ports.MilestoneAPI
}

func NewCreateMilestone(projects ports.ProjectAPI, milestones ports.MilestoneAPI) *CreateMilestone {
	return &CreateMilestone{budgets: NewPreviewBudget(nil, projects), milestones: milestones}
}

// Execute previews the payout against the project balance and creates the
// milestone, with the same advisory policy as LaunchProject.
func (uc *CreateMilestone) Execute(ctx context.Context, d domain.MilestoneDraft, force bool) (domain.Milestone, BudgetPreview, error) {
	const op = "milestone.create"
	if strings.TrimSpace(d.ProjectID) == "" || strings.TrimSpace(d.Title) == "" {
		return domain.Milestone{}, BudgetPreview{}, invalid(op, "project and title are required")
	}

	p, err := uc.budgets.ForMilestone(ctx, d.ProjectID, d.Payout)
	if err != nil {
		return domain.Milestone{}, BudgetPreview{}, err
	}
	if !p.Applicable {
		return domain.Milestone{}, p, invalid(op, "payout must be positive, got %v", d.Payout)
	}
	if err := checkAdvisories(p, force); err != nil {
		return domain.Milestone{}, p, err
	}

	m, err := uc.milestones.CreateMilestone(ctx, d)
	if err != nil {
		return domain.Milestone{}, p, err
	}
	return m, p, nil
}
