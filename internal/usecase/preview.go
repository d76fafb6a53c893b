package usecase

import (
	"context"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/ports"
	"github.com/alignedworks/cvx/internal/tokenmath"
)

// ReleaseInputFor maps a collaborative's token settings onto preview input.
func ReleaseInputFor(c domain.Collaborative, cycles int) tokenmath.AdminCompensationInput {
	return tokenmath.AdminCompensationInput{
		CompensationPercent: c.CollabAdminCompensationPercent,
		Schedule: tokenmath.ReleaseScheduleInput{
			TokensCreated:          c.TokensCreated,
			TokensPriorWorkPercent: c.TokensPriorWorkPercent,
			TokenReleaseRate:       c.TokenReleaseRate,
			CycleCount:             cycles,
		},
	}
}

type PreviewRelease struct {
	collabs ports.CollaborativeAPI
	cycles  int
}

// NewPreviewRelease previews release schedules. collabs may be nil when only
// form input is previewed. cycles is the workspace default cycle count.
func NewPreviewRelease(collabs ports.CollaborativeAPI, cycles int) *PreviewRelease {
	return &PreviewRelease{collabs: collabs, cycles: cycles}
}

// Execute previews a schedule for form input. A missing cycle count uses the workspace default.
func (uc *PreviewRelease) Execute(in tokenmath.AdminCompensationInput) tokenmath.ReleaseSchedule {
	if in.Schedule.CycleCount <= 0 {
		in.Schedule.CycleCount = uc.cycles
	}
	return tokenmath.BuildReleaseSchedule(in)
}

// ForCollaborative previews the schedule of an existing collaborative.
func (uc *PreviewRelease) ForCollaborative(ctx context.Context, id string) (domain.Collaborative, tokenmath.ReleaseSchedule, error) {
	c, err := uc.collabs.GetCollaborative(ctx, id)
	if err != nil {
		return domain.Collaborative{}, tokenmath.ReleaseSchedule{}, err
	}
	return c, uc.Execute(ReleaseInputFor(c, uc.cycles)), nil
}

// BudgetPreview is an allocation preview against a known balance.
type BudgetPreview struct {
	// Source names the balance holder, e.g. "collaborative Makers".
	Source     string                           `json:"source"`
	Balance    float64                          `json:"balance"`
	Requested  float64                          `json:"requested"`
	Committed  float64                          `json:"committed"`
	Applicable bool                             `json:"applicable"`
	Result     tokenmath.BudgetAllocationResult `json:"result"`
}

// NewBudgetPreview runs the allocation math for an explicit balance.
func NewBudgetPreview(source string, balance *float64, requested, committed float64) BudgetPreview {
	res, ok := tokenmath.BudgetAllocationPreview(tokenmath.BudgetAllocationInput{
		TotalAvailableBalance:  balance,
		RequestedAmount:        requested,
		AlreadyCommittedAmount: committed,
	})
	p := BudgetPreview{
		Source:     source,
		Requested:  requested,
		Committed:  committed,
		Applicable: ok,
		Result:     res,
	}
	if balance != nil {
		p.Balance = *balance
	}
	return p
}

type PreviewBudget struct {
	collabs  ports.CollaborativeAPI
	projects ports.ProjectAPI
}

func NewPreviewBudget(collabs ports.CollaborativeAPI, projects ports.ProjectAPI) *PreviewBudget {
	return &PreviewBudget{collabs: collabs, projects: projects}
}

// ForProject previews a project budget carved out of a collaborative's launch tokens;
// adminPay is the part of the budget already committed to the project admin.
func (uc *PreviewBudget) ForProject(ctx context.Context, collabID string, budget, adminPay float64) (BudgetPreview, error) {
	c, err := uc.collabs.GetCollaborative(ctx, collabID)
	if err != nil {
		return BudgetPreview{}, err
	}
	bal := c.LaunchTokenBalance
	return NewBudgetPreview("collaborative "+c.Name, &bal, budget, adminPay), nil
}

// ForMilestone previews a milestone payout against its project's balance.
func (uc *PreviewBudget) ForMilestone(ctx context.Context, projectID string, payout float64) (BudgetPreview, error) {
	p, err := uc.projects.GetProject(ctx, projectID)
	if err != nil {
		return BudgetPreview{}, err
	}
	bal := p.Balance
	return NewBudgetPreview("project "+p.Name, &bal, payout, 0), nil
}
