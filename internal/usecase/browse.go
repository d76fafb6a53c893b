package usecase

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/ports"
	"github.com/alignedworks/cvx/internal/tokenmath"
)

// Browse covers the read-mostly platform flows: listing, showing, joining and
// answering invitations.
type Browse struct {
	api    ports.PlatformAPI
	cycles int
}

func NewBrowse(api ports.PlatformAPI, cycles int) *Browse {
	return &Browse{api: api, cycles: cycles}
}

func (uc *Browse) ListCollaboratives(ctx context.Context) ([]domain.Collaborative, error) {
	return uc.api.ListCollaboratives(ctx)
}

// CollaborativeDetail is a collaborative with its projects and release preview.
type CollaborativeDetail struct {
	Collaborative domain.Collaborative      `json:"collaborative"`
	Projects      []domain.Project          `json:"projects"`
	Schedule      tokenmath.ReleaseSchedule `json:"schedule"`
}

// ShowCollaborative fetches the collaborative and its projects concurrently.
func (uc *Browse) ShowCollaborative(ctx context.Context, id string) (CollaborativeDetail, error) {
	var d CollaborativeDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := uc.api.GetCollaborative(gctx, id)
		d.Collaborative = c
		return err
	})
	g.Go(func() error {
		ps, err := uc.api.ListProjects(gctx, id)
		d.Projects = ps
		return err
	})
	if err := g.Wait(); err != nil {
		return CollaborativeDetail{}, err
	}
	d.Schedule = tokenmath.BuildReleaseSchedule(ReleaseInputFor(d.Collaborative, uc.cycles))
	return d, nil
}

func (uc *Browse) JoinCollaborative(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid("collaborative.join", "collaborative id is required")
	}
	return uc.api.JoinCollaborative(ctx, id)
}

func (uc *Browse) ListProjects(ctx context.Context, collabID string) ([]domain.Project, error) {
	if strings.TrimSpace(collabID) == "" {
		return nil, invalid("project.list", "collaborative id is required")
	}
	return uc.api.ListProjects(ctx, collabID)
}

func (uc *Browse) ListMilestones(ctx context.Context, projectID string) ([]domain.Milestone, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, invalid("milestone.list", "project id is required")
	}
	return uc.api.ListMilestones(ctx, projectID)
}

func (uc *Browse) ListInvitations(ctx context.Context) ([]domain.Invitation, error) {
	return uc.api.ListInvitations(ctx)
}

func (uc *Browse) RespondInvitation(ctx context.Context, id string, resp domain.InvitationResponse) error {
	const op = "invitation.respond"
	if strings.TrimSpace(id) == "" {
		return invalid(op, "invitation id is required")
	}
	switch resp {
	case domain.InvitationAccept, domain.InvitationDecline:
	default:
		return invalid(op, "unknown response %q", resp)
	}
	return uc.api.RespondInvitation(ctx, id, resp)
}
