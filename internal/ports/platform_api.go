package ports

import (
	"context"

	"github.com/alignedworks/cvx/internal/domain"
)

// AuthAPI authenticates against the platform. Login returns the auth cookies the
// server issued so they can be remembered in the local session.
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.User, []domain.Cookie, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (domain.User, error)
}

// CollaborativeAPI reads and proposes collaboratives.
type CollaborativeAPI interface {
	ListCollaboratives(ctx context.Context) ([]domain.Collaborative, error)
	GetCollaborative(ctx context.Context, id string) (domain.Collaborative, error)
	ProposeCollaborative(ctx context.Context, p domain.CollaborativeProposal) (domain.Collaborative, error)
	JoinCollaborative(ctx context.Context, id string) error
}

// ProjectAPI reads and launches projects.
type ProjectAPI interface {
	ListProjects(ctx context.Context, collabID string) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (domain.Project, error)
	LaunchProject(ctx context.Context, p domain.ProjectLaunch) (domain.Project, error)
}

// MilestoneAPI reads and creates milestones.
type MilestoneAPI interface {
	ListMilestones(ctx context.Context, projectID string) ([]domain.Milestone, error)
	CreateMilestone(ctx context.Context, d domain.MilestoneDraft) (domain.Milestone, error)
}

// InvitationAPI lists and answers collaborative invitations.
type InvitationAPI interface {
	ListInvitations(ctx context.Context) ([]domain.Invitation, error)
	RespondInvitation(ctx context.Context, id string, resp domain.InvitationResponse) error
}

// RawFetcher returns an API response body untouched.
type RawFetcher interface {
	GetRaw(ctx context.Context, path string) ([]byte, error)
}

// PlatformAPI is everything the cvx client consumes from the remote platform.
type PlatformAPI interface {
	AuthAPI
	CollaborativeAPI
	ProjectAPI
	MilestoneAPI
	InvitationAPI
	RawFetcher
}
