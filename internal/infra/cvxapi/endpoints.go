package cvxapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/alignedworks/cvx/internal/domain"
)

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.User, []domain.Cookie, error) {
	var u domain.User
	if err := c.do(ctx, "cvxapi.login", http.MethodPost, "/api/auth/login", creds, &u); err != nil {
		return domain.User{}, nil, err
	}
	return u, c.Cookies(), nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "cvxapi.logout", http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var u domain.User
	err := c.do(ctx, "cvxapi.me", http.MethodGet, "/api/auth/me", nil, &u)
	return u, err
}

func (c *Client) ListCollaboratives(ctx context.Context) ([]domain.Collaborative, error) {
	out := []domain.Collaborative{}
	err := c.do(ctx, "cvxapi.collaboratives.list", http.MethodGet, "/api/collaboratives", nil, &out)
	return out, err
}

func (c *Client) GetCollaborative(ctx context.Context, id string) (domain.Collaborative, error) {
	var out domain.Collaborative
	err := c.do(ctx, "cvxapi.collaboratives.get", http.MethodGet, "/api/collaboratives/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) ProposeCollaborative(ctx context.Context, p domain.CollaborativeProposal) (domain.Collaborative, error) {
	var out domain.Collaborative
	err := c.do(ctx, "cvxapi.collaboratives.propose", http.MethodPost, "/api/collaboratives", p, &out)
	return out, err
}

func (c *Client) JoinCollaborative(ctx context.Context, id string) error {
	return c.do(ctx, "cvxapi.collaboratives.join", http.MethodPost, "/api/collaboratives/"+url.PathEscape(id)+"/join", nil, nil)
}

func (c *Client) ListProjects(ctx context.Context, collabID string) ([]domain.Project, error) {
	out := []domain.Project{}
	err := c.do(ctx, "cvxapi.projects.list", http.MethodGet, "/api/collaboratives/"+url.PathEscape(collabID)+"/projects", nil, &out)
	return out, err
}

func (c *Client) GetProject(ctx context.Context, id string) (domain.Project, error) {
	var out domain.Project
	err := c.do(ctx, "cvxapi.projects.get", http.MethodGet, "/api/projects/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) LaunchProject(ctx context.Context, p domain.ProjectLaunch) (domain.Project, error) {
	var out domain.Project
	err := c.do(ctx, "cvxapi.projects.launch", http.MethodPost, "/api/projects", p, &out)
	return out, err
}

func (c *Client) ListMilestones(ctx context.Context, projectID string) ([]domain.Milestone, error) {
	out := []domain.Milestone{}
	err := c.do(ctx, "cvxapi.milestones.list", http.MethodGet, "/api/projects/"+url.PathEscape(projectID)+"/milestones", nil, &out)
	return out, err
}

func (c *Client) CreateMilestone(ctx context.Context, d domain.MilestoneDraft) (domain.Milestone, error) {
	var out domain.Milestone
	err := c.do(ctx, "cvxapi.milestones.create", http.MethodPost, "/api/milestones", d, &out)
	return out, err
}

func (c *Client) ListInvitations(ctx context.Context) ([]domain.Invitation, error) {
	out := []domain.Invitation{}
	err := c.do(ctx, "cvxapi.invitations.list", http.MethodGet, "/api/invitations", nil, &out)
	return out, err
}

func (c *Client) RespondInvitation(ctx context.Context, id string, resp domain.InvitationResponse) error {
	path := "/api/invitations/" + url.PathEscape(id) + "/" + string(resp)
	return c.do(ctx, "cvxapi.invitations.respond", http.MethodPost, path, nil, nil)
}

// GetRaw returns the response body of any GET under the api base url.
func (c *Client) GetRaw(ctx context.Context, path string) ([]byte, error) {
	return c.call(ctx, "cvxapi.get", http.MethodGet, path, nil)
}
