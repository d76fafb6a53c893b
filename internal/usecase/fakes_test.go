package usecase

import (
	"context"
	"sync"

	"github.com/alignedworks/cvx/internal/domain"
)

// memStore is an in-memory SessionStore.
type memStore struct {
	mu      sync.Mutex
	s       domain.Session
	saves   int
	cleared int
	loadErr error
}

func (m *memStore) Load() (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, m.loadErr
}

func (m *memStore) Save(s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s
	m.saves++
	return nil
}

func (m *memStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = domain.Session{}
	m.cleared++
	return nil
}

// fakePlatform implements ports.PlatformAPI from fixed data.
type fakePlatform struct {
	user    domain.User
	cookies []domain.Cookie
	authErr error

	collabs    map[string]domain.Collaborative
	projects   map[string]domain.Project
	milestones map[string][]domain.Milestone
	invites    []domain.Invitation

	logouts   int
	proposed  []domain.CollaborativeProposal
	launched  []domain.ProjectLaunch
	drafts    []domain.MilestoneDraft
	joined    []string
	responses map[string]domain.InvitationResponse
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		user:       domain.User{ID: "u1", Email: "ada@example.org", FirstName: "Ada", Role: domain.RoleMember},
		cookies:    []domain.Cookie{{Name: ".AspNetCore.Cookies", Value: "tok"}},
		collabs:    map[string]domain.Collaborative{},
		projects:   map[string]domain.Project{},
		milestones: map[string][]domain.Milestone{},
		responses:  map[string]domain.InvitationResponse{},
	}
}

func notFound(op string) error {
	return &domain.OpError{Op: op, Kind: domain.KindNotFound, Err: domain.ErrNotFound}
}

func (f *fakePlatform) Login(_ context.Context, _ domain.Credentials) (domain.User, []domain.Cookie, error) {
	if f.authErr != nil {
		return domain.User{}, nil, f.authErr
	}
	return f.user, f.cookies, nil
}

func (f *fakePlatform) Logout(_ context.Context) error {
	f.logouts++
	return f.authErr
}

func (f *fakePlatform) Me(_ context.Context) (domain.User, error) {
	return f.user, f.authErr
}

func (f *fakePlatform) ListCollaboratives(_ context.Context) ([]domain.Collaborative, error) {
	out := make([]domain.Collaborative, 0, len(f.collabs))
	for _, c := range f.collabs {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakePlatform) GetCollaborative(_ context.Context, id string) (domain.Collaborative, error) {
	c, ok := f.collabs[id]
	if !ok {
		return domain.Collaborative{}, notFound("collaborative.get")
	}
	return c, nil
}

func (f *fakePlatform) ProposeCollaborative(_ context.Context, p domain.CollaborativeProposal) (domain.Collaborative, error) {
	f.proposed = append(f.proposed, p)
	return domain.Collaborative{ID: "new", Name: p.Name, Status: domain.StatusSubmitted}, nil
}

func (f *fakePlatform) JoinCollaborative(_ context.Context, id string) error {
	f.joined = append(f.joined, id)
	return nil
}

func (f *fakePlatform) ListProjects(_ context.Context, collabID string) ([]domain.Project, error) {
	var out []domain.Project
	for _, p := range f.projects {
		if p.CollabID == collabID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlatform) GetProject(_ context.Context, id string) (domain.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return domain.Project{}, notFound("project.get")
	}
	return p, nil
}

func (f *fakePlatform) LaunchProject(_ context.Context, l domain.ProjectLaunch) (domain.Project, error) {
	f.launched = append(f.launched, l)
	return domain.Project{ID: "p-new", CollabID: l.CollabID, Name: l.Name, Budget: l.Budget}, nil
}

func (f *fakePlatform) ListMilestones(_ context.Context, projectID string) ([]domain.Milestone, error) {
	return f.milestones[projectID], nil
}

func (f *fakePlatform) CreateMilestone(_ context.Context, d domain.MilestoneDraft) (domain.Milestone, error) {
	f.drafts = append(f.drafts, d)
	return domain.Milestone{ID: "m-new", ProjectID: d.ProjectID, Title: d.Title, Payout: d.Payout}, nil
}

func (f *fakePlatform) ListInvitations(_ context.Context) ([]domain.Invitation, error) {
	return f.invites, nil
}

func (f *fakePlatform) RespondInvitation(_ context.Context, id string, resp domain.InvitationResponse) error {
	f.responses[id] = resp
	return nil
}

func (f *fakePlatform) GetRaw(_ context.Context, _ string) ([]byte, error) {
	return []byte(`{}`), nil
}
