package domain

import "time"

// Role is a member's platform role as reported by the API.
type Role string

const (
	RoleMember     Role = "Member"
	RoleAdmin      Role = "Admin"
	RoleNetworkOps Role = "NetworkOperator"
)

// User is the authenticated member profile.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

// DisplayName prefers the full name and falls back to the email.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	}
	return u.Email
}

// Credentials are submitted once at login and never persisted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ApprovalStatus is the server-side review state of a proposal.
type ApprovalStatus string

const (
	StatusSubmitted ApprovalStatus = "Submitted"
	StatusApproved  ApprovalStatus = "Approved"
	StatusDeclined  ApprovalStatus = "Declined"
	StatusActive    ApprovalStatus = "Active"
	StatusArchived  ApprovalStatus = "Archived"
)

// Collaborative is a member-run organization sharing a launch-token treasury.
type Collaborative struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	TokensCreated                  float64 `json:"tokensCreated"`
	TokensPriorWorkPercent         float64 `json:"tokensPriorWorkPercent"`
	TokenReleaseRate               float64 `json:"tokenReleaseRate"`
	CollabAdminCompensationPercent float64 `json:"collabAdminCompensationPercent"`
	LaunchTokenBalance             float64 `json:"launchTokenBalance"`

	Status      ApprovalStatus `json:"approvalStatus"`
	AdminEmail  string         `json:"adminEmail,omitempty"`
	MemberCount int            `json:"memberCount"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// CollaborativeProposal is the payload for proposing a new collaborative.
type CollaborativeProposal struct {
	Name                           string  `json:"name"`
	Description                    string  `json:"description"`
	TokensCreated                  float64 `json:"tokensCreated"`
	TokensPriorWorkPercent         float64 `json:"tokensPriorWorkPercent"`
	TokenReleaseRate               float64 `json:"tokenReleaseRate"`
	CollabAdminCompensationPercent float64 `json:"collabAdminCompensationPercent"`
}

// Project spends part of a collaborative's launch tokens.
type Project struct {
	ID          string         `json:"id"`
	CollabID    string         `json:"collabId"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Budget      float64        `json:"budget"`
	AdminPay    float64        `json:"adminPay"`
	Balance     float64        `json:"launchTokenBalance"`
	AdminEmail  string         `json:"adminEmail,omitempty"`
	Status      ApprovalStatus `json:"approvalStatus"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// ProjectLaunch is the payload for launching a project under a collaborative.
type ProjectLaunch struct {
	CollabID    string  `json:"collabId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget"`
	AdminPay    float64 `json:"adminPay"`
}

// MilestoneStatus tracks a milestone through assignment and approval.
type MilestoneStatus string

const (
	MilestoneOpen      MilestoneStatus = "Open"
	MilestoneAssigned  MilestoneStatus = "Assigned"
	MilestoneSubmitted MilestoneStatus = "Submitted"
	MilestoneApproved  MilestoneStatus = "Approved"
)

// Milestone is a project sub-unit with its own token payout.
type Milestone struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"projectId"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Payout        float64         `json:"allocatedLaunchTokens"`
	AssigneeID    string          `json:"assigneeId,omitempty"`
	AssigneeEmail string          `json:"assigneeEmail,omitempty"`
	Status        MilestoneStatus `json:"approvalStatus"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
}

// MilestoneDraft is the payload for creating a milestone.
type MilestoneDraft struct {
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Payout      float64    `json:"allocatedLaunchTokens"`
	AssigneeID  string     `json:"assigneeId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// Invitation asks a member to join a collaborative.
type Invitation struct {
	ID           string    `json:"id"`
	CollabID     string    `json:"collabId"`
	CollabName   string    `json:"collabName"`
	InviterEmail string    `json:"inviterEmail"`
	CreatedAt    time.Time `json:"createdAt"`
}

// InvitationResponse is the member's answer to an invitation.
type InvitationResponse string

const (
	InvitationAccept  InvitationResponse = "accept"
	InvitationDecline InvitationResponse = "decline"
)
