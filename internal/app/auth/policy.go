// Package auth decides what a caller may do inside their committee.
package auth

import (
	"fmt"

	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/repositories"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
)

// Action is an operation on a resource
type Action string

const (
	ActionRead           Action = "read"
	ActionCreate         Action = "create"
	ActionUpdate         Action = "update"
	ActionDelete         Action = "delete"
	ActionUpdateSelf     Action = "update_self"
	ActionUpdateProgress Action = "update_progress"
)

// mutates reports whether a is a write
func (a Action) mutates() bool {
	return a != ActionRead
}

// Resource is a protected record kind
type Resource string

const (
	ResourceProfile      Resource = "profile"
	ResourceCommittee    Resource = "committee"
	ResourceWeek         Resource = "week"
	ResourceProject      Resource = "project"
	ResourceAttendance   Resource = "attendance"
	ResourceAnnouncement Resource = "announcement"
	ResourceFeedback     Resource = "feedback"
)

// Access is the breadth of rows a grant covers
type Access int

const (
	AccessNone Access = iota
	// AccessSelf covers rows owned by (or describing) the caller
	AccessSelf
	// AccessCommittee covers every row of the caller's committee
	AccessCommittee
)

type grant struct {
	admin  Access
	member Access
}

var (
	adminOnly   = grant{admin: AccessCommittee}
	committee   = grant{admin: AccessCommittee, member: AccessCommittee}
	memberSelf  = grant{admin: AccessCommittee, member: AccessSelf}
	selfService = grant{admin: AccessSelf, member: AccessSelf}
)

func adminWrites(read grant) map[Action]grant {
	return map[Action]grant{
		ActionRead:   read,
		ActionCreate: adminOnly,
		ActionUpdate: adminOnly,
		ActionDelete: adminOnly,
	}
}

// defaultRules is the role x action x resource table
func defaultRules() map[Resource]map[Action]grant {
	rules := map[Resource]map[Action]grant{
		ResourceProfile:      adminWrites(memberSelf),
		ResourceCommittee:    {ActionRead: committee, ActionUpdate: adminOnly},
		ResourceWeek:         adminWrites(committee),
		ResourceProject:      adminWrites(memberSelf),
		ResourceAttendance:   adminWrites(memberSelf),
		ResourceAnnouncement: adminWrites(committee),
		ResourceFeedback:     adminWrites(memberSelf),
	}
	rules[ResourceProfile][ActionUpdateSelf] = selfService
	rules[ResourceProject][ActionUpdateProgress] = memberSelf
	return rules
}

// Policy evaluates a static rule table
type Policy struct {
	rules map[Resource]map[Action]grant
}

// NewPolicy creates a Policy with the default rules
func NewPolicy() *Policy {
	return &Policy{rules: defaultRules()}
}

// Access returns what caller is granted for action on resource
func (p *Policy) Access(caller *models.Profile, action Action, resource Resource) Access {
	if caller == nil {
		return AccessNone
	}
	g, ok := p.rules[resource][action]
	if !ok {
		return AccessNone
	}
	switch caller.Role {
	case models.RoleAdmin:
		return g.admin
	case models.RoleMember:
		return g.member
	}
	return AccessNone
}

// Authorize returns ErrForbidden unless caller may perform action on resource.
// Writes additionally require a committee assignment; self-service is the exception.
func (p *Policy) Authorize(caller *models.Profile, action Action, resource Resource) error {
	if caller == nil {
		return apperrors.ErrTokenInvalid
	}
	access := p.Access(caller, action, resource)
	if access == AccessNone {
		return apperrors.NewForbiddenError(fmt.Sprintf("%s may not %s %s", caller.Role, action, resource))
	}
	if action.mutates() && access == AccessCommittee && !caller.HasCommittee() {
		return apperrors.NewForbiddenError("caller is not assigned to a committee")
	}
	return nil
}

// Scope derives the repository scope for caller
func (p *Policy) Scope(caller *models.Profile) repositories.Scope {
	scope := repositories.Scope{ProfileID: caller.ID, Role: caller.Role}
	if caller.HasCommittee() {
		scope.CommitteeID = *caller.CommitteeID
	}
	return scope
}

// AuthorizeProjectProgress checks a progress update of project by caller.
// Admins may update any project of their committee; members only their own.
func (p *Policy) AuthorizeProjectProgress(caller *models.Profile, project *models.Project) error {
	if err := p.Authorize(caller, ActionUpdateProgress, ResourceProject); err != nil {
		return err
	}
	if !caller.HasCommittee() {
		return apperrors.NewForbiddenError("caller is not assigned to a committee")
	}
	if !caller.InCommittee(project.CommitteeID) {
		return apperrors.NewNotFoundError("project not found")
	}
	if p.Access(caller, ActionUpdateProgress, ResourceProject) == AccessSelf && !project.IsAssignedTo(caller.ID) {
		return apperrors.NewForbiddenError("project is not assigned to caller")
	}
	return nil
}
