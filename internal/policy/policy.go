// Package policy is the single decision point for who may do what. It is a
// pure function over the actor, the requested action and the targeted
// resource; it performs no I/O and touches no persistence. Every mutating or
// privileged read in the handler layer must consult it before doing work.
package policy

import (
	"github.com/jobportal-dev/job-portal/backend/internal/domain"
)

type Action int

const (
	ActionViewJobs Action = iota
	ActionRegister
	ActionLogin
	ActionLogout
	ActionViewDashboard
	ActionPostJob
	ActionViewApplicants
	ActionApply
	ActionViewOwnApplications
	ActionViewAdminPanel
	ActionDeleteUser
	ActionDeleteJob
)

// Resource carries the ownership information a decision may depend on.
// The zero value is used for actions that do not target an owned resource.
type Resource struct {
	OwnerID int64
}

// Allowed reports whether actor may perform action on res. A nil actor is
// anonymous.
func Allowed(actor *domain.User, action Action, res Resource) bool {
	// Actions open to everyone, signed in or not.
	switch action {
	case ActionViewJobs, ActionRegister, ActionLogin:
		return true
	}

	if actor == nil {
		return false
	}

	if action == ActionLogout {
		return true
	}

	switch actor.Role {
	case domain.RoleSeeker:
		switch action {
		case ActionApply, ActionViewOwnApplications:
			return true
		}
	case domain.RoleEmployer:
		switch action {
		case ActionViewDashboard, ActionPostJob:
			return true
		case ActionViewApplicants:
			// Employers may only inspect applicants of their own jobs.
			return res.OwnerID == actor.ID
		}
	case domain.RoleAdmin:
		switch action {
		case ActionViewAdminPanel, ActionDeleteUser, ActionDeleteJob:
			return true
		}
	}

	return false
}
