// Package policy decides whether an actor may perform an action on a target.
// Every function here is pure: callers load the target and describe it with a Target.
package policy

import "github.com/MaameAchiaa/Educonnect-web-application/internal/models"

type Action string

const (
	ActionCreateClass        Action = "class:create"
	ActionEnroll             Action = "class:enroll"
	ActionUnenroll           Action = "class:unenroll"
	ActionSelfEnroll         Action = "class:self_enroll"
	ActionViewClassRoster    Action = "class:view_roster"
	ActionCreateAssignment   Action = "assignment:create"
	ActionDeleteAssignment   Action = "assignment:delete"
	ActionSubmit             Action = "assignment:submit"
	ActionGrade              Action = "assignment:grade"
	ActionViewSubmissions    Action = "assignment:view_submissions"
	ActionReadDashboard      Action = "dashboard:read"
	ActionReadGrades         Action = "grades:read"
	ActionCreateAnnouncement Action = "announcement:create"
	ActionCreateSchedule     Action = "schedule:create"
	ActionManageUsers        Action = "user:manage"
	ActionViewAdminData      Action = "admin:view"
)

// Target describes the record an action applies to.
type Target struct {
	// OwnerID is the owning teacher of the class or assignment.
	OwnerID string
	// ActorEnrolled is true when the actor is on the roster of the target's class.
	ActorEnrolled bool
	// SubjectID is the user whose data is being read.
	SubjectID string
	// SubjectStudentID is the external student id of SubjectID, used for parent links.
	SubjectStudentID string
}

// IsAllowed evaluates the rules in precedence order; the first matching rule decides.
func IsAllowed(actor *models.User, action Action, target Target) bool {
	if actor == nil {
		return false
	}

	if actor.Role == models.RoleAdmin {
		return true
	}

	switch action {
	case ActionCreateClass:
		return false

	case ActionEnroll, ActionUnenroll, ActionCreateAssignment, ActionGrade,
		ActionDeleteAssignment, ActionViewSubmissions:
		return ownsTarget(actor, target)

	case ActionSelfEnroll:
		return actor.Role == models.RoleStudent && !target.ActorEnrolled

	case ActionSubmit:
		return actor.Role == models.RoleStudent && target.ActorEnrolled

	case ActionReadDashboard, ActionReadGrades:
		return readsOwnScope(actor, target)

	case ActionCreateAnnouncement:
		return actor.Role == models.RoleTeacher

	case ActionCreateSchedule, ActionViewClassRoster:
		return true
	}

	return false
}

func ownsTarget(actor *models.User, target Target) bool {
	return actor.Role == models.RoleTeacher && target.OwnerID != "" && target.OwnerID == actor.ID
}

func readsOwnScope(actor *models.User, target Target) bool {
	if target.SubjectID != "" && target.SubjectID == actor.ID {
		return true
	}
	switch actor.Role {
	case models.RoleParent:
		linked := actor.LinkedStudentID()
		return linked != "" && linked == target.SubjectStudentID
	case models.RoleTeacher:
		return ownsTarget(actor, target)
	}
	return false
}
