package services

import (
	"time"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
)

// EvaluateSubmissionStatus derives the status of one submission.
// Graded is persisted and sticky; otherwise the status follows the submission time.
func EvaluateSubmissionStatus(submission *models.Submission, dueDate time.Time) models.SubmissionStatus {
	if submission.IsGraded() {
		return models.SubmissionGraded
	}
	if submission.SubmittedAt.After(dueDate) {
		return models.SubmissionLate
	}
	return models.SubmissionSubmitted
}

// EvaluateStatus recomputes the status of every submission of assignment in place
func EvaluateStatus(assignment *models.Assignment) {
	if assignment == nil {
		return
	}
	for i := range assignment.Submissions {
		assignment.Submissions[i].Status = EvaluateSubmissionStatus(&assignment.Submissions[i], assignment.DueDate)
	}
}

func evaluateAll(assignments []*models.Assignment) []*models.Assignment {
	for _, a := range assignments {
		EvaluateStatus(a)
	}
	return assignments
}
