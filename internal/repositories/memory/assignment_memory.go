package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

type assignmentRepository struct {
	db *DB
}

func NewAssignmentRepository(db *DB) repositories.AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.classes[assignment.ClassID]; !ok {
		return repositories.ErrNotFound
	}

	repo.db.assignmentSeq++
	now := time.Now()
	assignment.ID = repo.db.assignmentSeq
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	stored := *assignment
	stored.Class = nil
	stored.Teacher = nil
	stored.Submissions = nil
	repo.db.assignments[stored.ID] = &stored
	return nil
}

func (repo *assignmentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	stored, ok := repo.db.assignments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return repo.db.loadAssignment(stored), nil
}

func (repo *assignmentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.AssignmentFilters) ([]*models.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	assignments := make([]*models.Assignment, 0)
	for _, stored := range repo.db.assignments {
		if filters.TeacherID != nil && stored.TeacherID != *filters.TeacherID {
			continue
		}
		if filters.ClassIDs != nil && !slices.Contains(filters.ClassIDs, stored.ClassID) {
			continue
		}
		assignments = append(assignments, repo.db.loadAssignment(stored))
	}

	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].DueDate.Equal(assignments[j].DueDate) {
			return assignments[i].ID < assignments[j].ID
		}
		return assignments[i].DueDate.Before(assignments[j].DueDate)
	})
	return assignments, nil
}

func (repo *assignmentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.assignments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(repo.db.assignments, id)
	return nil
}

func (repo *assignmentRepository) UpsertSubmission(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored, ok := repo.db.assignments[submission.AssignmentID]
	if !ok {
		return repositories.ErrNotFound
	}

	fresh := *submission
	fresh.Student = nil
	for i := range stored.Submissions {
		if stored.Submissions[i].StudentID == submission.StudentID {
			// same slot, same id; grading data is dropped
			fresh.ID = stored.Submissions[i].ID
			stored.Submissions[i] = fresh
			submission.ID = fresh.ID
			return nil
		}
	}

	repo.db.submissionSeq++
	fresh.ID = repo.db.submissionSeq
	stored.Submissions = append(stored.Submissions, fresh)
	submission.ID = fresh.ID
	return nil
}

func (repo *assignmentRepository) GradeSubmission(ctx context.Context, tx *gorm.DB, assignmentID uint, studentID string, grade repositories.SubmissionGrade) (*models.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored, ok := repo.db.assignments[assignmentID]
	if !ok {
		return nil, repositories.ErrNotFound
	}

	idx := slices.IndexFunc(stored.Submissions, func(s models.Submission) bool { return s.StudentID == studentID })
	if idx < 0 {
		return nil, repositories.ErrNotFound
	}

	sub := &stored.Submissions[idx]
	sub.Grade = grade.Grade
	sub.Score = grade.Score
	sub.Feedback = grade.Feedback
	gradedAt := grade.GradedAt
	gradedBy := grade.GradedBy
	sub.GradedAt = &gradedAt
	sub.GradedBy = &gradedBy
	sub.Status = models.SubmissionGraded

	if grade.MaxScore != nil {
		stored.MaxScore = *grade.MaxScore
	}
	stored.UpdatedAt = time.Now()

	result := *sub
	result.Student = copyUser(repo.db.users[studentID])
	return &result, nil
}
