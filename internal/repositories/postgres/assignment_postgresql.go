package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentPostgreSQL(db *gorm.DB) repositories.AssignmentRepository {
	return &assignmentRepository{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *assignmentRepository) Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Omit(clause.Associations).Create(assignment).Error; err != nil {
		return handleDBError(err, "create assignment")
	}
	return nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	db := getDB(r.db, tx)
	var assignment models.Assignment

	if err := r.withDetails(db.WithContext(ctx)).First(&assignment, id).Error; err != nil {
		return nil, handleDBError(err, "get assignment by id")
	}
	return &assignment, nil
}

func (r *assignmentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.AssignmentFilters) ([]*models.Assignment, error) {
	assignments := make([]*models.Assignment, 0)
	if filters.ClassIDs != nil && len(filters.ClassIDs) == 0 {
		return assignments, nil
	}

	db := getDB(r.db, tx)
	query := r.withDetails(db.WithContext(ctx).Model(&models.Assignment{}))
	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.ClassIDs != nil {
		query = query.Where("class_id IN ?", filters.ClassIDs)
	}

	if err := query.Order("due_date ASC, id ASC").Find(&assignments).Error; err != nil {
		return nil, handleDBError(err, "list assignments")
	}
	return assignments, nil
}

func (r *assignmentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	return requireRows(db.WithContext(ctx).Select("Submissions").Delete(&models.Assignment{ID: id}), "delete assignment")
}

// ===== SUBMISSIONS =====

func (r *assignmentRepository) UpsertSubmission(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	db := getDB(r.db, tx)

	// a resubmission keeps the row id and drops every grading column
	err := db.WithContext(ctx).
		Omit("Student").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "assignment_id"}, {Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"submitted_at", "file_ref", "file_name", "description", "status",
				"grade", "score", "feedback", "graded_at", "graded_by",
			}),
		}).
		Create(submission).Error
	if err != nil {
		return handleDBError(err, "upsert submission")
	}
	return nil
}

func (r *assignmentRepository) GradeSubmission(ctx context.Context, tx *gorm.DB, assignmentID uint, studentID string, grade repositories.SubmissionGrade) (*models.Submission, error) {
	var graded models.Submission

	err := getDB(r.db, tx).WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var assignment models.Assignment
		if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&assignment, assignmentID).Error; err != nil {
			return handleDBError(err, "lock assignment")
		}

		result := db.Model(&models.Submission{}).
			Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
			Updates(map[string]interface{}{
				"grade":     grade.Grade,
				"score":     grade.Score,
				"feedback":  grade.Feedback,
				"graded_at": grade.GradedAt,
				"graded_by": grade.GradedBy,
				"status":    models.SubmissionGraded,
			})
		if err := requireRows(result, "grade submission"); err != nil {
			return err
		}

		if grade.MaxScore != nil {
			if err := db.Model(&assignment).Update("max_score", *grade.MaxScore).Error; err != nil {
				return handleDBError(err, "update max score")
			}
		}

		if err := db.Preload("Student").
			Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
			First(&graded).Error; err != nil {
			return handleDBError(err, "reload submission")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &graded, nil
}

func (r *assignmentRepository) withDetails(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Class").
		Preload("Teacher").
		Preload("Submissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Submissions.Student")
}
