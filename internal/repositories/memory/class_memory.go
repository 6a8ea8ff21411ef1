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

type classRepository struct {
	db *DB
}

func NewClassRepository(db *DB) repositories.ClassRepository {
	return &classRepository{db: db}
}

func (repo *classRepository) Create(ctx context.Context, tx *gorm.DB, class *models.Class) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.classSeq++
	now := time.Now()
	class.ID = repo.db.classSeq
	class.CreatedAt = now
	class.UpdatedAt = now

	stored := *class
	stored.Teacher = nil
	stored.Enrollments = slices.Clone(class.Enrollments)
	repo.db.classes[stored.ID] = &stored
	return nil
}

func (repo *classRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	stored, ok := repo.db.classes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return repo.db.loadClass(stored, true), nil
}

func (repo *classRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.ClassFilters) ([]*models.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	classes := make([]*models.Class, 0)
	for _, stored := range repo.db.classes {
		if filters.TeacherID != nil && stored.TeacherID != *filters.TeacherID {
			continue
		}
		if filters.StudentID != nil && !stored.HasStudent(*filters.StudentID) {
			continue
		}
		classes = append(classes, repo.db.loadClass(stored, true))
	}

	sort.Slice(classes, func(i, j int) bool {
		if classes[i].Name == classes[j].Name {
			return classes[i].ID < classes[j].ID
		}
		return classes[i].Name < classes[j].Name
	})
	return classes, nil
}

func (repo *classRepository) AddStudent(ctx context.Context, tx *gorm.DB, classID uint, studentID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored, ok := repo.db.classes[classID]
	if !ok {
		return repositories.ErrNotFound
	}
	if stored.HasStudent(studentID) {
		return repositories.ErrDuplicate
	}
	stored.Enrollments = append(stored.Enrollments, models.ClassEnrollment{
		ClassID:    classID,
		StudentID:  studentID,
		EnrolledAt: time.Now(),
	})
	stored.UpdatedAt = time.Now()
	return nil
}

func (repo *classRepository) RemoveStudent(ctx context.Context, tx *gorm.DB, classID uint, studentID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored, ok := repo.db.classes[classID]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.Enrollments = slices.DeleteFunc(stored.Enrollments, func(e models.ClassEnrollment) bool {
		return e.StudentID == studentID
	})
	return nil
}

func (repo *classRepository) IsEnrolled(ctx context.Context, tx *gorm.DB, classID uint, studentID string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	stored, ok := repo.db.classes[classID]
	if !ok {
		return false, repositories.ErrNotFound
	}
	return stored.HasStudent(studentID), nil
}
