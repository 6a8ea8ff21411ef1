package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
)

const concurrentCallers = 16

// runConcurrently starts n callers at once and collects their errors.
func runConcurrently(n int, call func(i int) error) []error {
	errs := make([]error, n)
	start := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = call(i)
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}

func TestClassService_ConcurrentEnroll(t *testing.T) {
	tests := []struct {
		name   string
		enroll func(env *testEnv, teacher, student *models.User, classID uint) error
	}{
		{
			name: "teacher enrolls the same student",
			enroll: func(env *testEnv, teacher, student *models.User, classID uint) error {
				_, err := env.services.Class().Enroll(env.ctx, teacher, classID, student.ID)
				return err
			},
		},
		{
			name: "student self-enrolls",
			enroll: func(env *testEnv, teacher, student *models.User, classID uint) error {
				_, err := env.services.Class().SelfEnroll(env.ctx, student, classID)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			admin := env.createUser(t, "admin", models.RoleAdmin, "")
			teacher := env.createUser(t, "t1", models.RoleTeacher, "")
			student := env.createUser(t, "s1", models.RoleStudent, "STU1")
			class := env.createClass(t, admin, teacher)

			errs := runConcurrently(concurrentCallers, func(int) error {
				return tt.enroll(env, teacher, student, class.ID)
			})

			var successes, conflicts int
			for _, err := range errs {
				switch {
				case err == nil:
					successes++
				case errors.Is(err, ErrConflict):
					conflicts++
				default:
					t.Errorf("unexpected error = %v", err)
				}
			}
			if successes != 1 || conflicts != concurrentCallers-1 {
				t.Fatalf("successes = %d, conflicts = %d, want 1 and %d", successes, conflicts, concurrentCallers-1)
			}

			roster, err := env.services.Class().GetClassStudents(env.ctx, teacher, class.ID)
			if err != nil {
				t.Fatalf("GetClassStudents() error = %v", err)
			}
			if len(roster) != 1 {
				t.Errorf("roster size = %d, want 1", len(roster))
			}
		})
	}
}

func TestAssignmentService_ConcurrentSubmitAndGrade(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", models.RoleAdmin, "")
	teacher := env.createUser(t, "t1", models.RoleTeacher, "")
	student := env.createUser(t, "s1", models.RoleStudent, "STU1")
	class := env.createClass(t, admin, teacher)
	if _, err := env.services.Class().Enroll(env.ctx, teacher, class.ID, student.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	assignment := env.createAssignment(t, teacher, class.ID, env.now.Add(48*time.Hour))

	errs := runConcurrently(concurrentCallers, func(i int) error {
		desc := fmt.Sprintf("attempt %d", i)
		_, err := env.services.Assignment().Submit(env.ctx, student, assignment.ID, SubmitInput{Description: &desc})
		return err
	})
	for i, err := range errs {
		if err != nil {
			t.Fatalf("Submit() #%d error = %v", i, err)
		}
	}

	stored, err := env.repo.Assignment().GetByID(env.ctx, nil, assignment.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(stored.Submissions) != 1 {
		t.Fatalf("stored submissions = %d, want 1", len(stored.Submissions))
	}

	errs = runConcurrently(concurrentCallers, func(i int) error {
		_, err := env.services.Assignment().Grade(env.ctx, teacher, assignment.ID, student.ID, &GradeRequest{Grade: floatPtr(float64(50 + i))})
		return err
	})
	for i, err := range errs {
		if err != nil {
			t.Fatalf("Grade() #%d error = %v", i, err)
		}
	}

	stored, err = env.repo.Assignment().GetByID(env.ctx, nil, assignment.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(stored.Submissions) != 1 {
		t.Fatalf("stored submissions after grading = %d, want 1", len(stored.Submissions))
	}
	sub := stored.Submissions[0]
	if sub.Status != models.SubmissionGraded || sub.Grade == nil {
		t.Errorf("submission = %+v, want graded", sub)
	}
}
