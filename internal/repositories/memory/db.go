// Package memory is an in-process implementation of the repositories, used for
// local development (STORAGE_DRIVER=memory) and for service and handler tests.
package memory

import (
	"context"
	"sync"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

// DB holds every table behind one lock, so each repository call is atomic.
type DB struct {
	mutex sync.RWMutex

	users     map[string]*models.User
	userOrder []string

	classes       map[uint]*models.Class
	assignments   map[uint]*models.Assignment
	announcements map[uint]*models.Announcement
	schedules     map[uint]*models.Schedule
	sessions      map[string]*models.Session

	classSeq        uint
	assignmentSeq   uint
	submissionSeq   uint
	announcementSeq uint
	scheduleSeq     uint
}

func NewDB() *DB {
	return &DB{
		users:         make(map[string]*models.User),
		classes:       make(map[uint]*models.Class),
		assignments:   make(map[uint]*models.Assignment),
		announcements: make(map[uint]*models.Announcement),
		schedules:     make(map[uint]*models.Schedule),
		sessions:      make(map[string]*models.Session),
	}
}

type Repository struct {
	db *DB

	user         repositories.UserRepository
	session      repositories.SessionRepository
	class        repositories.ClassRepository
	assignment   repositories.AssignmentRepository
	announcement repositories.AnnouncementRepository
	schedule     repositories.ScheduleRepository
	dashboard    repositories.DashboardRepository
}

// NewRepository wires every in-memory repository onto db.
func NewRepository(db *DB) repositories.Repository {
	return &Repository{
		db:           db,
		user:         NewUserRepository(db),
		session:      NewSessionRepository(db),
		class:        NewClassRepository(db),
		assignment:   NewAssignmentRepository(db),
		announcement: NewAnnouncementRepository(db),
		schedule:     NewScheduleRepository(db),
		dashboard:    NewDashboardRepository(db),
	}
}

func (r *Repository) User() repositories.UserRepository                 { return r.user }
func (r *Repository) Session() repositories.SessionRepository           { return r.session }
func (r *Repository) Class() repositories.ClassRepository               { return r.class }
func (r *Repository) Assignment() repositories.AssignmentRepository     { return r.assignment }
func (r *Repository) Announcement() repositories.AnnouncementRepository { return r.announcement }
func (r *Repository) Schedule() repositories.ScheduleRepository         { return r.schedule }
func (r *Repository) Dashboard() repositories.DashboardRepository       { return r.dashboard }

// WithTransaction runs fn directly. Individual calls stay atomic but the sequence is not isolated.
func (r *Repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *Repository) Ping(ctx context.Context) error { return nil }
func (r *Repository) Close() error                   { return nil }

// ===== COPY HELPERS =====
// Records never leave the store by pointer; callers get copies with relations populated.

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.StudentID != nil {
		id := *u.StudentID
		c.StudentID = &id
	}
	return &c
}

// loadClass must be called with the lock held.
func (db *DB) loadClass(stored *models.Class, withRoster bool) *models.Class {
	c := *stored
	c.Teacher = copyUser(db.users[stored.TeacherID])
	c.Enrollments = nil
	if withRoster {
		c.Enrollments = make([]models.ClassEnrollment, 0, len(stored.Enrollments))
		for _, e := range stored.Enrollments {
			e.Student = copyUser(db.users[e.StudentID])
			c.Enrollments = append(c.Enrollments, e)
		}
	}
	return &c
}

// loadAssignment must be called with the lock held.
func (db *DB) loadAssignment(stored *models.Assignment) *models.Assignment {
	a := *stored
	a.Teacher = copyUser(db.users[stored.TeacherID])
	if class, ok := db.classes[stored.ClassID]; ok {
		a.Class = db.loadClass(class, false)
	}
	a.Submissions = make([]models.Submission, 0, len(stored.Submissions))
	for _, s := range stored.Submissions {
		s.Student = copyUser(db.users[s.StudentID])
		a.Submissions = append(a.Submissions, s)
	}
	return &a
}
