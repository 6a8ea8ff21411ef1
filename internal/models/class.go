package models

import "time"

type Class struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:200"`
	Subject   string    `json:"subject" gorm:"not null;size:100"`
	TeacherID string    `json:"teacher_id" gorm:"not null;index;size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Teacher     *User             `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Enrollments []ClassEnrollment `json:"students" gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE"`
}

func (Class) TableName() string {
	return "classes"
}

// ClassEnrollment is one roster entry. The composite key keeps a student at most once per class.
type ClassEnrollment struct {
	ClassID    uint      `json:"class_id" gorm:"primaryKey"`
	StudentID  string    `json:"student_id" gorm:"primaryKey;size:255;index"`
	EnrolledAt time.Time `json:"enrolled_at" gorm:"autoCreateTime"`

	Student *User `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

func (ClassEnrollment) TableName() string {
	return "class_enrollments"
}

// HasStudent reports whether studentID is on the roster.
func (c *Class) HasStudent(studentID string) bool {
	for _, e := range c.Enrollments {
		if e.StudentID == studentID {
			return true
		}
	}
	return false
}

func (c *Class) StudentIDs() []string {
	ids := make([]string, 0, len(c.Enrollments))
	for _, e := range c.Enrollments {
		ids = append(ids, e.StudentID)
	}
	return ids
}

// Students returns the populated roster users, skipping entries whose user was not loaded.
func (c *Class) Students() []*User {
	students := make([]*User, 0, len(c.Enrollments))
	for _, e := range c.Enrollments {
		if e.Student != nil {
			students = append(students, e.Student)
		}
	}
	return students
}
