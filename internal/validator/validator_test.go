package validator

import (
	"testing"
	"time"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func stringPtr(v string) *string  { return &v }

func hasField(errs ValidationErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidateGrade(t *testing.T) {
	bv := New().GetBusinessValidator()

	tests := []struct {
		name      string
		req       GradeRequest
		wantField string
	}{
		{name: "empty grade write", req: GradeRequest{}},
		{name: "lower bound", req: GradeRequest{Grade: floatPtr(0), Score: floatPtr(0)}},
		{name: "upper bound", req: GradeRequest{Grade: floatPtr(100), MaxScore: intPtr(1)}},
		{name: "grade above range", req: GradeRequest{Grade: floatPtr(101)}, wantField: "grade"},
		{name: "fractional grade", req: GradeRequest{Grade: floatPtr(87.5)}},
		{name: "fractional grade above range", req: GradeRequest{Grade: floatPtr(100.5)}, wantField: "grade"},
		{name: "negative grade", req: GradeRequest{Grade: floatPtr(-1)}, wantField: "grade"},
		{name: "negative score", req: GradeRequest{Score: floatPtr(-0.5)}, wantField: "score"},
		{name: "zero max score", req: GradeRequest{MaxScore: intPtr(0)}, wantField: "max_score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.ValidateGrade(&tt.req)
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Errorf("ValidateGrade() = %v, want no errors", errs)
				}
				return
			}
			if !hasField(errs, tt.wantField) {
				t.Errorf("ValidateGrade() = %v, want error on %s", errs, tt.wantField)
			}
		})
	}
}

func TestValidateRegister(t *testing.T) {
	bv := New().GetBusinessValidator()

	tests := []struct {
		name      string
		req       RegisterRequest
		wantField string
	}{
		{
			name: "valid student",
			req:  RegisterRequest{Username: "kofi", Email: "kofi@school.test", Password: "secret1", Role: models.RoleStudent, StudentID: stringPtr("STU1")},
		},
		{
			name:      "unknown role",
			req:       RegisterRequest{Username: "kofi", Email: "kofi@school.test", Password: "secret1", Role: "janitor"},
			wantField: "role",
		},
		{
			name:      "bad email",
			req:       RegisterRequest{Username: "kofi", Email: "kofi", Password: "secret1", Role: models.RoleTeacher},
			wantField: "email",
		},
		{
			name:      "parent without student link",
			req:       RegisterRequest{Username: "mama", Email: "mama@school.test", Password: "secret1", Role: models.RoleParent},
			wantField: "student_id",
		},
		{
			name:      "username with at sign",
			req:       RegisterRequest{Username: "a@b", Email: "ab@school.test", Password: "secret1", Role: models.RoleTeacher},
			wantField: "username",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.ValidateRegister(&tt.req)
			if tt.wantField == "" && len(errs) != 0 {
				t.Errorf("ValidateRegister() = %v, want no errors", errs)
			}
			if tt.wantField != "" && !hasField(errs, tt.wantField) {
				t.Errorf("ValidateRegister() = %v, want error on %s", errs, tt.wantField)
			}
		})
	}
}

func TestValidateSchedule(t *testing.T) {
	bv := New().GetBusinessValidator()

	date, errs := bv.ValidateSchedule(&CreateScheduleRequest{Title: "PTA", Date: "2024-03-01", StartTime: "09:30", EndTime: stringPtr("10:30")})
	if len(errs) != 0 {
		t.Fatalf("ValidateSchedule() errors = %v", errs)
	}
	if !date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ValidateSchedule() date = %v", date)
	}

	_, errs = bv.ValidateSchedule(&CreateScheduleRequest{Title: "PTA", Date: "2024-03-01", StartTime: "9:30"})
	if !hasField(errs, "start_time") {
		t.Errorf("ValidateSchedule() = %v, want start_time error", errs)
	}

	_, errs = bv.ValidateSchedule(&CreateScheduleRequest{Title: "PTA", Date: "2024-03-01", StartTime: "10:00", EndTime: stringPtr("09:00")})
	if !hasField(errs, "end_time") {
		t.Errorf("ValidateSchedule() = %v, want end_time error", errs)
	}

	_, errs = bv.ValidateSchedule(&CreateScheduleRequest{StartTime: "10:00", Date: "01/03/2024"})
	if !hasField(errs, "title") || !hasField(errs, "date") {
		t.Errorf("ValidateSchedule() = %v, want title and date errors", errs)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	if got := (ValidationErrors{}).Error(); got != "validation failed" {
		t.Errorf("Error() = %q", got)
	}
	single := ValidationErrors{{Field: "title", Message: "is required"}}
	if got := single.Error(); got != "validation failed: title is required" {
		t.Errorf("Error() = %q", got)
	}
}
