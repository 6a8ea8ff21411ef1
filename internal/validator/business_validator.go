package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
)

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a standalone business validator
func NewBusinessValidator() *BusinessValidator {
	return New().GetBusinessValidator()
}

// Validate validates struct tags of s
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateRegister validates sign-up and admin user creation
func (bv *BusinessValidator) ValidateRegister(req *RegisterRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if strings.ContainsAny(req.Username, " \t@") {
		errors = append(errors, ValidationError{
			Field:   "username",
			Message: "must not contain spaces or '@'",
			Value:   req.Username,
			Rule:    "business_logic",
		})
	}

	if req.Role == models.RoleParent && (req.StudentID == nil || strings.TrimSpace(*req.StudentID) == "") {
		errors = append(errors, ValidationError{
			Field:   "student_id",
			Message: "is required to link a parent to a student",
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateGrade validates a grade write
func (bv *BusinessValidator) ValidateGrade(req *GradeRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateSchedule validates schedule creation and returns the parsed date
func (bv *BusinessValidator) ValidateSchedule(req *CreateScheduleRequest) (time.Time, ValidationErrors) {
	errors := bv.Validate(req)
	if len(errors) > 0 {
		return time.Time{}, errors
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return time.Time{}, ValidationErrors{{Field: "date", Message: "must be a date in 2006-01-02 format", Value: req.Date, Rule: "datetime"}}
	}

	if req.EndTime != nil && *req.EndTime <= req.StartTime {
		errors = append(errors, ValidationError{
			Field:   "end_time",
			Message: "must be after start_time",
			Value:   *req.EndTime,
			Rule:    "business_logic",
		})
	}

	return date, errors
}

func registerRules(validate *validator.Validate) {
	// one of the four known roles
	validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).IsValid()
	})

	// grade percentage (0-100 inclusive)
	validate.RegisterValidation("grade_range", func(fl validator.FieldLevel) bool {
		grade := fl.Field().Float()
		return grade >= models.MinGrade && grade <= models.MaxGrade
	})

	// 24h clock time, HH:MM
	validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmPattern.MatchString(fl.Field().String())
	})
}
