package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/events"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories/memory"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/services"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/storage"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/utils"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/validator"
)

type testServer struct {
	router   *gin.Engine
	services services.ServiceManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	slogLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	files, err := storage.NewLocalFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFileStore() error = %v", err)
	}

	sm := services.NewServiceManager(services.ServiceDeps{
		Repo:      memory.NewRepository(memory.NewDB()),
		Logger:    slogLogger,
		Validator: validator.New(),
		Publisher: events.NewMockEventPublisher(slogLogger),
		Files:     files,
	}, services.ServiceManagerConfig{})
	if err := sm.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	logger := utils.NewSlogLogger(slogLogger)
	router := gin.New()
	SetupMiddleware(router, logger, []string{"http://localhost:3000"})
	NewHandlerManager(sm, nil, logger, false).SetupRoutes(router)

	return &testServer{router: router, services: sm}
}

// login registers an account and returns its user and session token
func (s *testServer) login(t *testing.T, username string, role models.UserRole, studentID string) (*models.User, string) {
	t.Helper()
	ctx := context.Background()

	req := &services.RegisterRequest{
		Username: username,
		Email:    username + "@school.test",
		Password: "secret123",
		Role:     role,
		FullName: username,
	}
	if studentID != "" {
		req.StudentID = &studentID
	}
	user, err := s.services.Auth().Register(ctx, req)
	if err != nil {
		t.Fatalf("Register(%s) error = %v", username, err)
	}

	result, err := s.services.Auth().Login(ctx, &services.LoginRequest{Username: username, Password: "secret123"})
	if err != nil {
		t.Fatalf("Login(%s) error = %v", username, err)
	}
	return user, result.Token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal() error = %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("json.Unmarshal(%s) error = %v", w.Body.String(), err)
	}
}

func TestRouter_AuthenticationAndRoles(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.login(t, "admin", models.RoleAdmin, "")
	_, studentToken := s.login(t, "student1", models.RoleStudent, "STU1")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       interface{}
		wantStatus int
	}{
		{name: "dashboard without token", method: http.MethodGet, path: "/api/v1/dashboard", wantStatus: http.StatusUnauthorized},
		{name: "dashboard with bad token", method: http.MethodGet, path: "/api/v1/dashboard", token: "not-a-session", wantStatus: http.StatusUnauthorized},
		{name: "dashboard as student", method: http.MethodGet, path: "/api/v1/dashboard", token: studentToken, wantStatus: http.StatusOK},
		{name: "admin data as student", method: http.MethodGet, path: "/api/v1/admin-data", token: studentToken, wantStatus: http.StatusForbidden},
		{name: "admin data as admin", method: http.MethodGet, path: "/api/v1/admin-data", token: adminToken, wantStatus: http.StatusOK},
		{name: "enroll into missing class", method: http.MethodPost, path: "/api/v1/classes/999/enroll", token: adminToken, body: map[string]string{"student_id": "x"}, wantStatus: http.StatusNotFound},
		{name: "delete missing assignment", method: http.MethodDelete, path: "/api/v1/assignments/999", token: adminToken, wantStatus: http.StatusNotFound},
		{name: "non-numeric class id", method: http.MethodGet, path: "/api/v1/classes/abc/students", token: adminToken, wantStatus: http.StatusBadRequest},
		{name: "forgot password is public", method: http.MethodPost, path: "/api/v1/auth/forgot-password", body: map[string]string{"email": "nobody@school.test"}, wantStatus: http.StatusOK},
		{name: "health is public", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.token, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("%s %s status = %d, want %d (body %s)", tt.method, tt.path, w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRouter_GradingFlow(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.login(t, "admin", models.RoleAdmin, "")
	teacher, teacherToken := s.login(t, "teacher1", models.RoleTeacher, "")
	student, studentToken := s.login(t, "student1", models.RoleStudent, "STU1")
	_, otherTeacherToken := s.login(t, "teacher2", models.RoleTeacher, "")

	w := s.do(t, http.MethodPost, "/api/v1/classes", adminToken, map[string]string{
		"name": "Mathematics", "subject": "Math", "teacher_id": teacher.ID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create class status = %d, body %s", w.Code, w.Body.String())
	}
	var class models.Class
	decode(t, w, &class)

	enrollPath := fmt.Sprintf("/api/v1/classes/%d/enroll", class.ID)
	if w := s.do(t, http.MethodPost, enrollPath, teacherToken, map[string]string{"student_id": student.ID}); w.Code != http.StatusOK {
		t.Fatalf("enroll status = %d, body %s", w.Code, w.Body.String())
	}
	if w := s.do(t, http.MethodPost, enrollPath, teacherToken, map[string]string{"student_id": student.ID}); w.Code != http.StatusConflict {
		t.Errorf("second enroll status = %d, want %d", w.Code, http.StatusConflict)
	}

	w = s.do(t, http.MethodPost, "/api/v1/assignments", teacherToken, map[string]interface{}{
		"title":       "Fractions",
		"description": "Chapter 2",
		"due_date":    time.Now().Add(48 * time.Hour),
		"class_id":    class.ID,
		"max_score":   50,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create assignment status = %d, body %s", w.Code, w.Body.String())
	}
	var assignment models.Assignment
	decode(t, w, &assignment)

	submitPath := fmt.Sprintf("/api/v1/assignments/%d/submit", assignment.ID)
	if w := s.do(t, http.MethodPost, submitPath, studentToken, map[string]string{"description": "my answers"}); w.Code != http.StatusOK {
		t.Fatalf("submit status = %d, body %s", w.Code, w.Body.String())
	}

	gradePath := fmt.Sprintf("/api/v1/assignments/%d/submissions/%s/grade", assignment.ID, student.ID)
	gradeBody := map[string]interface{}{"grade": 85, "score": 42.5, "feedback": "Good work"}

	if w := s.do(t, http.MethodPost, gradePath, otherTeacherToken, gradeBody); w.Code != http.StatusForbidden {
		t.Errorf("grade by other teacher status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if w := s.do(t, http.MethodPost, gradePath, teacherToken, map[string]interface{}{"grade": 150}); w.Code != http.StatusBadRequest {
		t.Errorf("out of range grade status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	w = s.do(t, http.MethodPost, gradePath, teacherToken, gradeBody)
	if w.Code != http.StatusOK {
		t.Fatalf("grade status = %d, body %s", w.Code, w.Body.String())
	}
	var graded models.Submission
	decode(t, w, &graded)
	if graded.Status != models.SubmissionGraded {
		t.Errorf("graded status = %q, want %q", graded.Status, models.SubmissionGraded)
	}

	// regrading with a fractional value keeps the submission graded
	w = s.do(t, http.MethodPost, gradePath, teacherToken, map[string]interface{}{"grade": 87.5})
	if w.Code != http.StatusOK {
		t.Fatalf("fractional grade status = %d, body %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodGet, "/api/v1/grades", studentToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("grades status = %d, body %s", w.Code, w.Body.String())
	}
	var grades []services.GradeEntry
	decode(t, w, &grades)
	if len(grades) != 1 || grades[0].Grade == nil || *grades[0].Grade != 87.5 {
		t.Errorf("grades = %+v, want one entry with grade 87.5", grades)
	}

	w = s.do(t, http.MethodGet, "/api/v1/grades/export", teacherToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d, body %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != xlsxContentType {
		t.Errorf("export Content-Type = %q, want %q", got, xlsxContentType)
	}

	if w := s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/assignments/%d", assignment.ID), teacherToken, nil); w.Code != http.StatusOK {
		t.Errorf("delete assignment status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestRouter_MultipartSubmit(t *testing.T) {
	s := newTestServer(t)
	teacher, _ := s.login(t, "teacher1", models.RoleTeacher, "")
	student, studentToken := s.login(t, "student1", models.RoleStudent, "STU1")
	admin, _ := s.login(t, "admin", models.RoleAdmin, "")
	ctx := context.Background()

	class, err := s.services.Class().CreateClass(ctx, admin, &services.CreateClassRequest{Name: "Biology", Subject: "Science", TeacherID: teacher.ID})
	if err != nil {
		t.Fatalf("CreateClass() error = %v", err)
	}
	if _, err := s.services.Class().Enroll(ctx, teacher, class.ID, student.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	assignment, err := s.services.Assignment().CreateAssignment(ctx, teacher, &services.CreateAssignmentRequest{
		Title: "Cells", Description: "Label the diagram", DueDate: time.Now().Add(time.Hour), ClassID: class.ID,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() error = %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("description", "diagram attached"); err != nil {
		t.Fatal(err)
	}
	part, err := mw.CreateFormFile("file", "cells.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("nucleus, membrane")); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/assignments/%d/submit", assignment.ID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: studentToken})

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("multipart submit status = %d, body %s", w.Code, w.Body.String())
	}

	var submission models.Submission
	decode(t, w, &submission)
	if submission.FileName == nil || *submission.FileName != "cells.txt" {
		t.Errorf("FileName = %v, want cells.txt", submission.FileName)
	}
	if submission.Description == nil || *submission.Description != "diagram attached" {
		t.Errorf("Description = %v, want %q", submission.Description, "diagram attached")
	}
}

func TestRouter_LoginSetsSessionCookie(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "parent1", "email": "parent1@school.test", "password": "secret123", "role": "parent", "student_id": "STU1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "parent1@school.test", "password": "secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}

	var session *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == SessionCookieName {
			session = cookie
		}
	}
	if session == nil || session.Value == "" {
		t.Fatalf("login did not set %s cookie", SessionCookieName)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req.AddCookie(session)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("session status = %d, body %s", w.Code, w.Body.String())
	}

	logout := s.do(t, http.MethodPost, "/api/v1/auth/logout", session.Value, nil)
	if logout.Code != http.StatusOK {
		t.Fatalf("logout status = %d, body %s", logout.Code, logout.Body.String())
	}
	if w := s.do(t, http.MethodGet, "/api/v1/auth/session", session.Value, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("session after logout status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestCORSMiddleware(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		origin     string
		wantHeader string
	}{
		{name: "allowed origin", origin: "http://localhost:3000", wantHeader: "http://localhost:3000"},
		{name: "unknown origin", origin: "http://evil.test", wantHeader: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/dashboard", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)

			if w.Code != http.StatusNoContent {
				t.Errorf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantHeader {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantHeader)
			}
		})
	}
}
