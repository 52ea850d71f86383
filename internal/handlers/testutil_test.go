package handlers_test

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck/taskdeck/db"
	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/router"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "password123"

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	// A named shared-cache database so every pooled connection sees
	// the same in-memory store.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})

	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	tokens := auth.NewTokenManager("test-secret")

	cfg := config.Config{Port: "0", JWTSecret: "test-secret"}

	return &testEnv{
		t:      t,
		db:     database,
		router: router.New(database, tokens, cfg),
		tokens: tokens,
	}
}

func (e *testEnv) createUser(email, role string) models.User {
	e.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)

	if err != nil {
		e.t.Fatalf("failed to hash password: %v", err)
	}

	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := e.db.Create(&user).Error; err != nil {
		e.t.Fatalf("failed to create user %s: %v", email, err)
	}

	return user
}

func (e *testEnv) tokenFor(user models.User) string {
	e.t.Helper()

	token, err := e.tokens.GenerateJWT(user.ID, user.Role)

	if err != nil {
		e.t.Fatalf("failed to generate token: %v", err)
	}

	return token
}

func (e *testEnv) request(method, path, body, token string) *httptest.ResponseRecorder {
	e.t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)

	return rr
}

func (e *testEnv) createProject(name string) models.Project {
	e.t.Helper()

	project := models.Project{Name: name, Status: "ACTIVE"}

	if err := e.db.Create(&project).Error; err != nil {
		e.t.Fatalf("failed to create project %s: %v", name, err)
	}

	return project
}

func (e *testEnv) addMember(project models.Project, user models.User) {
	e.t.Helper()

	member := models.ProjectMember{UserID: user.ID, ProjectID: project.ID}

	if err := e.db.Create(&member).Error; err != nil {
		e.t.Fatalf("failed to add member: %v", err)
	}
}

func (e *testEnv) createTask(project models.Project, assignee models.User, title string) models.Task {
	e.t.Helper()

	task := models.Task{
		Title:        title,
		Priority:     "MEDIUM",
		Status:       "TODO",
		ProjectID:    project.ID,
		AssignedToID: assignee.ID,
	}

	if err := e.db.Create(&task).Error; err != nil {
		e.t.Fatalf("failed to create task %s: %v", title, err)
	}

	return task
}

func (e *testEnv) count(model interface{}, query string, args ...interface{}) int64 {
	e.t.Helper()

	var n int64

	tx := e.db.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}

	if err := tx.Count(&n).Error; err != nil {
		e.t.Fatalf("failed to count rows: %v", err)
	}

	return n
}
