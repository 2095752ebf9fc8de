package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"todoweb/internal/app"
	"todoweb/internal/flash"
	"todoweb/internal/model"
	"todoweb/internal/repository"
	"todoweb/internal/transport/http/middleware"
)

const testSessionSecret = "test-secret"

// memFlash is an in-memory flash.Store for handler tests.
type memFlash struct {
	mu       sync.Mutex
	messages map[string][]flash.Message
}

func newMemFlash() *memFlash {
	return &memFlash{messages: make(map[string][]flash.Message)}
}

func (m *memFlash) Push(_ context.Context, browserID string, msg flash.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[browserID] = append(m.messages[browserID], msg)
	return nil
}

func (m *memFlash) Pop(_ context.Context, browserID string) ([]flash.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	queued := m.messages[browserID]
	delete(m.messages, browserID)
	return queued, nil
}

type fixture struct {
	router   *gin.Engine
	db       *gorm.DB
	accounts *app.AccountService
	tasks    *app.TaskService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Task{}, &model.ActivityEvent{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// newFixture wires the real handlers and session middleware over an
// in-memory database, mirroring the route table of the production router.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	accounts := app.NewAccountService(repository.NewUserRepository(db), nil)
	tasks := app.NewTaskService(repository.NewTaskRepository(db), nil)
	flashes := newMemFlash()

	accountHandler := NewAccountHandler(accounts, flashes, testSessionSecret, time.Hour)
	taskHandler := NewTaskHandler(tasks, flashes)

	router := gin.New()
	router.LoadHTMLGlob("../../../../web/templates/*.html")
	router.GET("/register", accountHandler.ShowRegister)
	router.POST("/register", accountHandler.Register)
	router.GET("/login", accountHandler.ShowLogin)
	router.POST("/login", accountHandler.Login)

	guarded := router.Group("/")
	guarded.Use(middleware.RequireSession(testSessionSecret, accounts, flashes))
	guarded.GET("", taskHandler.List)
	guarded.POST("", taskHandler.Create)
	guarded.GET("/logout", accountHandler.Logout)

	return &fixture{router: router, db: db, accounts: accounts, tasks: tasks}
}

func (f *fixture) do(t *testing.T, method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// login registers (if needed) and logs the user in, returning the session
// cookie the browser would carry afterwards.
func (f *fixture) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	if _, err := f.accounts.Register(context.Background(), username, password); err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	rec := f.do(t, http.MethodPost, "/login", url.Values{
		"username": {username},
		"password": {password},
	})
	if rec.Code != http.StatusFound {
		t.Fatalf("login status = %d, want 302", rec.Code)
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("login response carries no session cookie")
	return nil
}
