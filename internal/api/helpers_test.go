package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolio/internal/auth"
	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/storage"
)

const testCookieName = "portfolio_session"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

type recordingDispatcher struct {
	mu    sync.Mutex
	calls []string
}

func (d *recordingDispatcher) Revalidate(_ context.Context, entity, action, _ string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, entity+":"+action)
	return nil
}

func (d *recordingDispatcher) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

type testEnv struct {
	router     *gin.Engine
	db         *gorm.DB
	auth       *auth.AuthService
	dispatcher *recordingDispatcher
}

type envOption func(*Dependencies)

func withStorage(s ResumeStorage) envOption {
	return func(d *Dependencies) { d.Storage = s }
}

func withScanner(s storage.Scanner) envOption {
	return func(d *Dependencies) { d.Scanner = s }
}

func withLoginGuard(g *auth.LoginGuard) envOption {
	return func(d *Dependencies) { d.LoginGuard = g }
}

func withPublicResume() envOption {
	return func(d *Dependencies) { d.Config.Resume.Public = true }
}

func testConfig(testMode bool) *config.Config {
	env := config.EnvDevelopment
	if testMode {
		env = config.EnvTest
	}
	return &config.Config{
		App: config.AppConfig{Env: env},
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			SessionTTL: time.Hour,
			CookieName: testCookieName,
		},
		Resume: config.ResumeConfig{
			Bucket:       "resumes",
			Object:       "current.pdf",
			DownloadName: "resume.pdf",
			SignedTTL:    time.Minute,
		},
	}
}

func newTestEnvWithDB(t *testing.T, db *gorm.DB, testMode bool, opts ...envOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := auth.NewMemoryStore()
	authService, err := auth.NewAuthService("test-secret", time.Hour, store)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	dispatcher := &recordingDispatcher{}
	deps := Dependencies{
		Config:      testConfig(testMode),
		DB:          db,
		AuthService: authService,
		LoginGuard:  auth.NewLoginGuard(store, 100, 5, time.Minute),
		Dispatcher:  dispatcher,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	return &testEnv{
		router:     NewRouter(deps),
		db:         db,
		auth:       authService,
		dispatcher: dispatcher,
	}
}

func newTestEnv(t *testing.T, testMode bool, opts ...envOption) *testEnv {
	t.Helper()
	return newTestEnvWithDB(t, newTestDB(t), testMode, opts...)
}

// sessionCookie 为测试签发一个有效的后台会话。
func (e *testEnv) sessionCookie(t *testing.T) *http.Cookie {
	t.Helper()
	token, _, err := e.auth.IssueSession(1, "admin")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return &http.Cookie{Name: testCookieName, Value: token}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}

func seedPersonalInfo(t *testing.T, db *gorm.DB) database.PersonalInfo {
	t.Helper()
	avatar := "/avatar.jpg"
	info := database.PersonalInfo{
		Name:        "Ada Lovelace",
		Initials:    "AL",
		URL:         "https://ada.example",
		Location:    "London",
		Description: "Engineer",
		Summary:     "Writes programs",
		AvatarURL:   &avatar,
	}
	if err := db.Create(&info).Error; err != nil {
		t.Fatalf("seed personal info: %v", err)
	}
	return info
}

func countRows[T any](t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	var model T
	if err := db.Model(&model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func uintString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
