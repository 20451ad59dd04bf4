package console

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/libradesk/libradesk/internal/api"
	"github.com/libradesk/libradesk/internal/catalog"
	"github.com/libradesk/libradesk/internal/config"
	"github.com/libradesk/libradesk/internal/database"
	"github.com/libradesk/libradesk/internal/database/settings"
	"github.com/libradesk/libradesk/internal/database/snapshot"
	"github.com/libradesk/libradesk/internal/entities"
	"github.com/libradesk/libradesk/internal/lending"
	"github.com/libradesk/libradesk/internal/membership"
	"github.com/libradesk/libradesk/internal/reports"
	"github.com/libradesk/libradesk/internal/session"
)

// consoleFixture spins up a full router against a fake remote store.
type consoleFixture struct {
	router  *gin.Engine
	remote  *httptest.Server
	cleanup func()
}

// remoteRole controls which principal the fake remote issues on login.
func setupConsole(t *testing.T, remoteRole entities.Role) *consoleFixture {
	gin.SetMode(gin.TestMode)

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/auth/login":
			if strings.Contains(readBody(r), `"wrong"`) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"user":{"id":1,"username":"op","role":"` + string(remoteRole) + `"},"token":"remote-token"}`))
		case r.URL.Path == "/auth/signup":
			if strings.Contains(readBody(r), `"taken"`) {
				w.WriteHeader(http.StatusConflict)
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":7,"username":"newbie","email":"newbie@example.com","role":"librarian"}`))
		case r.URL.Path == "/books" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`[{"id":1,"title":"Dune","author":"Frank Herbert","genre_id":1,"available_copies":2}]`))
		case r.URL.Path == "/members" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`[{"id":1,"name":"Ada","email":"ada@example.com","phone":"1","join_date":"2026-01-01"}]`))
		case r.URL.Path == "/borrow-records/borrow":
			w.WriteHeader(http.StatusConflict)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	dbPath := "./test_console_" + t.Name() + ".db"
	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&entities.Setting{},
		&entities.Genre{},
		&entities.Book{},
		&entities.Member{},
		&entities.StaffUser{},
		&entities.BorrowRecord{},
	))
	db := &database.Database{DB: gdb}

	settingsRepo := settings.NewRepository(gdb)
	snapshotRepo := snapshot.NewRepository(gdb)
	sess := session.New(settingsRepo)
	client := api.NewClient(remote.URL, 0, sess)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sm, err := NewSessionManager(sqlDB, config.Session{Lifetime: time.Hour})
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Client:         client,
		Session:        sess,
		SessionManager: sm,
		Catalog:        catalog.NewRepository(client, sess, snapshotRepo, nil),
		Membership:     membership.NewRepository(client, sess, snapshotRepo, nil),
		Lending:        lending.NewEngine(client, snapshotRepo, nil),
		Reports:        reports.NewAggregator(client, sess, snapshotRepo),
		Database:       db,
		Settings:       settingsRepo,
		Version:        "test",
	})

	cleanup := func() {
		remote.Close()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return &consoleFixture{router: router, remote: remote, cleanup: cleanup}
}

func readBody(r *http.Request) string {
	buf := make([]byte, 1024)
	n, _ := r.Body.Read(buf)
	return string(buf[:n])
}

func (f *consoleFixture) do(method, path, body, cookie string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// login signs in through the API and returns the session cookie.
func (f *consoleFixture) login(t *testing.T) string {
	w := f.do(http.MethodPost, "/api/auth/login", `{"username":"op","password":"secret"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	cookie := w.Header().Get("Set-Cookie")
	require.NotEmpty(t, cookie)
	return strings.Split(cookie, ";")[0]
}

func TestRouter_Health_Public(t *testing.T) {
	f := setupConsole(t, entities.RoleLibrarian)
	defer f.cleanup()

	w := f.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
}

func TestRouter_Books_RequiresSignIn(t *testing.T) {
	f := setupConsole(t, entities.RoleLibrarian)
	defer f.cleanup()

	w := f.do(http.MethodGet, "/api/books", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"unauthenticated"`)
}

func TestRouter_LoginAndListBooks(t *testing.T) {
	f := setupConsole(t, entities.RoleLibrarian)
	defer f.cleanup()

	cookie := f.login(t)

	w := f.do(http.MethodGet, "/api/books", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dune")
}

func TestRouter_Login_BadCredentials(t *testing.T) {
	f := setupConsole(t, entities.RoleLibrarian)
	defer f.cleanup()

	w := f.do(http.MethodPost, "/api/auth/login", `{"username":"op","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"unauthenticated"`)
}

func TestRouter_Register_CreatesAccount(t *testing.T) {
	f := setupConsole(t, entities.RoleLibrarian)
	defer f.cleanup()

	// Registration is public; no sign-in needed.
	w := f.do(http.MethodPost, "/api/auth/register",
		`{"username":"newbie","email":"newbie@example.com","password":"secret","role":"librarian"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"newbie"`)
}

func TestRouter_Register_UsernameTaken(t *testing.T) {
	f := setupConsole(t, entities.RoleLibrarian)
	defer f.cleanup()

	w := f.do(http.MethodPost, "/api/auth/register",
		`{"username":"taken","email":"taken@example.com","password":"secret","role":"librarian"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"conflict"`)
}

func TestRouter_Register_InvalidRole(t *testing.T) {
	f := setupConsole(t, entities.RoleLibrarian)
	defer f.cleanup()

	w := f.do(http.MethodPost, "/api/auth/register",
		`{"username":"newbie","email":"n@example.com","password":"secret","role":"superuser"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"validation"`)
}

func TestRouter_Members_LibrarianForbidden(t *testing.T) {
	f := setupConsole(t, entities.RoleLibrarian)
	defer f.cleanup()

	cookie := f.login(t)

	w := f.do(http.MethodGet, "/api/members", "", cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"denied"`)
}

func TestRouter_Members_AdminAllowed(t *testing.T) {
	f := setupConsole(t, entities.RoleAdmin)
	defer f.cleanup()

	cookie := f.login(t)

	w := f.do(http.MethodGet, "/api/members", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ada")
}

func TestRouter_Borrow_ConflictStatus(t *testing.T) {
	f := setupConsole(t, entities.RoleLibrarian)
	defer f.cleanup()

	cookie := f.login(t)

	due := time.Now().AddDate(0, 0, 14).Format(lending.DueDateLayout)
	w := f.do(http.MethodPost, "/api/borrow-records/borrow",
		`{"book_id":1,"member_id":1,"due_date":"`+due+`"}`, cookie)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"conflict"`)
}

func TestRouter_Borrow_ValidationStatus(t *testing.T) {
	f := setupConsole(t, entities.RoleLibrarian)
	defer f.cleanup()

	cookie := f.login(t)

	w := f.do(http.MethodPost, "/api/borrow-records/borrow",
		`{"book_id":0,"member_id":1,"due_date":"2026-09-20"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"validation"`)
}

func TestRouter_InvalidIDParam(t *testing.T) {
	f := setupConsole(t, entities.RoleLibrarian)
	defer f.cleanup()

	cookie := f.login(t)

	w := f.do(http.MethodDelete, "/api/books/abc", "", cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Session_ReflectsIdentity(t *testing.T) {
	f := setupConsole(t, entities.RoleAdmin)
	defer f.cleanup()

	w := f.do(http.MethodGet, "/api/auth/session", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	cookie := f.login(t)
	w = f.do(http.MethodGet, "/api/auth/session", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestRouter_Logout(t *testing.T) {
	f := setupConsole(t, entities.RoleLibrarian)
	defer f.cleanup()

	cookie := f.login(t)

	w := f.do(http.MethodPost, "/api/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/books", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
