// Package console is the HTTP surface of the operator console: a JSON API
// consumed by the browser UI, with cookie sessions, CSRF protection and
// role gating on the admin-only views. Every mutation is proxied to the
// remote store; the console holds no authority of its own.
package console

import (
	"github.com/gin-gonic/gin"

	"github.com/libradesk/libradesk/internal/api"
	"github.com/libradesk/libradesk/internal/catalog"
	"github.com/libradesk/libradesk/internal/database"
	"github.com/libradesk/libradesk/internal/database/settings"
	"github.com/libradesk/libradesk/internal/lending"
	"github.com/libradesk/libradesk/internal/membership"
	"github.com/libradesk/libradesk/internal/reports"
	"github.com/libradesk/libradesk/internal/session"
)

// RouterConfig carries all router dependencies, keeping NewRouter's
// signature stable as the console grows.
type RouterConfig struct {
	Client         *api.Client
	Session        *session.Session
	SessionManager *SessionManager
	Catalog        *catalog.Repository
	Membership     *membership.Repository
	Lending        *lending.Engine
	Reports        *reports.Aggregator
	Database       *database.Database
	Settings       *settings.Repository

	CSRFSecret    []byte
	SecureCookies bool
	Version       string
}

// NewRouter creates and configures the console router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeaders())
	router.Use(MetricsMiddleware())

	// CSRF must run before the session middleware so the session context
	// is layered on top of CSRF's request replacement.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	router.Use(cfg.SessionManager.LoadAndSave())

	healthController := NewHealthController(cfg.Database, cfg.Settings, cfg.Version)
	authController := NewAuthController(cfg.Client, cfg.Session, cfg.SessionManager)
	booksController := NewBooksController(cfg.Catalog)
	genresController := NewGenresController(cfg.Catalog)
	membersController := NewMembersController(cfg.Membership)
	staffController := NewStaffController(cfg.Membership)
	lendingController := NewLendingController(cfg.Lending)
	reportsController := NewReportsController(cfg.Reports)

	router.GET("/health", healthController.Status)
	router.GET("/metrics", MetricsHandler())

	router.POST("/api/auth/login", authController.Login)
	router.POST("/api/auth/register", authController.Register)
	router.GET("/api/auth/session", authController.Session)

	signedIn := router.Group("/api", RequireSignIn(cfg.SessionManager, cfg.Session))
	{
		signedIn.POST("/auth/logout", authController.Logout)

		signedIn.GET("/health/snapshot", healthController.Snapshot)

		signedIn.GET("/books", booksController.List)
		signedIn.POST("/books", booksController.Create)
		signedIn.PATCH("/books/:id", booksController.Update)
		signedIn.DELETE("/books/:id", booksController.Delete)
		signedIn.GET("/books/:id/active-loans", booksController.ActiveLoans)

		signedIn.GET("/borrow-records", lendingController.List)
		signedIn.POST("/borrow-records/borrow", lendingController.Borrow)
		signedIn.POST("/borrow-records/return", lendingController.Return)
	}

	// Admin-only views. The route guard mirrors the repository-level role
	// checks so a librarian gets a clean 403 before any handler work.
	admin := router.Group("/api", RequireSignIn(cfg.SessionManager, cfg.Session), AdminOnly(cfg.Session))
	{
		admin.GET("/genres", genresController.List)
		admin.POST("/genres", genresController.Create)
		admin.PATCH("/genres/:id", genresController.Update)
		admin.DELETE("/genres/:id", genresController.Delete)

		admin.GET("/members", membersController.List)
		admin.POST("/members", membersController.Create)
		admin.PATCH("/members/:id", membersController.Update)
		admin.DELETE("/members/:id", membersController.Delete)

		admin.GET("/staff", staffController.List)
		admin.POST("/staff", staffController.Create)
		admin.PATCH("/staff/:id", staffController.Update)
		admin.DELETE("/staff/:id", staffController.Delete)

		admin.GET("/reports", reportsController.Get)
	}

	return router
}
