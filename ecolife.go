// Package ecolife is a small content-managed blog built with Go, Echo and
// SQLite: an admin publishes tagged posts and calendar events, visitors read
// and comment, and a contact form is relayed by email.
package ecolife

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// App wires together the store, cache, mailer, middleware and handlers.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *ContentCache

	mailer       Mailer
	log          *slog.Logger
	loginLimiter *LoginLimiter
	staticDir    string
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		log:       slog.Default(),
		staticDir: "public",
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.mailer == nil {
		a.mailer = NewSendGridMailer(cfg.SendGridAPIKey, cfg.ContactEmail)
	}
	return a
}

// Start initializes the database, cache, middleware and routes, then serves.
func (a *App) Start() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("ecolife: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("ecolife: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewContentCache(store, a.Config.CacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.Echo.Validator = NewFormValidator()
	a.setupMiddleware()
	a.registerRoutes(a.Echo)

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// registerRoutes binds the HTTP surface. It takes the echo instance so tests
// can mount the same routes behind a reduced middleware stack.
func (a *App) registerRoutes(e *echo.Echo) {
	e.Use(a.loadCurrentUser)

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.POST("/", a.handleHomeContact)
	e.GET("/contact", a.handleContactForm)
	e.POST("/contact", a.handleContact)

	e.GET("/register", a.handleRegisterForm)
	e.POST("/register", a.handleRegister)
	e.GET("/login", a.handleLoginForm)
	e.POST("/login", a.handleLogin)
	e.GET("/logout", a.handleLogout)
	e.POST("/logout", a.handleLogout)

	e.GET("/post/:id", a.handleShowPost)
	e.POST("/post/:id", a.handleAddComment)

	e.GET("/calendar/:calendarID", a.handleCalendar)
	e.GET("/event/:id", a.handleShowEvent)
	e.POST("/event/:id", a.handleShowEvent)
	e.GET("/calculator", a.handleCalculator)

	// Admin routes — the gate runs before any form is built.
	e.GET("/new-post", a.handleNewPostForm, a.requireAdmin)
	e.POST("/new-post", a.handleCreatePost, a.requireAdmin)
	e.GET("/edit-post/:id", a.handleEditPostForm, a.requireAdmin)
	e.POST("/edit-post/:id", a.handleUpdatePost, a.requireAdmin)
	e.GET("/delete/:id", a.handleDeletePost, a.requireAdmin)
	e.POST("/delete/:id", a.handleDeletePost, a.requireAdmin)
	e.GET("/new-event", a.handleNewEventForm, a.requireAdmin)
	e.POST("/new-event", a.handleCreateEvent, a.requireAdmin)
	e.GET("/delete_event/:id", a.handleDeleteEvent, a.requireAdmin)
	e.POST("/delete_event/:id", a.handleDeleteEvent, a.requireAdmin)
}

// httpErrorHandler renders styled 404/403/500 pages.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok {
		switch he.Code {
		case http.StatusNotFound:
			_ = RenderStatus(c, http.StatusNotFound, a.NotFoundPage(c))
			return
		case http.StatusForbidden:
			_ = RenderStatus(c, http.StatusForbidden, a.ForbiddenPage(c))
			return
		}
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.ServerErrorPage(c))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
