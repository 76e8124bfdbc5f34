// http/server.go
package http

import (
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vinizap/notes-api/store"
)

// Backend is the store handle plus its readiness gate.
type Backend interface {
	Ready() bool
	Store() store.Store
}

type Server struct {
	backend   Backend
	log       zerolog.Logger
	now       func() time.Time
	staticDir string
}

type Option func(*Server)

// WithClock replaces the clock used to stamp new notes.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithStaticDir serves the client from dir. Empty disables static files.
func WithStaticDir(dir string) Option {
	return func(s *Server) { s.staticDir = dir }
}

func NewServer(backend Backend, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		backend: backend,
		log:     log.With().Str("component", "http").Logger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// App builds the fiber application with every route registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "notes-api",
		DisableStartupMessage: true,
		Immutable:             true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          s.handleError,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(s.accessLog)
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	app.Get("/", s.HandleHealth)

	api := app.Group("/api", s.requireReady)
	api.Get("/notes", s.HandleListNotes)
	api.Post("/notes", s.HandleCreateNote)
	api.Get("/notes/:id", s.HandleGetNote)
	api.Patch("/notes/:id", s.HandlePatchNote)
	api.Delete("/notes/:id", s.HandleDeleteNote)

	if s.staticDir != "" {
		app.Static("/", s.staticDir, fiber.Static{Index: "index.html"})
	}

	return app
}

// handleError renders errors that escaped a handler, including fiber's own
// 404 and 405 errors, as JSON.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		s.log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}
	return writeError(c, code, msg)
}

func writeError(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
