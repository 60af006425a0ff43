// Package server exposes a session over HTTP.
package server

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/philipparndt/golabel/internal/logger"
	"github.com/philipparndt/golabel/internal/persist"
	"github.com/philipparndt/golabel/internal/session"
	"github.com/philipparndt/golabel/pkg/analysis"
	"github.com/philipparndt/golabel/version"
)

// Server serves the state of one session
type Server struct {
	app       *fiber.App
	session   *session.Session
	snapshots *persist.SnapshotStore
	savePath  string
}

// Option configures a Server
type Option func(*options)

type options struct {
	accessLog bool
	savePath  string
}

// WithAccessLog enables the request log middleware
func WithAccessLog(enabled bool) Option {
	return func(o *options) { o.accessLog = enabled }
}

// WithSavePath enables POST /api/save, which writes the state to path
func WithSavePath(path string) Option {
	return func(o *options) { o.savePath = path }
}

// New creates the HTTP app. snapshots may be nil, in which case the
// snapshot endpoints answer 503.
func New(sess *session.Session, snapshots *persist.SnapshotStore, opts ...Option) *Server {
	o := options{accessLog: true}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{session: sess, snapshots: snapshots, savePath: o.savePath}
	s.app = fiber.New(fiber.Config{
		AppName:      "golabel " + version.Version,
		ErrorHandler: errorHandler,
	})

	s.app.Use(recover.New())
	if o.accessLog {
		s.app.Use(fiberlogger.New(fiberlogger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}

	s.app.Get("/health/live", liveness)

	api := s.app.Group("/api")
	api.Get("/state", s.getState)
	api.Get("/items/:index", s.getItem)
	api.Get("/stats", s.getStats)
	api.Post("/undo", s.undo)
	api.Post("/redo", s.redo)
	api.Post("/save", s.save)
	api.Post("/snapshots", s.saveSnapshot)
	api.Get("/snapshots", s.listSnapshots)
	api.Get("/snapshots/:id", s.getSnapshot)
	api.Get("/export", s.export)
	return s
}

// App returns the fiber app
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown
func (s *Server) Listen(addr string) error {
	logger.Logger().Info("serving", "addr", addr, "session", s.session.ID())
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		logger.Logger().Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

func (s *Server) getState(c fiber.Ctx) error {
	return c.JSON(s.session.State())
}

func (s *Server) getItem(c fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item index")
	}
	items := s.session.State().Task.Items
	if index < 0 || index >= len(items) {
		return fiber.NewError(fiber.StatusNotFound, "item "+strconv.Itoa(index)+" not found")
	}
	return c.JSON(items[index])
}

func (s *Server) getStats(c fiber.Ctx) error {
	return c.JSON(analysis.AnalyzeTask(s.session.State()))
}

func (s *Server) undo(c fiber.Ctx) error {
	ok, err := s.session.Undo()
	if err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return c.JSON(fiber.Map{"changed": ok, "canUndo": s.session.Store().CanUndo()})
}

func (s *Server) redo(c fiber.Ctx) error {
	ok, err := s.session.Redo()
	if err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return c.JSON(fiber.Map{"changed": ok, "canRedo": s.session.Store().CanRedo()})
}

func (s *Server) save(c fiber.Ctx) error {
	if s.savePath == "" {
		return fiber.NewError(fiber.StatusServiceUnavailable, "no save path configured")
	}
	if err := persist.SaveFile(s.savePath, s.session.State()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"path": s.savePath})
}

func (s *Server) requireSnapshots() error {
	if s.snapshots == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "no snapshot database configured")
	}
	return nil
}

func (s *Server) saveSnapshot(c fiber.Ctx) error {
	if err := s.requireSnapshots(); err != nil {
		return err
	}
	id, err := s.snapshots.Save(c.Context(), s.session.ID(), s.session.State())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) listSnapshots(c fiber.Ctx) error {
	if err := s.requireSnapshots(); err != nil {
		return err
	}
	list, err := s.snapshots.List(c.Context(), s.session.ID())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (s *Server) getSnapshot(c fiber.Ctx) error {
	if err := s.requireSnapshots(); err != nil {
		return err
	}
	st, err := s.snapshots.Get(c.Context(), c.Params("id"))
	if errors.Is(err, persist.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(st)
}

func (s *Server) export(c fiber.Ctx) error {
	return c.JSON(persist.ExportLabels(s.session.State()))
}
