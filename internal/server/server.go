// Package server is the RT+ HTTP application: the JSON API under /api and
// the server-rendered pages under /app.
package server

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/rtplus/rtplus/internal/auth"
	"github.com/rtplus/rtplus/internal/config"
	"github.com/rtplus/rtplus/internal/personnel"
	"github.com/rtplus/rtplus/internal/store"
)

// Server wires the store and the auth manager into a fiber app.
type Server struct {
	app      *fiber.App
	cfg      config.Config
	store    *store.Store
	auth     *auth.Manager
	importer *personnel.Importer
	validate *validator.Validate
	pages    *renderer
	now      func() time.Time

	requestLog bool
}

// Option configures a Server.
type Option func(*Server)

// WithoutRequestLog disables the access log middleware.
func WithoutRequestLog() Option {
	return func(s *Server) { s.requestLog = false }
}

// WithClock overrides the clock used for default dates.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New builds the application and registers every route.
func New(cfg config.Config, st *store.Store, am *auth.Manager, opts ...Option) (*Server, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		store:    st,
		auth:     am,
		importer: personnel.NewImporter(st.PersonnelImport()),
		validate: newValidator(),
		pages:    pages,
		now:      time.Now,

		requestLog: true,
	}
	for _, o := range opts {
		o(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "rtplus",
		ErrorHandler: s.handleError,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.ServerURL(),
		AllowCredentials: true,
	}))
	if s.requestLog {
		s.app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		}))
	}

	s.routes()
	return s, nil
}

// App exposes the fiber app, e.g. for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until ctx is cancelled.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() { errc <- s.app.Listen(addr) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return s.app.ShutdownWithTimeout(10 * time.Second)
	}
}

func (s *Server) routes() {
	s.app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	s.app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/app", fiber.StatusFound) })

	s.auth.Register(s.app.Group("/api/auth"))

	api := s.app.Group("/api", s.auth.Protected())

	api.Get("/capabilities", s.listCapabilities)
	api.Post("/capabilities", s.createCapability)
	api.Get("/skill-groups", s.listSkillGroups)
	api.Post("/skill-groups", s.createSkillGroup)
	api.Get("/skills", s.listSkills)
	api.Post("/skills", s.createSkill)

	api.Get("/teams", s.listTeams)
	api.Post("/teams", s.createTeam)
	api.Get("/teams/:id", s.getTeam)
	api.Patch("/teams/:id", s.updateTeam)
	api.Delete("/teams/:id", s.deleteTeam)
	api.Get("/teams/:id/members", s.listMembers)
	api.Post("/teams/:id/members", s.addMember)
	api.Delete("/teams/:id/members/:personId", s.removeMember)

	api.Get("/personnel", s.listPersonnel)
	api.Post("/personnel", s.createPerson)
	api.Post("/personnel/import", s.importPersonnel)
	api.Get("/personnel/:id", s.getPerson)
	api.Patch("/personnel/:id", s.updatePerson)
	api.Get("/personnel/:id/currency", s.personCurrency)

	api.Get("/assessments", s.listAssessments)
	api.Post("/assessments", s.createAssessment)
	api.Get("/assessments/:id", s.getAssessment)

	api.Get("/skill-check-sessions", s.listSessions)
	api.Post("/skill-check-sessions", s.createSession)
	api.Get("/skill-check-sessions/:id", s.getSession)
	api.Get("/skill-check-sessions/:id/checks", s.listChecks)
	api.Post("/skill-check-sessions/:id/checks", s.recordCheck)
	api.Post("/skill-checks", s.recordCheck)

	api.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "no such endpoint")
	})

	s.pageRoutes(s.app.Group("/app", s.auth.Attach(), s.requirePageSession))
}
