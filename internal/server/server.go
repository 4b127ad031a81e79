package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shinyyama/points-api/internal/config"
	"github.com/shinyyama/points-api/internal/handler"
	appmw "github.com/shinyyama/points-api/internal/middleware"
	"github.com/shinyyama/points-api/internal/repository"
	"github.com/shinyyama/points-api/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	e         *echo.Echo
	userRepo  repository.UserRepository
	scheduler *service.SchedulerService
	log       *zap.Logger
}

// New wires routes over db. db may be nil and injected later with SetDB.
func New(cfg *config.Config, db *gorm.DB, log *zap.Logger) (*Server, error) {
	return NewWithRepository(cfg, repository.NewUserRepository(db), log)
}

func NewWithRepository(cfg *config.Config, userRepo repository.UserRepository, log *zap.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler(log)
	e.Pre(appmw.CORS(cfg.AllowOrigins))
	e.Use(middleware.Recover())
	e.Use(appmw.RequestID())
	e.Use(appmw.RequestLogger(log))
	e.Use(appmw.Metrics())

	userSvc := service.NewUserService(userRepo, log)
	usersHandler := handler.NewUsersHandler(userSvc, cfg.ExposeStoreErrors)

	summarySvc := service.NewSummaryService(userSvc)
	summaryHandler := handler.NewGroupsSummaryHandler(summarySvc, cfg.ExposeStoreErrors)

	healthSvc := service.NewHealthService(userRepo)
	healthHandler := handler.NewHealthHandler(healthSvc)

	var scheduler *service.SchedulerService
	if cfg.ResetSchedule != "" {
		scheduler = service.NewSchedulerService(time.UTC, log)
		if _, err := scheduler.ScheduleReset(cfg.ResetSchedule, userSvc); err != nil {
			return nil, err
		}
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Every route is also served under /api for existing clients.
	for _, g := range []*echo.Group{e.Group(""), e.Group("/api")} {
		g.Any("/users", usersHandler.Handle)
		g.GET("/groups-summary", summaryHandler.Get)
		g.GET("/health", healthHandler.Get)
	}

	return &Server{e: e, userRepo: userRepo, scheduler: scheduler, log: log}, nil
}

func (s *Server) Start(addr string) error {
	if s.scheduler != nil {
		s.scheduler.Start()
		s.log.Info("reset scheduler started")
	}
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	return s.e.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func (s *Server) SetDB(db *gorm.DB) {
	s.userRepo.SetDB(db)
}
