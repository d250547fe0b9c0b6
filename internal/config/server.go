package config

import (
	analysisHandler "ProjectPoseForm/internal/api/analysis/handler"
	analysisService "ProjectPoseForm/internal/api/analysis/service"
	"ProjectPoseForm/internal/middleware"
	"ProjectPoseForm/pkg/evaluator"
	"ProjectPoseForm/pkg/utils"
	"context"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine          *fiber.App
	log             *logrus.Logger
	middleware      middleware.Middleware
	validator       *validator.Validate
	utils           utils.IUtils
	evaluator       evaluator.IEvaluator
	cfg             AnalysisConfig
	analysisService analysisService.IAnalysisService
	handlers        []handler
	ctx             context.Context
	cancel          context.CancelFunc
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.evaluator == nil {
		server.evaluator = evaluator.New()
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log)
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithAnalysisConfig(cfg AnalysisConfig) ServerOption {
	return func(s *Server) error {
		if cfg.Workers < 1 {
			return fmt.Errorf("analysis workers must be positive, got %d", cfg.Workers)
		}
		s.cfg = cfg
		return nil
	}
}

func WithEvaluator(e evaluator.IEvaluator) ServerOption {
	return func(s *Server) error {
		s.evaluator = e
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		var opts []middleware.Option
		if s.cfg.RateLimitRPS > 0 {
			opts = append(opts, middleware.WithRateLimit(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst))
		}
		s.middleware = middleware.New(s.log, opts...)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	// Form analysis
	s.analysisService = analysisService.NewAnalysisService(s.log, s.validator, s.evaluator, analysisService.Config{
		Workers:     s.cfg.Workers,
		QueueSize:   s.cfg.QueueSize,
		FrameBudget: s.cfg.FrameBudget,
	})
	analysisHandlers := analysisHandler.New(s.log, s.middleware, s.analysisService, s.utils, analysisHandler.Config{
		ReadTimeout:    s.cfg.ReadTimeout,
		RequestTimeout: s.cfg.RequestTimeout,
	})

	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	s.setupHealthCheck()
	s.handlers = append(s.handlers, analysisHandlers)

	router := s.engine.Group("/api/v1")
	for _, h := range s.handlers {
		h.Start(router)
	}
}

// Run starts the analysis workers and blocks serving HTTP until Shutdown.
func (s *Server) Run() error {
	if s.analysisService == nil {
		return fmt.Errorf("handlers are not registered")
	}

	s.analysisService.Start(s.ctx)

	port := s.cfg.Port
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		s.stopWorkers()
		return err
	}

	return nil
}

func (s *Server) Shutdown() error {
	err := s.engine.Shutdown()
	s.stopWorkers()
	return err
}

func (s *Server) stopWorkers() {
	if s.analysisService != nil {
		s.analysisService.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
