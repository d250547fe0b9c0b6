package analysisHandler

import (
	analysisService "ProjectPoseForm/internal/api/analysis/service"
	"ProjectPoseForm/internal/middleware"
	"ProjectPoseForm/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"time"
)

type Config struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

type AnalysisHandler struct {
	log             *logrus.Logger
	middleware      middleware.Middleware
	analysisService analysisService.IAnalysisService
	utils           utils.IUtils
	cfg             Config
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	as analysisService.IAnalysisService,
	utils utils.IUtils,
	cfg Config,
) *AnalysisHandler {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 60 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}

	return &AnalysisHandler{
		log:             log,
		middleware:      middleware,
		analysisService: as,
		utils:           utils,
		cfg:             cfg,
	}
}

func (h *AnalysisHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	analysis := srv.Group("/analysis")
	analysis.Use("/ws", wsMiddleware)
	analysis.Get("/ws", websocket.New(h.handleAnalysisWebSocket))
	analysis.Post("/analyze", h.middleware.NewRateLimiter, h.Analyze)
}
