package analysisService

import (
	"ProjectPoseForm/internal/api/analysis"
	"ProjectPoseForm/pkg/evaluator"
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type IAnalysisService interface {
	// Handle runs one message to completion on the calling goroutine. ok is
	// false when the message type is not handled and nothing must be sent back.
	Handle(ctx context.Context, raw []byte) (resp analysis.Response, ok bool)
	// Submit hands a message to the worker pool and waits for its reply.
	Submit(ctx context.Context, raw []byte) (resp analysis.Response, ok bool, err error)
	Start(ctx context.Context)
	Stop()
}

type Config struct {
	Workers     int
	QueueSize   int
	FrameBudget time.Duration
}

type analysisService struct {
	log       *logrus.Logger
	validator *validator.Validate
	evaluator evaluator.IEvaluator
	cfg       Config

	inbox     chan envelope
	quit      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

func NewAnalysisService(
	log *logrus.Logger,
	validator *validator.Validate,
	evaluator evaluator.IEvaluator,
	cfg Config,
) IAnalysisService {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}

	return &analysisService{
		log:       log,
		validator: validator,
		evaluator: evaluator,
		cfg:       cfg,
		inbox:     make(chan envelope, cfg.QueueSize),
		quit:      make(chan struct{}),
	}
}
