package analysisService

import (
	"ProjectPoseForm/internal/api/analysis"
	"ProjectPoseForm/pkg/evaluator"
	"ProjectPoseForm/pkg/landmark"
	"ProjectPoseForm/pkg/log"
	"ProjectPoseForm/pkg/response"
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (s *analysisService) Handle(ctx context.Context, raw []byte) (resp analysis.Response, ok bool) {
	logger := log.WithRequestID(s.log, ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", fmt.Sprintf("%v", r)).Error("Evaluator panicked")
			resp, ok = analysis.Failed(response.Wrap(analysis.ErrInternalEvaluator, fmt.Errorf("%v", r)).Error()), true
		}
	}()

	msgType, err := analysis.MessageType(raw)
	if err != nil {
		logger.WithField("error", err.Error()).Warn("Failed to decode analysis message")
		return analysis.Failed(response.Wrap(analysis.ErrInvalidMessage, err).Error()), true
	}

	if msgType != analysis.MessageTypeAnalyze {
		logger.WithField("type", msgType).Debug("Ignoring unsupported message type")
		return analysis.Response{}, false
	}

	var req analysis.AnalyzeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		logger.WithField("error", err.Error()).Warn("Failed to decode analyze request")
		return analysis.Failed(response.Wrap(analysis.ErrInvalidMessage, err).Error()), true
	}

	if err := s.validator.Struct(req); err != nil {
		logger.WithField("error", err.Error()).Warn("Analyze request validation failed")
		return analysis.Failed(err.Error()), true
	}

	result, err := s.analyze(logger, req)
	if err != nil {
		logger.WithFields(log.Fields{
			"error":     err.Error(),
			"landmarks": len(req.Landmarks),
			"world":     len(req.WorldLandmarks),
		}).Warn("Malformed landmark input")
		return analysis.Failed(err.Error()), true
	}

	return result, true
}

func (s *analysisService) analyze(logger *logrus.Entry, req analysis.AnalyzeRequest) (analysis.Response, error) {
	start := time.Now()

	points, err := landmark.FromSequence(req.Landmarks)
	if err != nil {
		return analysis.Response{}, err
	}

	world, err := landmark.FromWorldSequence(req.WorldLandmarks)
	if err != nil {
		return analysis.Response{}, err
	}

	var trace *evaluator.Trace
	if s.log.IsLevelEnabled(logrus.DebugLevel) {
		trace = &evaluator.Trace{}
	}

	result := s.evaluator.EvaluateTraced(points, world, trace)
	elapsed := time.Since(start)

	fields := log.Fields{
		"form_score": result.FormScore,
		"issues":     len(result.Issues),
		"world":      world != nil,
		"latency_us": elapsed.Microseconds(),
	}

	if s.cfg.FrameBudget > 0 && elapsed > s.cfg.FrameBudget {
		fields["budget_ms"] = s.cfg.FrameBudget.Milliseconds()
		logger.WithFields(fields).Warn("Form analysis exceeded frame budget")
	}

	if trace != nil {
		fields["fired"] = trace.Fired()
		fields["skipped"] = trace.Skipped()
		logger.WithFields(fields).Debug("Form analysis completed")
	}

	return analysis.Succeeded(result), nil
}
