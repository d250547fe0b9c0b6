package analysisHandler

import (
	"ProjectPoseForm/internal/api/analysis"
	contextPkg "ProjectPoseForm/pkg/context"
	"ProjectPoseForm/pkg/handlerUtil"
	"ProjectPoseForm/pkg/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
	"time"
)

// handleAnalysisWebSocket serves one pose stream. Frames on a connection are
// answered strictly in arrival order: the next frame is read only after the
// previous reply was written.
func (h *AnalysisHandler) handleAnalysisWebSocket(c *websocket.Conn) {
	sessionID := h.utils.NewSessionID()
	logger := h.log.WithField("session_id", sessionID)

	logger.Info("Analysis WebSocket client connected")
	defer logger.Info("Analysis WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		logger.Debug("Received ping, sending pong")
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			logger.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	var seq uint64
	for {
		if err := c.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout)); err != nil {
			logger.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Errorf("Analysis WebSocket error: %v", err)
			} else {
				logger.Info("Analysis WebSocket connection closed")
			}
			break
		}

		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			logger.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		seq++
		ctx, cancel := context.WithTimeout(contextPkg.ForFrame(context.Background(), sessionID, seq), h.cfg.RequestTimeout)
		resp, ok, err := h.analysisService.Submit(ctx, message)
		cancel()

		if err != nil {
			// Frames the engine could not take still get a reply when one is
			// expected.
			logger.WithFields(log.Fields{
				"seq":   seq,
				"error": err.Error(),
			}).Warn("Frame not analyzed")
			resp, ok = analysis.Failed(err.Error()), analysis.ExpectsReply(message)
		}

		if !ok {
			continue
		}

		if err := c.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout)); err != nil {
			logger.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(resp.Payload()); err != nil {
			logger.Errorf("Error writing JSON response: %v", err)
			break
		}

		if err := c.SetWriteDeadline(time.Time{}); err != nil {
			logger.Errorf("Error resetting write deadline: %v", err)
			break
		}
	}
}

func (h *AnalysisHandler) Analyze(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.cfg.RequestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"body_size":  len(ctx.Body()),
	}).Debug("Processing form analysis request")

	// fasthttp reuses the body buffer once the handler returns.
	body := append([]byte(nil), ctx.Body()...)

	resp, ok, err := h.analysisService.Submit(c, body)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "submit_analysis")
	}

	if !ok {
		return errHandler.HandleSuccess(ctx, fiber.StatusNoContent, nil)
	}

	if resp.IsFailure() {
		return errHandler.HandleAnalysisFailure(ctx, requestID, resp.Failure)
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"form_score": resp.Result.FormScore,
		"issues":     len(resp.Result.Issues),
	}).Info("Form analysis successful")

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp.Result)
}
