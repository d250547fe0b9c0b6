package analysisHandler

import (
	"ProjectPoseForm/internal/api/analysis"
	analysisService "ProjectPoseForm/internal/api/analysis/service"
	"ProjectPoseForm/internal/entity"
	"ProjectPoseForm/internal/middleware"
	"ProjectPoseForm/pkg/evaluator"
	"ProjectPoseForm/pkg/landmark"
	"ProjectPoseForm/pkg/landmark/landmarktest"
	"ProjectPoseForm/pkg/utils"
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	gorillaws "github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type testServer struct {
	app *fiber.App
	svc analysisService.IAnalysisService
}

func newTestServer(t *testing.T, start bool, cfg Config) *testServer {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := analysisService.NewAnalysisService(logger, validator.New(), evaluator.New(), analysisService.Config{Workers: 2})
	if start {
		ctx, cancel := context.WithCancel(context.Background())
		svc.Start(ctx)
		t.Cleanup(func() {
			svc.Stop()
			cancel()
		})
	}

	mw := middleware.New(logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(mw.NewRequestIDMiddleware())
	New(logger, mw, svc, utils.New(), cfg).Start(app.Group("/api/v1"))

	return &testServer{app: app, svc: svc}
}

func encode(t *testing.T, req analysis.AnalyzeRequest) []byte {
	t.Helper()
	raw, err := json.Marshal(req)
	require.NoError(t, err)
	return raw
}

func post(t *testing.T, app *fiber.App, body []byte) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/analyze", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t, true, Config{})

	t.Run("neutral pose", func(t *testing.T) {
		resp, body := post(t, srv.app, encode(t, analysis.AnalyzeRequest{
			Type:      "analyze",
			Landmarks: landmarktest.NeutralPose(),
		}))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var result entity.FormAnalysisResult
		require.NoError(t, json.Unmarshal(body, &result))
		assert.Equal(t, 100.0, result.FormScore)
		assert.Empty(t, result.Issues)
		assert.Len(t, result.Metrics, 4)
	})

	t.Run("malformed landmarks", func(t *testing.T) {
		resp, body := post(t, srv.app, encode(t, analysis.AnalyzeRequest{
			Type:      "analyze",
			Landmarks: make([]entity.Landmark, 10),
		}))

		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

		var failure entity.AnalysisFailure
		require.NoError(t, json.Unmarshal(body, &failure))
		assert.Equal(t, "Analysis failed", failure.Error)
		assert.Contains(t, failure.Message, "got 10")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		resp, _ := post(t, srv.app, []byte(`not json`))
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("unsupported type", func(t *testing.T) {
		resp, body := post(t, srv.app, []byte(`{"type":"ping"}`))
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		assert.Empty(t, body)
	})
}

func TestAnalyze_EngineStopped(t *testing.T) {
	srv := newTestServer(t, false, Config{})
	srv.svc.Start(context.Background())
	srv.svc.Stop()

	resp, body := post(t, srv.app, encode(t, analysis.AnalyzeRequest{
		Type:      "analyze",
		Landmarks: landmarktest.NeutralPose(),
	}))

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), "ENGINE_STOPPED")
}

func TestAnalyze_Timeout(t *testing.T) {
	// Workers never start, so the submission waits until the request times out.
	srv := newTestServer(t, false, Config{RequestTimeout: 20 * time.Millisecond})

	resp, _ := post(t, srv.app, encode(t, analysis.AnalyzeRequest{
		Type:      "analyze",
		Landmarks: landmarktest.NeutralPose(),
	}))

	assert.Equal(t, fiber.StatusRequestTimeout, resp.StatusCode)
}

func dialStream(t *testing.T, srv *testServer) *gorillaws.Conn {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		_ = srv.app.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = srv.app.Shutdown()
	})

	conn, _, err := gorillaws.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/api/v1/analysis/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

func TestAnalysisWebSocket(t *testing.T) {
	srv := newTestServer(t, true, Config{})
	conn := dialStream(t, srv)

	tilted := landmarktest.NeutralPose()
	tilted[landmark.LeftShoulder].Y = 0.36

	frames := [][]byte{
		encode(t, analysis.AnalyzeRequest{Type: "analyze", Landmarks: landmarktest.NeutralPose()}),
		[]byte(`{"type":"hello"}`),
		encode(t, analysis.AnalyzeRequest{Type: "analyze", Landmarks: tilted}),
		encode(t, analysis.AnalyzeRequest{Type: "analyze", Landmarks: make([]entity.Landmark, 10)}),
	}
	for _, frame := range frames {
		require.NoError(t, conn.WriteMessage(gorillaws.TextMessage, frame))
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	// The unsupported frame produces no reply; the rest arrive in order.
	var first, second map[string]interface{}
	require.NoError(t, conn.ReadJSON(&first))
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, 100.0, first["formScore"])
	assert.Equal(t, 90.0, second["formScore"])

	var failure entity.AnalysisFailure
	require.NoError(t, conn.ReadJSON(&failure))
	assert.Equal(t, "Analysis failed", failure.Error)
	assert.NotEmpty(t, failure.Message)
}

func TestAnalysisWebSocket_RequiresUpgrade(t *testing.T) {
	srv := newTestServer(t, true, Config{})

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analysis/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestAnalysisWebSocket_EngineStopped(t *testing.T) {
	srv := newTestServer(t, false, Config{})
	srv.svc.Start(context.Background())
	srv.svc.Stop()

	conn := dialStream(t, srv)

	frames := [][]byte{
		encode(t, analysis.AnalyzeRequest{Type: "analyze", Landmarks: landmarktest.NeutralPose()}),
		[]byte(`{"type":"hello"}`),
		[]byte(`{"type":`),
	}
	for _, frame := range frames {
		require.NoError(t, conn.WriteMessage(gorillaws.TextMessage, frame))
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	for i := 0; i < 2; i++ {
		var failure entity.AnalysisFailure
		require.NoError(t, conn.ReadJSON(&failure))
		assert.Equal(t, "Analysis failed", failure.Error)
		assert.Contains(t, failure.Message, "analysis engine is not running")
	}

	// The unsupported frame stays unanswered.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var extra map[string]interface{}
	assert.Error(t, conn.ReadJSON(&extra))
}
