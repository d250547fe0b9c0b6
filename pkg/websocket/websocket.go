package websocketPkg

import (
	"ProjectPoseForm/internal/api/analysis"
	"ProjectPoseForm/internal/entity"
	"errors"
	"fmt"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"os"
	"sync"
	"time"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrNotConnected = errors.New("not connected to form analysis service")

// IFormClient streams pose frames to a form analysis WebSocket endpoint.
type IFormClient interface {
	Analyze(landmarks []entity.Landmark, world []entity.WorldLandmark) (*entity.FormAnalysisResult, error)
	IsConnected() bool
	Reconnect() error
	Close()
}

type formClient struct {
	url          string
	conn         *websocket.Conn
	mu           sync.Mutex
	log          *logrus.Logger
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// AnalysisError is returned when the service answered with an error object.
type AnalysisError struct {
	Failure entity.AnalysisFailure
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %s", e.Failure.Error, e.Failure.Message)
}

// NewFormClient dials url, or AI_FORM_ANALYSIS_URL when url is empty.
func NewFormClient(url string, log *logrus.Logger) (IFormClient, error) {
	if url == "" {
		url = getWebSocketURL()
	}

	client := &formClient{
		url:          url,
		log:          log,
		pingInterval: 30 * time.Second,
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	if err := client.Reconnect(); err != nil {
		return nil, err
	}

	return client, nil
}

func (c *formClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn != nil
}

func (c *formClient) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	c.log.Infof("Connecting to form analysis service at %s", c.url)

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.Warnf("Error sending pong: %v", err)
		}
		return nil
	})

	c.conn = conn
	go c.keepAlive(conn)

	return nil
}

func (c *formClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.writeTimeout),
		)
		c.conn.Close()
		c.conn = nil
	}
}

func (c *formClient) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		if c.conn != conn {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.Warnf("Ping failed, marking connection as dead: %v", err)
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

// Analyze sends one frame and waits for its reply. The lock is held for the
// whole round trip so replies cannot be paired with the wrong frame.
func (c *formClient) Analyze(landmarks []entity.Landmark, world []entity.WorldLandmark) (*entity.FormAnalysisResult, error) {
	payload, err := json.Marshal(analysis.AnalyzeRequest{
		Type:           analysis.MessageTypeAnalyze,
		Landmarks:      landmarks,
		WorldLandmarks: world,
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding analyze request: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	conn := c.conn
	if conn == nil {
		return nil, ErrNotConnected
	}

	conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.conn = nil
		conn.Close()
		return nil, fmt.Errorf("error sending frame: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	_, message, err := conn.ReadMessage()
	if err != nil {
		c.conn = nil
		conn.Close()
		return nil, fmt.Errorf("error reading analysis message: %w", err)
	}

	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})

	return decodeReply(message)
}

func decodeReply(message []byte) (*entity.FormAnalysisResult, error) {
	var keys map[string]jsoniter.RawMessage
	if err := json.Unmarshal(message, &keys); err != nil {
		return nil, fmt.Errorf("error unmarshaling analysis response: %w", err)
	}

	if _, failed := keys["error"]; failed {
		var failure entity.AnalysisFailure
		if err := json.Unmarshal(message, &failure); err != nil {
			return nil, fmt.Errorf("error unmarshaling analysis failure: %w", err)
		}
		return nil, &AnalysisError{Failure: failure}
	}

	var result entity.FormAnalysisResult
	if err := json.Unmarshal(message, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling analysis result: %w", err)
	}

	return &result, nil
}

func getWebSocketURL() string {
	url := os.Getenv("AI_FORM_ANALYSIS_URL")
	if url == "" {
		url = "ws://localhost:3000/api/v1/analysis/ws"
	}
	return url
}
