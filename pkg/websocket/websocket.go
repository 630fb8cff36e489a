package websocketPkg

import (
	"AgeGenderDetector/internal/api/detection"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var ErrRemote = errors.New("detector rejected frame")

// IDetectClient talks to a /ws/detect endpoint, one frame per round trip.
type IDetectClient interface {
	Detect(frame []byte) (detection.ProcessFrameResponse, error)
	IsConnected() bool
	Reconnect() error
	Close()
}

type Option func(*detectClient)

func WithTimeouts(read, write time.Duration) Option {
	return func(c *detectClient) {
		c.readTimeout = read
		c.writeTimeout = write
	}
}

func WithPingInterval(d time.Duration) Option {
	return func(c *detectClient) {
		c.pingInterval = d
	}
}

type detectClient struct {
	url    string
	header http.Header
	log    *logrus.Logger

	conn         *websocket.Conn
	mu           sync.Mutex
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewDetectClient connects lazily: the first Detect dials when no connection
// is up. header usually carries the session cookie or bearer token.
func NewDetectClient(url string, header http.Header, log *logrus.Logger, opts ...Option) IDetectClient {
	c := &detectClient{
		url:          url,
		header:       header,
		log:          log,
		pingInterval: 30 * time.Second,
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *detectClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *detectClient) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	c.log.WithField("url", c.url).Debug("Connecting to detector")

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, resp, err := dialer.Dial(c.url, c.header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("failed to connect to %s: %w (status %d)", c.url, err, resp.StatusCode)
		}
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		if err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout)); err != nil {
			c.log.Warnf("Error sending pong: %v", err)
		}
		return nil
	})

	c.conn = conn
	go c.keepAlive(conn)

	return nil
}

func (c *detectClient) Close() {
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

func (c *detectClient) keepAlive(conn *websocket.Conn) {
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

func (c *detectClient) connection() (*websocket.Conn, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		return conn, nil
	}

	if err := c.Reconnect(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, fmt.Errorf("not connected to %s", c.url)
	}
	return c.conn, nil
}

// drop forgets conn after a failed round trip so the next call redials.
func (c *detectClient) drop(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == conn {
		c.conn = nil
	}
	conn.Close()
}

func (c *detectClient) Detect(frame []byte) (detection.ProcessFrameResponse, error) {
	conn, err := c.connection()
	if err != nil {
		return detection.ProcessFrameResponse{}, err
	}

	c.mu.Lock()
	_ = conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	err = conn.WriteMessage(websocket.BinaryMessage, frame)
	c.mu.Unlock()
	if err != nil {
		c.drop(conn)
		return detection.ProcessFrameResponse{}, fmt.Errorf("error sending frame: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	_, message, err := conn.ReadMessage()
	if err != nil {
		c.drop(conn)
		return detection.ProcessFrameResponse{}, fmt.Errorf("error reading reply: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	var errReply detection.ErrorMessage
	if err := jsoniter.Unmarshal(message, &errReply); err == nil && errReply.Error != "" {
		return detection.ProcessFrameResponse{}, fmt.Errorf("%w: %s", ErrRemote, errReply.Error)
	}

	var result detection.ProcessFrameResponse
	if err := jsoniter.Unmarshal(message, &result); err != nil {
		return detection.ProcessFrameResponse{}, fmt.Errorf("error unmarshaling reply: %w", err)
	}

	c.log.WithField("faces", len(result.Results)).Debug("Received detections")
	return result, nil
}
