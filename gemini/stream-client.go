package gemini

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	promclient "github.com/spooky-finn/go-gemini-bridge/infrastructure/prometheus"
)

type StreamState string

const (
	StreamStateIdle       StreamState = "Idle"
	StreamStateConnecting StreamState = "Connecting"
	StreamStateListening  StreamState = "Listening"
	StreamStateClosing    StreamState = "Closing"
	StreamStateClosed     StreamState = "Closed"
)

var (
	ErrAlreadyStarted = errors.New("stream client already started")
	ErrNotListening   = errors.New("stream client is not connecting or listening")
)

// StreamCallbacks receive everything that happens off the caller's path
// of execution. OnMessage gets each raw inbound frame, OnError gets
// dial and mid-stream read failures, OnClose fires exactly once when
// the connection ends for any reason.
type StreamCallbacks struct {
	OnMessage func(msg []byte)
	OnError   func(err error)
	OnClose   func()
}

// StreamClient owns one persistent websocket connection and the worker
// goroutine reading it. Closed is terminal: there is no reconnect, a
// fresh client must be constructed to resume.
type StreamClient struct {
	url       string
	header    http.Header
	callbacks StreamCallbacks

	mu    sync.Mutex
	state StreamState
	conn  *websocket.Conn
	stop  chan struct{}

	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewStreamClient(url string, header http.Header, callbacks StreamCallbacks) *StreamClient {
	return &StreamClient{
		url:       url,
		header:    header,
		callbacks: callbacks,
		state:     StreamStateIdle,
		stop:      make(chan struct{}),
	}
}

func (c *StreamClient) State() StreamState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start dials in the background and begins the listen loop. It never
// blocks on the handshake; dial and read failures surface through
// OnError because they happen off the caller's path.
func (c *StreamClient) Start() error {
	c.mu.Lock()
	if c.state != StreamStateIdle {
		c.mu.Unlock()
		return fmt.Errorf("%w: state=%s", ErrAlreadyStarted, c.state)
	}
	c.state = StreamStateConnecting
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run()
	return nil
}

// Close stops the listen worker and waits for it to exit. Once Close
// returns no further callback fires.
func (c *StreamClient) Close() error {
	c.mu.Lock()
	if c.state != StreamStateConnecting && c.state != StreamStateListening {
		c.mu.Unlock()
		return fmt.Errorf("%w: state=%s", ErrNotListening, c.state)
	}
	c.state = StreamStateClosing
	close(c.stop)
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		// Unblocks the pending ReadMessage.
		conn.Close()
	}
	c.wg.Wait()
	c.setState(StreamStateClosed)
	return nil
}

func (c *StreamClient) run() {
	defer c.wg.Done()
	defer c.fireClose()

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 5 * time.Second,
	}

	conn, _, err := dialer.Dial(c.url, c.header)
	if err != nil {
		c.reportError(fmt.Errorf("dial %s: %w", c.url, err))
		c.setState(StreamStateClosed)
		return
	}

	c.mu.Lock()
	select {
	case <-c.stop:
		// Close raced the handshake.
		c.mu.Unlock()
		conn.Close()
		return
	default:
	}
	c.conn = conn
	c.state = StreamStateListening
	c.mu.Unlock()

	promclient.OpenStreamsGauge.Inc()
	defer promclient.OpenStreamsGauge.Dec()

	c.listen(conn)
}

func (c *StreamClient) listen(conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.stop:
				// Deliberate shutdown, not a transport error.
			default:
				c.reportError(fmt.Errorf("read: %w", err))
				c.setState(StreamStateClosed)
			}
			return
		}

		promclient.FramesReceivedCounter.Inc()
		if c.callbacks.OnMessage != nil {
			c.callbacks.OnMessage(msg)
		}
	}
}

func (c *StreamClient) setState(state StreamState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

func (c *StreamClient) reportError(err error) {
	logger.Printf("stream error: %s", err)
	if c.callbacks.OnError != nil {
		c.callbacks.OnError(err)
	}
}

func (c *StreamClient) fireClose() {
	c.closeOnce.Do(func() {
		if c.callbacks.OnClose != nil {
			c.callbacks.OnClose()
		}
	})
}
