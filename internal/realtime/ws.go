package realtime

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Ajay0072005/floodsense-ai/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST surface already allows any origin; the socket follows suit.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is what dashboards send over the socket.
type clientMessage struct {
	Action     string `json:"action"`
	DistrictID string `json:"district_id"`
}

const (
	actionSubscribeTelemetry = "subscribe_telemetry"
	actionSubscribeReports   = "subscribe_reports"
)

// ServeWS upgrades the connection and relays hub events for the topics the
// client subscribes to. Disconnecting tears down all of the connection's
// subscriptions.
func ServeWS(hub *Hub, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "error", err)
			return
		}

		s := &session{
			hub:    hub,
			conn:   conn,
			logger: logger,
			out:    make(chan models.Event, subscriberBuffer),
			done:   make(chan struct{}),
			subs:   make(map[string]uint64),
		}

		go s.writeLoop()
		s.readLoop()
	}
}

type session struct {
	hub    *Hub
	conn   *websocket.Conn
	logger *slog.Logger

	out  chan models.Event
	done chan struct{}

	mu   sync.Mutex
	subs map[string]uint64 // topic -> subscription id
}

// readLoop consumes subscription commands until the peer goes away, then
// tears the session down.
func (s *session) readLoop() {
	defer s.teardown()

	for {
		var msg clientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read ended", "error", err)
			}
			return
		}

		switch msg.Action {
		case actionSubscribeTelemetry:
			if msg.DistrictID != "" {
				s.subscribe(DistrictTopic(msg.DistrictID))
			}
		case actionSubscribeReports:
			s.subscribe(TopicReports)
		}
	}
}

// subscribe joins a topic once per session and starts forwarding its events
// into the shared write channel.
func (s *session) subscribe(topic string) {
	s.mu.Lock()
	if _, already := s.subs[topic]; already {
		s.mu.Unlock()
		return
	}
	id, ch := s.hub.Subscribe(topic)
	s.subs[topic] = id
	s.mu.Unlock()

	go func() {
		for ev := range ch {
			select {
			case s.out <- ev:
			case <-s.done:
				return
			}
		}
	}()
}

func (s *session) writeLoop() {
	for {
		select {
		case ev := <-s.out:
			if err := s.conn.WriteJSON(ev); err != nil {
				s.logger.Debug("websocket write failed", "error", err)
				s.conn.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *session) teardown() {
	s.mu.Lock()
	for topic, id := range s.subs {
		s.hub.Unsubscribe(topic, id)
	}
	s.subs = map[string]uint64{}
	s.mu.Unlock()

	close(s.done)
	s.conn.Close()
}
