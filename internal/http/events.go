package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/stepherg/rigtune/internal/logging"
)

const (
	eventBuffer  = 16
	writeTimeout = 5 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
)

// EventStream upgrades to a websocket and forwards catalog change events as
// JSON text frames until the client goes away. Clients use the frames to
// refetch programs, settings and the score.
type EventStream struct {
	catalog  Catalog
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewEventStream(c Catalog, logger logrus.FieldLogger, checkOrigin func(*http.Request) bool) *EventStream {
	return &EventStream{
		catalog:  c,
		log:      logger,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin:      checkOrigin,
		},
	}
}

func (s *EventStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context(), s.log)
	// subscribe before the handshake completes so no mutation made after
	// the client sees the upgrade is missed
	sub := s.catalog.Subscribe(eventBuffer)
	defer sub.Close()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		log.WithError(err).Debug("event stream upgrade failed")
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			// client frames are ignored; a read error means the peer left
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Debug("event stream opened")
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case e, ok := <-sub.C():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(e); err != nil {
				log.WithError(err).Debug("event stream write failed")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		case <-done:
			log.Debug("event stream closed")
			return
		case <-r.Context().Done():
			return
		}
	}
}
