package network

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"skelcast/protocol"
	"skelcast/replicate"
)

const (
	readLimit     = 1 << 20
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
	pingInterval  = 25 * time.Second
)

var upgrader = websocket.Upgrader{
	// For dev, allow all origins. Lock this down in prod.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn adapts a websocket connection to the replicate.Conn contract.
// A mutex serializes writes: the relay goroutine and the ping loop both
// write, and gorilla allows only one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) Send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return c.conn.WriteMessage(websocket.BinaryMessage, b)
}

func (c *wsConn) sendText(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// RelayHost serves the authoritative relay endpoint. Pose frames arrive as
// binary messages and go to the relay inbox; control messages (hello, claim,
// despawn) arrive as JSON envelopes in text messages.
type RelayHost struct {
	relay *replicate.Relay
	rate  float64
}

func NewRelayHost(relay *replicate.Relay, sendRate float64) *RelayHost {
	if sendRate <= 0 {
		sendRate = protocol.DefaultSendRate
	}
	return &RelayHost{relay: relay, rate: sendRate}
}

// Handler upgrades each request and runs its read loop until disconnect.
func (h *RelayHost) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logrus.Warnf("upgrade: %v", err)
			return
		}
		h.servePeer(conn)
	}
}

func (h *RelayHost) servePeer(conn *websocket.Conn) {
	defer conn.Close()

	peerID := uuid.NewString()
	wc := &wsConn{conn: conn}

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				wc.mu.Lock()
				_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				err := conn.WriteMessage(websocket.PingMessage, nil)
				wc.mu.Unlock()
				if err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	h.relay.Inbox <- replicate.PeerJoin{PeerID: peerID, Conn: wc}
	defer func() {
		h.relay.Inbox <- replicate.PeerLeave{PeerID: peerID}
	}()

	welcome, err := protocol.Encode(protocol.MsgWelcome, protocol.Welcome{PeerID: peerID, SendRate: h.rate})
	if err == nil {
		_ = wc.sendText(welcome)
	}

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			logrus.Infof("peer %s disconnected: %v", peerID, err)
			return
		}
		switch msgType {
		case websocket.BinaryMessage:
			h.relay.Inbox <- replicate.Frame{PeerID: peerID, Data: msg}
		case websocket.TextMessage:
			h.handleControl(peerID, msg)
		}
	}
}

func (h *RelayHost) handleControl(peerID string, msg []byte) {
	env, err := protocol.DecodeEnvelope(msg)
	if err != nil {
		logrus.Warnf("peer %s sent undecodable control message: %v", peerID, err)
		return
	}
	switch env.T {
	case protocol.MsgHello:
		// Nothing to do yet; the welcome already went out on connect.
	case protocol.MsgClaim:
		claim, err := protocol.DecodePayload[protocol.Claim](env)
		if err != nil {
			logrus.Warnf("peer %s sent bad claim: %v", peerID, err)
			return
		}
		h.relay.Inbox <- replicate.ClaimObject{PeerID: peerID, ObjectID: claim.ObjectID}
	case protocol.MsgDespawn:
		despawn, err := protocol.DecodePayload[protocol.Despawn](env)
		if err != nil {
			logrus.Warnf("peer %s sent bad despawn: %v", peerID, err)
			return
		}
		h.relay.Inbox <- replicate.ReleaseObject{PeerID: peerID, ObjectID: despawn.ObjectID}
	default:
		logrus.Infof("peer %s sent unknown control type %q", peerID, env.T)
	}
}

// ListenAndServe mounts the relay endpoint at /ws and blocks.
func (h *RelayHost) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.Handler())
	logrus.Infof("relay listening on %s (ws endpoint: /ws)", addr)
	return http.ListenAndServe(addr, mux)
}
