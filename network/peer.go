package network

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"skelcast/protocol"
)

// Peer is a client connection to the relay host. Its Send side satisfies
// replicate.Conn, so a replicate.Sender can write pose frames straight
// through it; inbound binary frames are handed to the registered callback
// (typically a replicate.Receiver's OnReceive).
type Peer struct {
	conn *websocket.Conn
	mu   sync.Mutex

	welcomeMu sync.Mutex
	peerID    string
}

// Dial connects to the relay's websocket endpoint, e.g.
// "ws://host:8080/ws".
func Dial(url string) (*Peer, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	p := &Peer{conn: conn}
	if err := p.control(protocol.MsgHello, protocol.Hello{V: 1}); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return p, nil
}

// PeerID returns the relay-assigned session id, empty until the welcome
// message has been processed by Run.
func (p *Peer) PeerID() string {
	p.welcomeMu.Lock()
	defer p.welcomeMu.Unlock()
	return p.peerID
}

// Send transmits one pose frame, fire-and-forget.
func (p *Peer) Send(b []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return p.conn.WriteMessage(websocket.BinaryMessage, b)
}

func (p *Peer) Close() error {
	return p.conn.Close()
}

// Claim tells the relay this peer owns the given object.
func (p *Peer) Claim(objectID uint32) error {
	return p.control(protocol.MsgClaim, protocol.Claim{ObjectID: objectID})
}

// Despawn withdraws a claim when the replicated entity is destroyed.
func (p *Peer) Despawn(objectID uint32) error {
	return p.control(protocol.MsgDespawn, protocol.Despawn{ObjectID: objectID})
}

func (p *Peer) control(t string, payload any) error {
	b, err := protocol.Encode(t, payload)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return p.conn.WriteMessage(websocket.TextMessage, b)
}

// Run reads until the connection drops, passing each binary pose frame to
// onFrame. Control messages are handled internally. Callers usually run this
// in its own goroutine and funnel onFrame into their tick loop.
func (p *Peer) Run(onFrame func([]byte)) {
	p.conn.SetReadLimit(readLimit)
	_ = p.conn.SetReadDeadline(time.Now().Add(readDeadline))
	p.conn.SetPongHandler(func(string) error {
		_ = p.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		msgType, msg, err := p.conn.ReadMessage()
		if err != nil {
			logrus.Infof("relay connection closed: %v", err)
			return
		}
		switch msgType {
		case websocket.BinaryMessage:
			onFrame(msg)
		case websocket.TextMessage:
			env, err := protocol.DecodeEnvelope(msg)
			if err != nil {
				logrus.Warnf("undecodable control message from relay: %v", err)
				continue
			}
			if env.T == protocol.MsgWelcome {
				w, err := protocol.DecodePayload[protocol.Welcome](env)
				if err != nil {
					logrus.Warnf("bad welcome from relay: %v", err)
					continue
				}
				p.welcomeMu.Lock()
				p.peerID = w.PeerID
				p.welcomeMu.Unlock()
			}
		}
	}
}
