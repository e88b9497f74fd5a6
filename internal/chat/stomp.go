package chat

import (
	"context"
	"io"
	"sync"

	"github.com/go-stomp/stomp/v3"
	"github.com/gorilla/websocket"

	"github.com/ems-platform/web-client/internal/config"
)

// NewBrokerDialer returns a Dialer speaking STOMP over a websocket to the
// backend broker. The CONNECT frame carries the bearer token; a refused
// STOMP handshake surfaces as a dial error the same way a transport-level
// failure does.
func NewBrokerDialer(cfg config.ChatConfig) Dialer {
	return func(ctx context.Context, token string) (BrokerConn, error) {
		wsConn, resp, err := websocket.DefaultDialer.DialContext(ctx, cfg.BrokerURL, nil)
		if err != nil {
			if resp != nil && resp.Body != nil {
				_ = resp.Body.Close()
			}
			return nil, err
		}

		stompConn, err := stomp.Connect(&wsStream{conn: wsConn},
			stomp.ConnOpt.Header("Authorization", "Bearer "+token),
			stomp.ConnOpt.AcceptVersion(stomp.V11),
			stomp.ConnOpt.AcceptVersion(stomp.V12),
			stomp.ConnOpt.HeartBeat(0, 0),
		)
		if err != nil {
			_ = wsConn.Close()
			return nil, err
		}

		sub, err := stompConn.Subscribe(cfg.Topic, stomp.AckAuto)
		if err != nil {
			_ = stompConn.Disconnect()
			_ = wsConn.Close()
			return nil, err
		}

		broker := &stompBroker{
			conn:    stompConn,
			ws:      wsConn,
			sendTo:  cfg.SendDestination,
			inbound: make(chan []byte, 16),
			done:    make(chan struct{}),
		}
		go broker.pump(sub)
		return broker, nil
	}
}

type stompBroker struct {
	conn    *stomp.Conn
	ws      *websocket.Conn
	sendTo  string
	inbound chan []byte
	done    chan struct{}
	once    sync.Once
}

func (b *stompBroker) pump(sub *stomp.Subscription) {
	defer close(b.inbound)
	for msg := range sub.C {
		if msg == nil || msg.Err != nil {
			return
		}
		body := append([]byte(nil), msg.Body...)
		select {
		case b.inbound <- body:
		case <-b.done:
			return
		}
	}
}

func (b *stompBroker) Listen() <-chan []byte {
	return b.inbound
}

func (b *stompBroker) Publish(body []byte) error {
	return b.conn.Send(b.sendTo, "application/json", body)
}

func (b *stompBroker) Close() error {
	var err error
	b.once.Do(func() {
		close(b.done)
		_ = b.conn.Disconnect()
		err = b.ws.Close()
	})
	return err
}

// wsStream adapts a message-framed websocket to the byte stream the STOMP
// codec reads and writes.
type wsStream struct {
	conn   *websocket.Conn
	reader io.Reader
}

func (s *wsStream) Read(p []byte) (int, error) {
	for {
		if s.reader == nil {
			_, r, err := s.conn.NextReader()
			if err != nil {
				return 0, err
			}
			s.reader = r
		}
		n, err := s.reader.Read(p)
		if err == io.EOF {
			s.reader = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (s *wsStream) Write(p []byte) (int, error) {
	if err := s.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *wsStream) Close() error {
	return s.conn.Close()
}
