package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	wstypes "github.com/vishnupprajapat/nextfast/internal/domain/websocket"

	"go.uber.org/zap"
)

// fakeConn feeds queued frames to ReadPump and records what WritePump sends.
type fakeConn struct {
	mu      sync.Mutex
	inbox   chan []byte
	written [][]byte
	closed  chan struct{}
	once    sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbox: make(chan []byte, 8), closed: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-f.inbox:
		return 1, msg, nil
	case <-f.closed:
		return 0, nil, errors.New("closed")
	}
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if messageType == 1 {
		f.written = append(f.written, data)
	}
	return nil
}

func (f *fakeConn) SetReadDeadline(time.Time) error { return nil }

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) SetReadLimit(int64) {}

func (f *fakeConn) SetPongHandler(func(string) error) {}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) messages() []wstypes.WSMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]wstypes.WSMessage, 0, len(f.written))
	for _, raw := range f.written {
		var m wstypes.WSMessage
		if err := json.Unmarshal(raw, &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func hasEvent(conn *fakeConn, event wstypes.EventType) bool {
	for _, m := range conn.messages() {
		if m.Type == event {
			return true
		}
	}
	return false
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func connect(t *testing.T, hub *Hub, adminID int64) (*Client, *fakeConn) {
	t.Helper()
	conn := newFakeConn()
	client := NewClient(hub, conn, &ClientAuth{AdminID: adminID, Username: "root", ExpiresAt: time.Now().Add(time.Hour)})
	if !hub.Join(client) {
		t.Fatalf("hub refused client")
	}
	go client.WritePump()
	go client.ReadPump()
	return client, conn
}

func TestProductChangeReachesSubscribedDashboards(t *testing.T) {
	hub := startHub(t)
	_, conn := connect(t, hub, 1)
	waitFor(t, func() bool { return hasEvent(conn, wstypes.EventTypeConnected) })

	hub.PublishProductChange(wstypes.EventTypeProductSaved, &wstypes.ProductChangeData{Slug: "mug", ChangedBy: "root"})
	waitFor(t, func() bool { return hasEvent(conn, wstypes.EventTypeProductSaved) })
}

func TestUnsubscribedClientMissesProductEvents(t *testing.T) {
	hub := startHub(t)
	client, conn := connect(t, hub, 1)
	_, witness := connect(t, hub, 2)
	waitFor(t, func() bool { return hasEvent(conn, wstypes.EventTypeConnected) })

	client.Unsubscribe(wstypes.ChannelProducts)
	hub.PublishProductChange(wstypes.EventTypeProductDeleted, &wstypes.ProductChangeData{Slug: "mug"})

	// once the subscribed witness has the event the hub is done with it
	waitFor(t, func() bool { return hasEvent(witness, wstypes.EventTypeProductDeleted) })
	conn.inbox <- []byte(`{"type":"ping"}`)
	waitFor(t, func() bool { return hasEvent(conn, wstypes.EventTypePong) })
	if hasEvent(conn, wstypes.EventTypeProductDeleted) {
		t.Fatalf("unsubscribed client received a product event")
	}
}

func TestSubscribeRejectsUnknownChannels(t *testing.T) {
	c := NewClient(NewHub(zap.NewNop()), newFakeConn(), &ClientAuth{AdminID: 1})
	if c.Subscribe("audit") {
		t.Fatalf("unknown channel accepted")
	}
	if !c.Subscribe(wstypes.ChannelProducts) || !c.IsSubscribed(wstypes.ChannelProducts) {
		t.Fatalf("products channel refused")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	c := NewClient(NewHub(zap.NewNop()), newFakeConn(), &ClientAuth{AdminID: 1})
	c.Close()
	c.Close()
	select {
	case <-c.Done():
	default:
		t.Fatalf("client not closed")
	}
	// sending after close must neither panic nor block
	c.SendMessage(wstypes.NewMessage(wstypes.EventTypePing, nil))
}

func TestDisconnectAdminDropsAllConnections(t *testing.T) {
	hub := startHub(t)
	c1, conn1 := connect(t, hub, 7)
	c2, _ := connect(t, hub, 7)
	waitFor(t, func() bool { return hub.TotalClients() == 2 })

	hub.DisconnectAdmin(7, "logout")

	for _, c := range []*Client{c1, c2} {
		select {
		case <-c.Done():
		case <-time.After(time.Second):
			t.Fatalf("client still open")
		}
	}
	if hub.TotalClients() != 0 {
		t.Fatalf("TotalClients = %d", hub.TotalClients())
	}
	waitFor(t, func() bool { return hasEvent(conn1, wstypes.EventTypeDisconnected) })
}

func TestExpiredSessionClosesConnection(t *testing.T) {
	hub := startHub(t)
	conn := newFakeConn()
	client := NewClient(hub, conn, &ClientAuth{AdminID: 3, ExpiresAt: time.Now().Add(20 * time.Millisecond)})
	hub.Join(client)
	go client.WritePump()
	go client.ReadPump()

	select {
	case <-conn.closed:
	case <-time.After(2 * time.Second):
		t.Fatalf("connection outlived its session")
	}
	waitFor(t, func() bool { return hub.TotalClients() == 0 })
}

type echoHandler struct{}

func (echoHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeCatalogCounts, wstypes.EventTypePing}
}

func (echoHandler) HandleMessage(_ context.Context, c *Client, msg *wstypes.WSMessage) error {
	c.SendMessage(wstypes.NewMessage(msg.Type, "handled"))
	return nil
}

func TestRegistryRoutesCustomEventsOnly(t *testing.T) {
	r := NewHandlerRegistry()
	r.Register(echoHandler{})
	if _, ok := r.GetHandler(wstypes.EventTypeCatalogCounts); !ok {
		t.Fatalf("custom event not registered")
	}
	if _, ok := r.GetHandler(wstypes.EventTypePing); ok {
		t.Fatalf("built-in event must not be overridden")
	}
	if replaced := r.Register(echoHandler{}); len(replaced) != 1 || replaced[0] != wstypes.EventTypeCatalogCounts {
		t.Fatalf("replaced = %v", replaced)
	}
}
