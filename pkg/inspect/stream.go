package inspect

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/loom-ui/loom/pkg/reactive"
)

// stream fans graph events out to WebSocket subscribers.
//
// The event sink runs on the graph's goroutine, so publish must never
// block: each subscriber has a buffered frame channel and frames beyond
// its capacity are dropped and counted. The sink is installed on the
// graph only while at least one subscriber is connected.
type stream struct {
	server   *Server
	upgrader websocket.Upgrader

	seq atomic.Uint64

	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

type subscriber struct {
	conn    *websocket.Conn
	frames  chan streamFrame
	dropped atomic.Uint64
	done    chan struct{}
}

func newStream(s *Server) *stream {
	return &stream{
		server: s,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  s.config.ReadBufferSize,
			WriteBufferSize: s.config.WriteBufferSize,
			CheckOrigin:     s.config.CheckOrigin,
		},
		subs: make(map[*subscriber]struct{}),
	}
}

// publish is the graph's event sink while subscribers exist.
func (h *stream) publish(e reactive.Event) {
	f := streamFrame{
		Seq:  h.seq.Add(1),
		Kind: e.Kind.String(),
		Cell: e.Cell,
		Name: e.Name,
	}

	h.mu.RLock()
	for sub := range h.subs {
		select {
		case sub.frames <- f:
		default:
			sub.dropped.Add(1)
		}
	}
	h.mu.RUnlock()
}

func (h *stream) serveHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.server.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	sub := &subscriber{
		conn:   conn,
		frames: make(chan streamFrame, h.server.config.StreamBuffer),
		done:   make(chan struct{}),
	}

	if err := h.add(r.Context(), sub); err != nil {
		h.server.logger.Error("event sink install failed", "error", err)
		conn.Close()
		return
	}

	// Ack the subscription before any event frame. Once the client sees
	// the hello the sink is installed, so no later event can be missed.
	conn.SetWriteDeadline(time.Now().Add(h.server.config.WriteTimeout))
	if err := conn.WriteJSON(streamFrame{Kind: "hello"}); err != nil {
		h.remove(sub)
		conn.Close()
		return
	}

	go h.writeLoop(sub)
	h.readLoop(sub)

	close(sub.done)
	h.remove(sub)
	conn.Close()
}

// add registers sub and reconciles the event sink. Once add returns, the
// sink is installed and every later graph event reaches sub (or is counted
// as dropped).
func (h *stream) add(ctx context.Context, sub *subscriber) error {
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	if err := h.syncSink(ctx); err != nil {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
		return err
	}
	return nil
}

// remove unregisters sub and reconciles the event sink.
func (h *stream) remove(sub *subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.subs, sub)
	h.mu.Unlock()

	if err := h.syncSink(context.Background()); err != nil {
		h.server.logger.Warn("event sink removal failed", "error", err)
	}
}

// syncSink installs or removes the graph's event sink to match the current
// subscriber count. Install and remove commands from concurrent
// subscriptions could reach the host loop in either order, so the closure
// decides from the membership it observes when it runs; the last one to run
// always leaves the sink matching the survivors.
func (h *stream) syncSink(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.server.config.SnapshotTimeout)
	defer cancel()
	return h.server.call(ctx, func() {
		h.mu.RLock()
		active := len(h.subs) > 0
		h.mu.RUnlock()
		if active {
			h.server.graph.SetEventSink(h.publish)
		} else {
			h.server.graph.SetEventSink(nil)
		}
	})
}

// readLoop consumes client messages until the connection drops. The stream
// is one-way; inbound data only keeps the read deadline alive.
func (h *stream) readLoop(sub *subscriber) {
	cfg := h.server.config

	sub.conn.SetReadLimit(512)
	sub.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	sub.conn.SetPongHandler(func(string) error {
		sub.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
		return nil
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				h.server.logger.Error("stream read error", "error", err)
			}
			return
		}
	}
}

// writeLoop sends frames and heartbeat pings until the subscriber is done.
func (h *stream) writeLoop(sub *subscriber) {
	cfg := h.server.config

	ticker := time.NewTicker(cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case f := <-sub.frames:
			f.Dropped = sub.dropped.Swap(0)
			sub.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := sub.conn.WriteJSON(f); err != nil {
				sub.conn.Close()
				return
			}

		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				sub.conn.Close()
				return
			}

		case <-sub.done:
			return
		}
	}
}

// closeAll disconnects every subscriber and removes the event sink.
// Called during server shutdown.
func (h *stream) closeAll(ctx context.Context) {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "inspector shutting down"),
			time.Now().Add(h.server.config.WriteTimeout))
		sub.conn.Close()
	}
}
