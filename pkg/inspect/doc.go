// Package inspect provides an HTTP/WebSocket introspection server for a
// reactive graph.
//
// The inspector is a debug surface: point it at a graph, register the models
// and repeaters worth looking at, and it serves JSON snapshots, Prometheus
// metrics and a live event stream over plain HTTP.
//
// # Endpoints
//
//   - GET /api/health: liveness probe
//   - GET /api/graph: graph statistics snapshot
//   - GET /api/models: registered models with row counts
//   - GET /api/models/{name}?from=&count=: one page of rows
//   - GET /api/repeaters: per-repeater instance statistics
//   - GET /metrics: Prometheus exposition for the configured gatherer
//   - GET /ws: live graph events as JSON frames
//
// # The Dispatch Bridge
//
// A reactive graph belongs to one goroutine, and the inspector never touches
// it from an HTTP handler. Config.Dispatch posts a closure onto the host's
// event loop; every snapshot read and the event-sink installation for /ws go
// through it and wait (bounded by Config.SnapshotTimeout) for the loop to
// execute them. Hosts without an event loop leave Dispatch nil and accept
// that handlers run closures inline.
//
//	srv := inspect.New(g, &inspect.Config{
//	    Address:  ":6060",
//	    Dispatch: loop.Post,
//	})
//	srv.RegisterModel("todos", inspect.Rows[Todo](todos))
//	srv.RegisterRepeater("todos", rep)
//	go srv.Run()
//
// # Event Stream
//
// The /ws stream carries one JSON frame per graph event (cell set, binding
// evaluated, evaluator dirtied). Each connection opens with a hello frame;
// every event after the hello is guaranteed to reach the subscriber or be
// counted as dropped. The sink is installed only while at least one
// subscriber is connected, so an unwatched graph pays nothing. A slow
// subscriber loses frames rather than blocking the graph; losses are counted
// and reported in the next frame's dropped field.
//
// # Tracing
//
// Every request runs inside an OpenTelemetry span from the global tracer
// provider, named after the matched route, with method, route and status
// attributes. Configure a provider in main() to collect them; the default
// no-op provider costs nothing.
package inspect
