package inspect

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/loom-ui/loom/pkg/metrics"
	"github.com/loom-ui/loom/pkg/model"
	"github.com/loom-ui/loom/pkg/reactive"
	"github.com/loom-ui/loom/pkg/repeater"
)

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}
	return resp, body
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decode %q failed: %v", body, err)
	}
	return v
}

func TestHealthEndpoint(t *testing.T) {
	g := reactive.NewGraph()
	ts := httptest.NewServer(New(g, nil).Handler())
	defer ts.Close()

	resp, body := get(t, ts, "/api/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	health := decode[map[string]string](t, body)
	if health["status"] != "ok" {
		t.Errorf("expected status ok, got %q", health["status"])
	}
}

func TestGraphSnapshotEndpoint(t *testing.T) {
	g := reactive.NewGraph()
	width := reactive.NewCell(10.0)
	area := reactive.NewCell(0.0)
	area.SetBinding(g, func(g *reactive.Graph) float64 { return width.Get(g) * 2 })
	area.Get(g)

	ts := httptest.NewServer(New(g, nil).Handler())
	defer ts.Close()

	resp, body := get(t, ts, "/api/graph")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	snap := decode[graphSnapshot](t, body)
	if snap.Evaluations == 0 {
		t.Error("expected at least one evaluation in the snapshot")
	}
	if snap.LiveLinks != 1 {
		t.Errorf("expected 1 live link, got %d", snap.LiveLinks)
	}
}

func TestModelEndpoints(t *testing.T) {
	g := reactive.NewGraph()
	todos := model.NewSlice("write", "test", "ship")

	srv := New(g, nil)
	srv.RegisterModel("todos", Rows[string](todos))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, body := get(t, ts, "/api/models")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	summaries := decode[[]modelSummary](t, body)
	if len(summaries) != 1 || summaries[0].Name != "todos" || summaries[0].Rows != 3 {
		t.Errorf("unexpected summaries: %+v", summaries)
	}

	resp, body = get(t, ts, "/api/models/todos?from=1&count=2")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	page := decode[modelRows](t, body)
	if page.Total != 3 || page.From != 1 {
		t.Errorf("unexpected page header: %+v", page)
	}
	if len(page.Rows) != 2 || page.Rows[0] != "test" || page.Rows[1] != "ship" {
		t.Errorf("unexpected rows: %v", page.Rows)
	}

	resp, _ = get(t, ts, "/api/models/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown model, got %d", resp.StatusCode)
	}

	resp, _ = get(t, ts, "/api/models/todos?from=abc")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad from, got %d", resp.StatusCode)
	}
}

func TestModelRowsPastEnd(t *testing.T) {
	g := reactive.NewGraph()
	srv := New(g, nil)
	srv.RegisterModel("seq", Rows[int](model.NewRange(5)))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	_, body := get(t, ts, "/api/models/seq?from=10&count=10")
	page := decode[modelRows](t, body)
	if page.Total != 5 {
		t.Errorf("expected total 5, got %d", page.Total)
	}
	if len(page.Rows) != 0 {
		t.Errorf("expected no rows past the end, got %v", page.Rows)
	}
}

type nullInstance struct{}

func (nullInstance) Update(g *reactive.Graph, row int, data string) {}
func (nullInstance) Dispose()                                       {}

func TestRepeaterEndpoint(t *testing.T) {
	g := reactive.NewGraph()
	rep := repeater.New[string, nullInstance]()
	rep.SetModel(g, model.NewSlice("a", "b", "c"))
	rep.EnsureUpdated(g, func(g *reactive.Graph) nullInstance { return nullInstance{} })

	srv := New(g, nil)
	srv.RegisterRepeater("rows", rep)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, body := get(t, ts, "/api/repeaters")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	snaps := decode[[]repeaterSnapshot](t, body)
	if len(snaps) != 1 {
		t.Fatalf("expected one repeater, got %d", len(snaps))
	}
	if snaps[0].Name != "rows" || snaps[0].Created != 3 || snaps[0].Live != 3 {
		t.Errorf("unexpected snapshot: %+v", snaps[0])
	}
}

func TestSnapshotsGoThroughDispatch(t *testing.T) {
	g := reactive.NewGraph()

	var dispatched atomic.Int64
	loop := make(chan func(), 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case fn := <-loop:
				fn()
			case <-done:
				return
			}
		}
	}()

	srv := New(g, &Config{
		Dispatch: func(fn func()) {
			dispatched.Add(1)
			loop <- fn
		},
	})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, _ := get(t, ts, "/api/graph")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if dispatched.Load() == 0 {
		t.Error("expected the snapshot read to be dispatched onto the host loop")
	}
}

func TestSnapshotTimeout(t *testing.T) {
	g := reactive.NewGraph()
	srv := New(g, &Config{
		// A host loop that never runs anything.
		Dispatch:        func(fn func()) {},
		SnapshotTimeout: 20 * time.Millisecond,
	})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, _ := get(t, ts, "/api/graph")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when the host loop is stuck, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	g := reactive.NewGraph()
	c := reactive.NewCell(1)
	c.Set(g, 2)

	rec := metrics.NewRecorder()
	rec.RecordGraph(g.Stats())

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(metrics.NewCollector(rec)); err != nil {
		t.Fatalf("register collector: %v", err)
	}

	srv := New(g, &Config{Gatherer: reg})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, body := get(t, ts, "/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "loom_graph_evaluations_total") {
		t.Errorf("expected exposition to contain graph metrics, got:\n%s", body)
	}
}
