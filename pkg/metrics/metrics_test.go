package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/loom-ui/loom/pkg/reactive"
	"github.com/loom-ui/loom/pkg/repeater"
)

func gather(t *testing.T, c *Collector) map[string]*float64 {
	t.Helper()
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	out := map[string]*float64{}
	for _, mf := range families {
		for _, m := range mf.Metric {
			v := 0.0
			switch {
			case m.Counter != nil:
				v = m.Counter.GetValue()
			case m.Gauge != nil:
				v = m.Gauge.GetValue()
			}
			key := mf.GetName()
			for _, lp := range m.Label {
				key += "{" + lp.GetName() + "=" + lp.GetValue() + "}"
			}
			val := v
			out[key] = &val
		}
	}
	return out
}

func TestCollectorExportsSnapshots(t *testing.T) {
	rec := NewRecorder()
	rec.RecordGraph(reactive.Stats{
		Evaluations:      42,
		DirtyMarks:       7,
		LinksCreated:     100,
		LinksReleased:    90,
		LiveLinks:        10,
		ActiveAnimations: 2,
	})
	rec.RecordRepeater("todos", repeater.Stats{
		Created:   5,
		Destroyed: 1,
		Updated:   9,
		Reused:    3,
		Live:      4,
	})

	got := gather(t, NewCollector(rec))

	cases := map[string]float64{
		"loom_graph_evaluations_total":                            42,
		"loom_graph_dirty_marks_total":                            7,
		"loom_graph_links_created_total":                          100,
		"loom_graph_links_released_total":                         90,
		"loom_graph_live_links":                                   10,
		"loom_graph_active_animations":                            2,
		"loom_repeater_instances_created_total{repeater=todos}":   5,
		"loom_repeater_instances_destroyed_total{repeater=todos}": 1,
		"loom_repeater_updates_total{repeater=todos}":             9,
		"loom_repeater_instances_reused_total{repeater=todos}":    3,
		"loom_repeater_live_instances{repeater=todos}":            4,
	}
	for name, want := range cases {
		v, ok := got[name]
		if !ok {
			t.Errorf("expected metric %s to be exported", name)
			continue
		}
		if *v != want {
			t.Errorf("%s: expected %v, got %v", name, want, *v)
		}
	}
}

func TestCollectorEmptyRecorder(t *testing.T) {
	got := gather(t, NewCollector(NewRecorder()))
	if len(got) != 0 {
		t.Errorf("expected no metrics before the first snapshot, got %d", len(got))
	}
}

func TestCollectorOptions(t *testing.T) {
	rec := NewRecorder()
	rec.RecordGraph(reactive.Stats{Evaluations: 1})

	c := NewCollector(rec,
		WithNamespace("myapp"),
		WithSubsystem("engine"),
		WithConstLabels(prometheus.Labels{"instance": "a"}),
	)
	got := gather(t, c)

	if _, ok := got["myapp_engine_graph_evaluations_total{instance=a}"]; !ok {
		keys := make([]string, 0, len(got))
		for k := range got {
			keys = append(keys, k)
		}
		t.Errorf("expected namespaced metric, got %v", keys)
	}
}

func TestRecorderLatestSnapshotWins(t *testing.T) {
	rec := NewRecorder()
	rec.RecordRepeater("list", repeater.Stats{Created: 1, Live: 1})
	rec.RecordRepeater("list", repeater.Stats{Created: 2, Live: 2})

	got := gather(t, NewCollector(rec))
	if v := got["loom_repeater_instances_created_total{repeater=list}"]; v == nil || *v != 2 {
		t.Errorf("expected the latest snapshot, got %v", v)
	}

	rec.RemoveRepeater("list")
	got = gather(t, NewCollector(rec))
	if _, ok := got["loom_repeater_instances_created_total{repeater=list}"]; ok {
		t.Error("expected removed repeater's series to disappear")
	}
}
