package reactive

import "testing"

func TestEventSinkSeesGraphActivity(t *testing.T) {
	g := NewGraph()
	var events []Event
	g.SetEventSink(func(e Event) { events = append(events, e) })

	temperature := NewCell(21.0).Named("temperature")
	display := NewCell("").Named("display")
	display.SetBinding(g, func(g *Graph) string {
		if temperature.Get(g) > 25 {
			return "hot"
		}
		return "mild"
	})

	display.Get(g)
	temperature.Set(g, 30.0)
	display.Get(g)

	var sets, evals, dirties int
	for _, e := range events {
		switch e.Kind {
		case EventSet:
			sets++
		case EventEvaluate:
			evals++
		case EventDirty:
			dirties++
		}
	}
	if sets != 1 {
		t.Errorf("expected 1 set event, got %d", sets)
	}
	if evals != 2 {
		t.Errorf("expected 2 evaluate events, got %d", evals)
	}
	if dirties != 1 {
		t.Errorf("expected 1 dirty event, got %d", dirties)
	}

	var sawName bool
	for _, e := range events {
		if e.Name == "temperature" && e.Kind == EventSet {
			sawName = true
		}
	}
	if !sawName {
		t.Error("expected the set event to carry the cell name")
	}

	g.SetEventSink(nil)
	temperature.Set(g, 10.0)
	if len(events) != sets+evals+dirties {
		t.Error("expected no events after removing the sink")
	}
}

func TestEventKindString(t *testing.T) {
	cases := []struct {
		kind EventKind
		want string
	}{
		{EventSet, "set"},
		{EventEvaluate, "evaluate"},
		{EventDirty, "dirty"},
		{EventKind(99), "unknown"},
	}
	for _, c := range cases {
		if got := c.kind.String(); got != c.want {
			t.Errorf("expected %q, got %q", c.want, got)
		}
	}
}
