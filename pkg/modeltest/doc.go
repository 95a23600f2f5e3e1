// Package modeltest provides testing helpers for models and repeaters.
//
// The helpers cover the three things model tests keep re-implementing:
// recording announced events, standing in for repeater instances, and
// asserting on row content.
//
// # Recording Events
//
//	m := model.NewSlice(1, 2, 3)
//	log := modeltest.Listen[int](m)
//	m.Push(g, 4)
//	modeltest.ExpectEvents(t, log, modeltest.Added(3, 1))
//
// ExpectEvents clears the log after asserting, so consecutive assertions
// each see only their own events.
//
// # Repeater Instances
//
// RecordingInstance satisfies the repeater's Instance interface and
// remembers the last row and data pushed into it. InstanceFactory keeps
// every instance it ever created:
//
//	f := modeltest.NewInstanceFactory[int]()
//	rep.EnsureUpdated(g, f.New)
//	for _, ri := range f.Live() {
//	    ...
//	}
//
// # Laziness
//
// CountingModel counts RowCount and RowData calls, for asserting that an
// adapter or repeater did not touch more rows than it had to.
//
// # Diagnostics
//
// CaptureDiagnostics reroutes the diag package's reports into a log for the
// duration of a test:
//
//	diags := modeltest.CaptureDiagnostics(t)
//	...
//	if diags.Count(diag.ReadOnlyWrite) != 1 {
//	    t.Error("expected a read-only write report")
//	}
package modeltest
