package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/loom-ui/loom/pkg/inspect"
	"github.com/loom-ui/loom/pkg/metrics"
	"github.com/loom-ui/loom/pkg/model"
	"github.com/loom-ui/loom/pkg/reactive"
	"github.com/loom-ui/loom/pkg/repeater"
)

func inspectCmd() *cobra.Command {
	var (
		addr     string
		rows     int
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve a live demo graph over the inspector",
		Long: `Serve a live demo graph over the inspector.

A background scene keeps mutating a task model while the inspector
serves snapshots, Prometheus metrics and the live event stream:

  GET  /api/graph      graph statistics
  GET  /api/models     registered models and their rows
  GET  /api/repeaters  instance statistics
  GET  /metrics        Prometheus exposition
  GET  /ws             live event stream

Examples:
  loom inspect
  loom inspect --addr=:7070 --interval=250ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(addr, rows, interval)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":6060", "Address to serve on")
	cmd.Flags().IntVarP(&rows, "rows", "n", 12, "Number of tasks in the scene")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Scene mutation interval")

	return cmd
}

func runInspect(addr string, rows int, interval time.Duration) error {
	if rows < 1 {
		return errors.New("rows must be at least 1")
	}

	g := reactive.NewGraph()
	tasks := demoTasks(rows)
	rep := repeater.New[task, *taskView]().Named("tasks")
	rep.SetModel(g, tasks)
	rep.EnsureUpdated(g, newTaskView)

	rec := metrics.NewRecorder()
	rec.RecordGraph(g.Stats())
	rec.RecordRepeater("tasks", rep.Stats())

	registry := prometheus.NewRegistry()
	if err := registry.Register(metrics.NewCollector(rec)); err != nil {
		return fmt.Errorf("register collector: %w", err)
	}

	loop := newEventLoop()
	go loop.run()
	defer loop.stop()

	// Scene heartbeat: every tick mutates the model and refreshes the
	// metric snapshots, all on the loop that owns the graph.
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	go func() {
		step := 0
		for range ticker.C {
			step++
			n := step
			loop.post(func() {
				mutateScene(g, tasks, n)
				rep.EnsureUpdated(g, newTaskView)
				rec.RecordGraph(g.Stats())
				rec.RecordRepeater("tasks", rep.Stats())
			})
		}
	}()

	srv := inspect.New(g, &inspect.Config{
		Address:  addr,
		Dispatch: loop.post,
		Gatherer: registry,
	})
	srv.RegisterModel("tasks", inspect.Rows[task](tasks))
	srv.RegisterRepeater("tasks", rep)

	printBanner()
	fmt.Println("  inspect")
	fmt.Println()
	info("serving on %s", addr)
	info("endpoints: /api/graph /api/models /api/repeaters /metrics /ws")
	fmt.Println()

	return srv.Run()
}

// mutateScene advances the demo scene one deterministic step.
func mutateScene(g *reactive.Graph, tasks *model.Slice[task], step int) {
	switch step % 4 {
	case 0:
		tasks.Push(g, task{Title: fmt.Sprintf("task %d", step)})
	case 1:
		if t, ok := tasks.RowData(0); ok {
			t.Done = !t.Done
			tasks.SetRowData(g, 0, t)
		}
	case 2:
		if tasks.RowCount() > 4 {
			tasks.Remove(g, tasks.RowCount()-1)
		}
	case 3:
		row := step % tasks.RowCount()
		if t, ok := tasks.RowData(row); ok {
			t.Title = fmt.Sprintf("%s *", t.Title)
			tasks.SetRowData(g, row, t)
		}
	}
}
