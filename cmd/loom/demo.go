package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/loom-ui/loom/pkg/model"
	"github.com/loom-ui/loom/pkg/reactive"
	"github.com/loom-ui/loom/pkg/repeater"
)

func demoCmd() *cobra.Command {
	var (
		rows   int
		window int
		frames int
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted tour of the reactive engine",
		Long: `Run a scripted tour of the reactive engine.

The demo builds a task list, derives the pending tasks through a filter
adapter, and repeats them into a scrolling window of view instances. A
cell animates the scroll position while tasks complete and arrive
mid-flight, so every frame shows the repeater reconciling instead of
rebuilding.

Examples:
  loom demo
  loom demo --rows=100 --window=8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(rows, window, frames)
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", 30, "Number of tasks in the model")
	cmd.Flags().IntVarP(&window, "window", "w", 5, "Visible rows per frame")
	cmd.Flags().IntVar(&frames, "frames", 8, "Frames to run")

	return cmd
}

func runDemo(rows, window, frames int) error {
	if rows < 1 || window < 1 || frames < 1 {
		return errors.New("rows, window and frames must be at least 1")
	}

	printBanner()
	fmt.Println("  demo")
	fmt.Println()

	g := reactive.NewGraph()
	tasks := demoTasks(rows)
	pending := model.Filter[task](tasks, func(t task) bool { return !t.Done })

	rep := repeater.New[task, *taskView]().Named("pending")
	rep.SetModel(g, pending)

	const rowExtent = 24.0
	viewport := float64(window) * rowExtent

	scroll := reactive.NewCell(0.0).Named("scroll")
	end := repeater.ContentExtent(pending.RowCount(), rowExtent) - viewport
	if end < 0 {
		end = 0
	}
	reactive.Animate(g, scroll, end, reactive.Animation[float64]{
		Duration:    time.Duration(frames) * 16 * time.Millisecond,
		Easing:      reactive.EaseInOut,
		Interpolate: reactive.LerpFloat64,
	})

	now := g.Now()
	for frame := 0; frame < frames; frame++ {
		now = now.Add(16 * time.Millisecond)
		g.AdvanceAnimations(now)

		// Mutate mid-flight so the window shows reconciliation, not replay.
		switch frame {
		case 2:
			tasks.SetRowData(g, 0, task{Title: "task 1", Done: true})
		case 4:
			tasks.Push(g, task{Title: "sneaked in", Done: false})
		}

		offset, count := repeater.ViewportWindow(
			pending.RowCount(), rowExtent, scroll.Get(g), viewport, 0)
		rep.EnsureUpdatedWindow(g, newTaskView, offset, count)

		var b strings.Builder
		rep.ForEach(func(row int, v *taskView) bool {
			fmt.Fprintf(&b, "\n      %2d %s", row, v.text)
			return true
		})
		info("frame %d  scroll %6.1f  window %d+%d%s",
			frame, scroll.Get(g), offset, rep.Len(), b.String())
	}

	stats := g.Stats()
	rstats := rep.Stats()
	fmt.Println()
	success("%d evaluations, %d dirty marks, %d live links",
		stats.Evaluations, stats.DirtyMarks, stats.LiveLinks)
	success("%d instances created, %d reused across moves, %d destroyed, %d live",
		rstats.Created, rstats.Reused, rstats.Destroyed, rstats.Live)
	return nil
}
