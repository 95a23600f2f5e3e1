package main

import (
	"fmt"

	"github.com/loom-ui/loom/pkg/model"
	"github.com/loom-ui/loom/pkg/reactive"
)

// task is the demo row type.
type task struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// demoTasks builds a model with n tasks, every third one done.
func demoTasks(n int) *model.Slice[task] {
	rows := make([]task, n)
	for i := range rows {
		rows[i] = task{
			Title: fmt.Sprintf("task %d", i+1),
			Done:  i%3 == 2,
		}
	}
	return model.NewSlice(rows...)
}

// taskView is a repeater instance rendering one task row into memory.
type taskView struct {
	row  int
	text string
}

func newTaskView(g *reactive.Graph) *taskView {
	return &taskView{}
}

func (v *taskView) Update(g *reactive.Graph, row int, data task) {
	v.row = row
	mark := " "
	if data.Done {
		mark = "x"
	}
	v.text = fmt.Sprintf("[%s] %s", mark, data.Title)
}

func (v *taskView) Dispose() {}

// eventLoop is the single goroutine that owns a demo graph. Everything that
// touches the graph runs as a closure posted onto it, including the
// inspector's snapshot reads.
type eventLoop struct {
	ch   chan func()
	quit chan struct{}
}

func newEventLoop() *eventLoop {
	return &eventLoop{
		ch:   make(chan func(), 128),
		quit: make(chan struct{}),
	}
}

func (l *eventLoop) run() {
	for {
		select {
		case fn := <-l.ch:
			fn()
		case <-l.quit:
			return
		}
	}
}

func (l *eventLoop) post(fn func()) {
	select {
	case l.ch <- fn:
	case <-l.quit:
	}
}

func (l *eventLoop) stop() {
	close(l.quit)
}
