package inspect

import (
	"github.com/loom-ui/loom/pkg/model"
	"github.com/loom-ui/loom/pkg/repeater"
)

// RowSource is the type-erased view of a model the inspector serves. Row
// returns a JSON-encodable projection of one row; the second result is false
// when the row is out of range.
//
// This is the one place the engine erases row types: everything upstream
// stays generic, and rows are flattened only at the transport boundary.
type RowSource interface {
	RowCount() int
	Row(row int) (any, bool)
}

// Rows adapts a typed model for registration with RegisterModel. Rows are
// handed to encoding/json as-is, so the row type should marshal cleanly.
func Rows[T any](m model.Model[T]) RowSource {
	return rowSource[T]{m}
}

type rowSource[T any] struct {
	m model.Model[T]
}

func (s rowSource[T]) RowCount() int { return s.m.RowCount() }

func (s rowSource[T]) Row(row int) (any, bool) {
	v, ok := s.m.RowData(row)
	if !ok {
		return nil, false
	}
	return v, true
}

// RepeaterSource is the type-erased view of a repeater. Any
// *repeater.Repeater satisfies it.
type RepeaterSource interface {
	Stats() repeater.Stats
}
