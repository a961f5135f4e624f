// Package tape implements the program memory: a growable row of integer
// cells and a pointer into it.
//
// The two edges behave differently. Moving right past the last cell
// appends a zero cell, so the right edge is unbounded. Moving left from
// cell 0 wraps to the current last cell without growing the tape.
package tape

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// DefaultSize is the initial number of cells.
const DefaultSize = 1024

// Cell is a single memory cell. Arithmetic wraps at 32 bits.
type Cell = int32

// Tape is the mutable memory state of a run.
type Tape struct {
	cells []Cell
	ptr   int
}

// New creates a zeroed tape of the given length with the pointer at 0.
// Sizes below 1 are raised to 1.
func New(size int) *Tape {
	if size < 1 {
		size = 1
	}
	return &Tape{cells: make([]Cell, size)}
}

// Get reads the current cell
func (t *Tape) Get() Cell {
	return t.cells[t.ptr]
}

// Set writes the current cell
func (t *Tape) Set(v Cell) {
	t.cells[t.ptr] = v
}

// Add adds delta to the current cell with two's-complement wraparound.
func (t *Tape) Add(delta Cell) {
	t.cells[t.ptr] += delta
}

// Right moves the pointer one cell right, appending a zero cell when the
// pointer is on the last one.
func (t *Tape) Right() {
	if t.ptr == len(t.cells)-1 {
		t.cells = append(t.cells, 0)
	}
	t.ptr++
}

// Left moves the pointer one cell left, wrapping from 0 to the last cell.
func (t *Tape) Left() {
	if t.ptr == 0 {
		t.ptr = len(t.cells) - 1
		return
	}
	t.ptr--
}

// Len is the current number of cells. It never decreases.
func (t *Tape) Len() int { return len(t.cells) }

// Pointer is the index of the current cell.
func (t *Tape) Pointer() int { return t.ptr }

// Cells returns a copy of the tape contents.
func (t *Tape) Cells() []Cell {
	out := make([]Cell, len(t.cells))
	copy(out, t.cells)
	return out
}

// Render draws the cells within window positions of the pointer.
func (t *Tape) Render(window int) string {
	if window < 0 {
		window = 0
	}
	lo := t.ptr - window
	if lo < 0 {
		lo = 0
	}
	hi := t.ptr + window
	if hi > len(t.cells)-1 {
		hi = len(t.cells) - 1
	}

	tw := table.NewWriter()

	header := table.Row{"Index"}
	values := table.Row{"Value"}
	for i := lo; i <= hi; i++ {
		idx := fmt.Sprintf("%d", i)
		if i == t.ptr {
			idx = "*" + idx
		}
		header = append(header, idx)
		values = append(values, t.cells[i])
	}
	tw.AppendHeader(header)
	tw.AppendRow(values)
	return fmt.Sprintf("Tape len=%d ptr=%d\n%s", len(t.cells), t.ptr, tw.Render())
}
