package window

// Grid breakpoints: viewport width to column count.
const (
	breakpointXL = 1280
	breakpointLG = 1024
	breakpointMD = 640
)

const DefaultRowsPerBatch = 2

// Columns maps a viewport width to the grid column count.
func Columns(width int) int {
	switch {
	case width >= breakpointXL:
		return 4
	case width >= breakpointLG:
		return 3
	case width >= breakpointMD:
		return 2
	default:
		return 1
	}
}

// Window tracks how many catalog items are revealed. Items are revealed in
// whole-row batches as the sentinel below the grid comes into view; an
// active committed search disables windowing and shows everything.
type Window struct {
	columns      int
	rowsPerBatch int
	visibleCount int
}

func New(width, rowsPerBatch int) *Window {
	if rowsPerBatch < 1 {
		rowsPerBatch = DefaultRowsPerBatch
	}
	w := &Window{
		columns:      Columns(width),
		rowsPerBatch: rowsPerBatch,
	}
	w.visibleCount = w.BatchSize()
	return w
}

func (w *Window) Columns() int { return w.columns }

func (w *Window) BatchSize() int { return w.columns * w.rowsPerBatch }

// Advance reveals one more batch. Fired when the sentinel element becomes
// visible. The count never exceeds the total item count.
func (w *Window) Advance(total int) {
	w.visibleCount += w.BatchSize()
	if w.visibleCount > total {
		w.visibleCount = total
	}
}

// Clamp pulls the count back when the total shrinks, e.g. a narrowing
// filter. It never grows the count.
func (w *Window) Clamp(total int) {
	if w.visibleCount > total {
		w.visibleCount = total
	}
}

// Resize recomputes the column count for a new viewport width. The count is
// raised to at least one full batch of the new geometry, never lowered.
func (w *Window) Resize(width int) {
	cols := Columns(width)
	if cols == w.columns {
		return
	}
	w.columns = cols
	if w.visibleCount < w.BatchSize() {
		w.visibleCount = w.BatchSize()
	}
}

// Visible returns how many of total items should render. While a committed
// search is active all results are shown, no incremental windowing.
func (w *Window) Visible(total int, searching bool) int {
	if searching {
		return total
	}
	if w.visibleCount > total {
		return total
	}
	return w.visibleCount
}

// Count exposes the raw visible count, mainly for round-tripping through
// requests.
func (w *Window) Count() int { return w.visibleCount }

// Restore rebuilds a window from a persisted count, snapping up to at least
// one batch.
func Restore(width, rowsPerBatch, count int) *Window {
	w := New(width, rowsPerBatch)
	if count > w.visibleCount {
		w.visibleCount = count
	}
	return w
}
