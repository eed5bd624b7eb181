package layout

// Element is a flowable block. Height must be a pure function of the
// measurer and width so the measurement pass and the drawing pass agree.
type Element interface {
	Height(m Measurer, width float64) float64
	Draw(p Painter, x, y, width float64)
}

// splitter is implemented by elements that may be divided across frames.
type splitter interface {
	Split(m Measurer, width, avail float64) (head, tail Element, ok bool)
}

// Spacer is fixed vertical whitespace. A spacer that does not fit is
// dropped rather than carried into the next frame.
type Spacer struct {
	H float64
}

// Height implements Element.
func (s Spacer) Height(Measurer, float64) float64 { return s.H }

// Draw implements Element.
func (Spacer) Draw(Painter, float64, float64, float64) {}

// FrameBreak ends the current frame.
type FrameBreak struct{}

// Height implements Element.
func (FrameBreak) Height(Measurer, float64) float64 { return 0 }

// Draw implements Element.
func (FrameBreak) Draw(Painter, float64, float64, float64) {}

// Table lays out cells in equal-width columns. Each cell is a stack of
// elements. Tables split only between rows.
type Table struct {
	Rows          [][][]Element
	Columns       int
	PaddingX      float64
	PaddingBottom float64
}

func (t *Table) cellWidth(width float64) float64 {
	return width/float64(t.Columns) - 2*t.PaddingX
}

func (t *Table) rowHeight(m Measurer, row [][]Element, width float64) float64 {
	cw := t.cellWidth(width)
	var h float64
	for _, cell := range row {
		var ch float64
		for _, el := range cell {
			ch += el.Height(m, cw)
		}
		h = max(h, ch)
	}
	return h + t.PaddingBottom
}

// Height implements Element.
func (t *Table) Height(m Measurer, width float64) float64 {
	var h float64
	for _, row := range t.Rows {
		h += t.rowHeight(m, row, width)
	}
	return h
}

// Draw implements Element.
func (t *Table) Draw(p Painter, x, y, width float64) {
	colW := width / float64(t.Columns)
	cw := t.cellWidth(width)
	for _, row := range t.Rows {
		for i, cell := range row {
			cx := x + float64(i)*colW + t.PaddingX
			cy := y
			for _, el := range cell {
				el.Draw(p, cx, cy, cw)
				cy += el.Height(p, cw)
			}
		}
		y += t.rowHeight(p, row, width)
	}
}

// Split implements splitter. head holds the rows that fit in avail; ok is
// false when not even the first row fits.
func (t *Table) Split(m Measurer, width, avail float64) (head, tail Element, ok bool) {
	used := 0.0
	n := 0
	for _, row := range t.Rows {
		h := t.rowHeight(m, row, width)
		if used+h > avail+widthEpsilon {
			break
		}
		used += h
		n++
	}
	if n == 0 {
		return nil, nil, false
	}
	if n == len(t.Rows) {
		return t, nil, true
	}

	headTable, tailTable := *t, *t
	headTable.Rows = t.Rows[:n]
	tailTable.Rows = t.Rows[n:]
	return &headTable, &tailTable, true
}

// Compile-time interface checks.
var (
	_ Element  = Spacer{}
	_ Element  = FrameBreak{}
	_ Element  = (*Table)(nil)
	_ Element  = (*Paragraph)(nil)
	_ splitter = (*Paragraph)(nil)
	_ splitter = (*Table)(nil)
)
