package layout

// Page geometry in points. A4 portrait.
const (
	inch = 72.0

	PageWidth  = 595.28
	PageHeight = 841.89

	MarginLeft   = 0.6 * inch
	MarginRight  = 0.6 * inch
	MarginTop    = 0.7 * inch
	MarginBottom = 0.7 * inch

	ColumnGap       = 0.2 * inch
	HeaderSeparator = 0.2 * inch

	// HeaderBuffer is added to the measured header so rounding in the
	// drawing pass never pushes the last header line out of its frame.
	HeaderBuffer = 12.0
)

// Frame is a rectangular region receiving flowed content. Y is the top edge,
// measured downward from the top of the page.
type Frame struct {
	ID string
	X  float64
	Y  float64
	W  float64
	H  float64
}

// PageTemplate is an ordered set of frames filled one after another.
type PageTemplate struct {
	ID     string
	Frames []Frame
}

// BodyHeight is the height between the top and bottom margins.
func BodyHeight() float64 {
	return PageHeight - MarginTop - MarginBottom
}

// HeaderPageTemplate is a single full-width frame covering the page body. It
// carries a header block too tall for the first page.
func HeaderPageTemplate() PageTemplate {
	return PageTemplate{
		ID:     "HeaderPage",
		Frames: []Frame{{ID: "header", X: MarginLeft, Y: MarginTop, W: ContentWidth(), H: BodyHeight()}},
	}
}

// ContentWidth is the full width between the side margins.
func ContentWidth() float64 {
	return PageWidth - MarginLeft - MarginRight
}

// ColumnWidth is the width of one of the two body columns.
func ColumnWidth() float64 {
	return (ContentWidth() - ColumnGap) / 2
}

// FrameSet is the page geometry derived from the measured header height.
type FrameSet struct {
	First  PageTemplate
	Normal PageTemplate
}

// NewFrameSet builds the first-page and continuation-page templates. The
// first page carries a full-width header frame of headerHeight followed by
// two columns below the separator; later pages hold two full-height columns.
func NewFrameSet(headerHeight float64) FrameSet {
	cw := ColumnWidth()
	rightX := MarginLeft + cw + ColumnGap

	colTop := MarginTop + headerHeight + HeaderSeparator
	firstColH := PageHeight - MarginBottom - colTop
	fullColH := BodyHeight()

	return FrameSet{
		First: PageTemplate{
			ID: "FirstPage",
			Frames: []Frame{
				{ID: "header", X: MarginLeft, Y: MarginTop, W: ContentWidth(), H: headerHeight},
				{ID: "col1_p1", X: MarginLeft, Y: colTop, W: cw, H: firstColH},
				{ID: "col2_p1", X: rightX, Y: colTop, W: cw, H: firstColH},
			},
		},
		Normal: PageTemplate{
			ID: "LaterPages",
			Frames: []Frame{
				{ID: "col1", X: MarginLeft, Y: MarginTop, W: cw, H: fullColH},
				{ID: "col2", X: rightX, Y: MarginTop, W: cw, H: fullColH},
			},
		},
	}
}
