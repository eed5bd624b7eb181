package layout

import (
	"errors"
	"fmt"
)

// ErrElementTooLarge is returned when an element that cannot be split is
// taller than an empty frame.
var ErrElementTooLarge = errors.New("element does not fit in an empty frame")

// Placement positions one element inside a frame.
type Placement struct {
	Frame   string
	X, Y, W float64
	Element Element
}

// Page is the result of flowing content onto one page template.
type Page struct {
	Template   string
	Placements []Placement
}

// Flow distributes elements through the frames of first, then through
// repeated copies of normal. Elements are atomic unless they implement
// splitter, in which case they are split only when taller than an empty
// frame. An element that does not fit an empty first-page frame is retried
// in the next frame; failing in an empty normal frame is an error. Trailing
// pages without placements are dropped.
func Flow(m Measurer, first, normal PageTemplate, elements []Element) ([]Page, error) {
	pages := []Page{{Template: first.ID}}
	frames := first.Frames
	idx := 0
	used := 0.0
	onNormal := false

	advance := func() {
		idx++
		used = 0
		if idx >= len(frames) {
			pages = append(pages, Page{Template: normal.ID})
			frames = normal.Frames
			idx = 0
			onNormal = true
		}
	}

	queue := append([]Element(nil), elements...)
	for len(queue) > 0 {
		el := queue[0]
		fr := frames[idx]

		if _, ok := el.(FrameBreak); ok {
			queue = queue[1:]
			advance()
			continue
		}

		avail := fr.H - used
		h := el.Height(m, fr.W)
		if h <= avail+widthEpsilon {
			place(&pages[len(pages)-1], fr, used, el)
			used += h
			queue = queue[1:]
			continue
		}

		if _, ok := el.(Spacer); ok {
			queue = queue[1:]
			advance()
			continue
		}

		if used > 0 {
			advance()
			continue
		}

		s, ok := el.(splitter)
		if !ok {
			if !onNormal {
				advance()
				continue
			}
			return nil, fmt.Errorf("%w: height %.1fpt exceeds frame %s (%.1fpt)", ErrElementTooLarge, h, fr.ID, fr.H)
		}
		head, tail, ok := s.Split(m, fr.W, avail)
		if !ok {
			if !onNormal {
				advance()
				continue
			}
			return nil, fmt.Errorf("%w: no line fits frame %s (%.1fpt)", ErrElementTooLarge, fr.ID, fr.H)
		}
		place(&pages[len(pages)-1], fr, used, head)
		if tail == nil {
			queue = queue[1:]
		} else {
			queue[0] = tail
		}
		advance()
	}

	for len(pages) > 1 && len(pages[len(pages)-1].Placements) == 0 {
		pages = pages[:len(pages)-1]
	}
	return pages, nil
}

func place(p *Page, fr Frame, used float64, el Element) {
	p.Placements = append(p.Placements, Placement{
		Frame:   fr.ID,
		X:       fr.X,
		Y:       fr.Y + used,
		W:       fr.W,
		Element: el,
	})
}
