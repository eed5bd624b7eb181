package layout

import (
	"strings"
	"unicode"
)

// Align is a horizontal paragraph alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignJustify
)

// widthEpsilon absorbs float noise when comparing widths and heights.
const widthEpsilon = 0.01

// ParaStyle holds the block-level properties of a paragraph.
type ParaStyle struct {
	Leading     float64
	Align       Align
	SpaceBefore float64
	SpaceAfter  float64
}

// Run is a span of text in a single font. Rise lifts the run above the
// baseline, which is how ordinal suffixes are set as superscripts.
type Run struct {
	Text string
	Font Font
	Rise float64
}

type frag struct {
	text string
	font Font
	rise float64
}

type itemKind int

const (
	itemWord itemKind = iota
	itemSpace
	itemBreak     // explicit line break from the source text
	itemSoftBreak // line break preserved from a previous layout
)

type item struct {
	kind  itemKind
	frags []frag // itemWord
	font  Font   // itemSpace
}

// tokenize turns runs into words, spaces and breaks. Adjacent runs without
// whitespace between them form a single word, so "H" + "ello" stays "Hello".
func tokenize(runs []Run) []item {
	var (
		items []item
		word  []frag
		buf   strings.Builder
	)

	flushFrag := func(r Run) {
		if buf.Len() == 0 {
			return
		}
		word = append(word, frag{text: buf.String(), font: r.Font, rise: r.Rise})
		buf.Reset()
	}
	flushWord := func(r Run) {
		flushFrag(r)
		if len(word) > 0 {
			items = append(items, item{kind: itemWord, frags: word})
			word = nil
		}
	}

	for _, r := range runs {
		for _, ch := range r.Text {
			switch {
			case ch == '\r':
			case ch == '\n':
				flushWord(r)
				items = append(items, item{kind: itemBreak})
			case unicode.IsSpace(ch):
				flushWord(r)
				if n := len(items); n == 0 || items[n-1].kind != itemSpace {
					items = append(items, item{kind: itemSpace, font: r.Font})
				}
			default:
				buf.WriteRune(ch)
			}
		}
		flushFrag(r)
	}
	if len(word) > 0 {
		items = append(items, item{kind: itemWord, frags: word})
	}
	return items
}

type line struct {
	words   [][]frag
	spaces  []Font // font of the gap before words[i+1]
	width   float64
	leading float64
	maxSize float64
	last    bool // not justified
}

func fragsWidth(m Measurer, frags []frag) float64 {
	var w float64
	for _, f := range frags {
		w += m.StringWidth(f.font, f.text)
	}
	return w
}

// breakWord cuts a word wider than width into pieces that fit, keeping at
// least one rune per piece.
func breakWord(m Measurer, frags []frag, width float64) [][]frag {
	var (
		pieces [][]frag
		cur    []frag
		curW   float64
	)
	for _, f := range frags {
		var b strings.Builder
		for _, ch := range f.text {
			cw := m.StringWidth(f.font, string(ch))
			if curW+cw > width+widthEpsilon && (curW > 0 || b.Len() > 0) {
				if b.Len() > 0 {
					cur = append(cur, frag{text: b.String(), font: f.font, rise: f.rise})
					b.Reset()
				}
				pieces = append(pieces, cur)
				cur, curW = nil, 0
			}
			b.WriteRune(ch)
			curW += cw
		}
		if b.Len() > 0 {
			cur = append(cur, frag{text: b.String(), font: f.font, rise: f.rise})
		}
	}
	if len(cur) > 0 {
		pieces = append(pieces, cur)
	}
	return pieces
}

// layoutLines greedily fills lines of the given width.
func layoutLines(m Measurer, items []item, width, baseLeading float64) []line {
	if len(items) == 0 {
		return nil
	}

	var (
		lines   []line
		cur     line
		pending *Font
	)

	finish := func(last bool) {
		cur.last = last
		cur.leading = baseLeading
		for _, w := range cur.words {
			for _, f := range w {
				cur.maxSize = max(cur.maxSize, f.font.Size)
			}
		}
		cur.leading = max(cur.leading, cur.maxSize*1.2)
		lines = append(lines, cur)
		cur = line{}
		pending = nil
	}
	add := func(frags []frag, w float64) {
		if len(cur.words) > 0 && pending != nil {
			cur.spaces = append(cur.spaces, *pending)
			cur.width += m.StringWidth(*pending, " ")
		} else if len(cur.words) > 0 {
			cur.spaces = append(cur.spaces, frags[0].font)
			cur.width += m.StringWidth(frags[0].font, " ")
		}
		cur.words = append(cur.words, frags)
		cur.width += w
		pending = nil
	}

	for _, it := range items {
		switch it.kind {
		case itemSpace:
			if len(cur.words) > 0 {
				f := it.font
				pending = &f
			}
		case itemBreak:
			finish(true)
		case itemSoftBreak:
			finish(false)
		case itemWord:
			ww := fragsWidth(m, it.frags)
			if len(cur.words) > 0 {
				gap := 0.0
				if pending != nil {
					gap = m.StringWidth(*pending, " ")
				}
				if cur.width+gap+ww > width+widthEpsilon {
					finish(false)
				}
			}
			if ww > width+widthEpsilon {
				pieces := breakWord(m, it.frags, width)
				for _, p := range pieces[:len(pieces)-1] {
					add(p, fragsWidth(m, p))
					finish(false)
				}
				last := pieces[len(pieces)-1]
				add(last, fragsWidth(m, last))
				continue
			}
			add(it.frags, ww)
		}
	}
	if len(cur.words) > 0 || len(lines) == 0 {
		finish(true)
	}
	return lines
}

// Paragraph is a block of wrapped, styled text.
type Paragraph struct {
	style ParaStyle
	items []item
}

// NewParagraph builds a paragraph from runs. Newlines in run text force line
// breaks.
func NewParagraph(style ParaStyle, runs ...Run) *Paragraph {
	return &Paragraph{style: style, items: tokenize(runs)}
}

// Empty reports whether the paragraph has no content.
func (p *Paragraph) Empty() bool {
	return len(p.items) == 0
}

func (p *Paragraph) lines(m Measurer, width float64) []line {
	return layoutLines(m, p.items, width, p.style.Leading)
}

// Height implements Element.
func (p *Paragraph) Height(m Measurer, width float64) float64 {
	lines := p.lines(m, width)
	if len(lines) == 0 {
		return 0
	}
	h := p.style.SpaceBefore + p.style.SpaceAfter
	for _, l := range lines {
		h += l.leading
	}
	return h
}

// Draw implements Element.
func (p *Paragraph) Draw(pt Painter, x, y, width float64) {
	lines := p.lines(pt, width)
	if len(lines) == 0 {
		return
	}
	y += p.style.SpaceBefore
	for _, l := range lines {
		drawLine(pt, l, p.style.Align, x, y, width)
		y += l.leading
	}
}

func drawLine(pt Painter, l line, align Align, x, top, width float64) {
	baseline := top + l.leading - 0.22*max(l.maxSize, l.leading/1.2)

	extra := 0.0
	switch align {
	case AlignCenter:
		x += (width - l.width) / 2
	case AlignJustify:
		if !l.last && len(l.spaces) > 0 && l.width < width {
			extra = (width - l.width) / float64(len(l.spaces))
		}
	}

	cx := x
	for i, w := range l.words {
		if i > 0 {
			cx += pt.StringWidth(l.spaces[i-1], " ") + extra
		}
		for _, f := range w {
			pt.DrawText(f.font, cx, baseline-f.rise, f.text)
			cx += pt.StringWidth(f.font, f.text)
		}
	}
}

// Split implements splitter. It breaks the paragraph at the last line
// boundary that fits in avail. ok is false when not even one line fits. When
// every line fits and only the trailing space overflows, tail is nil.
func (p *Paragraph) Split(m Measurer, width, avail float64) (head, tail Element, ok bool) {
	lines := p.lines(m, width)

	used := p.style.SpaceBefore
	n := 0
	for _, l := range lines {
		if used+l.leading > avail+widthEpsilon {
			break
		}
		used += l.leading
		n++
	}
	if n == 0 {
		return nil, nil, false
	}

	headStyle := p.style
	headStyle.SpaceAfter = 0
	if n == len(lines) {
		return &Paragraph{style: headStyle, items: p.items}, nil, true
	}
	tailStyle := p.style
	tailStyle.SpaceBefore = 0

	return &Paragraph{style: headStyle, items: linesToItems(lines[:n], true)},
		&Paragraph{style: tailStyle, items: linesToItems(lines[n:], false)},
		true
}

// linesToItems rebuilds items from laid-out lines. With keep set, every line
// break is preserved; otherwise wrapped lines are rejoined so the text can
// reflow in a frame of a different width.
func linesToItems(lines []line, keep bool) []item {
	var items []item
	for i, l := range lines {
		for j, w := range l.words {
			if j > 0 {
				items = append(items, item{kind: itemSpace, font: l.spaces[j-1]})
			}
			items = append(items, item{kind: itemWord, frags: w})
		}

		lastLine := i == len(lines)-1
		switch {
		case l.last && !lastLine:
			items = append(items, item{kind: itemBreak})
		case l.last:
		case keep:
			items = append(items, item{kind: itemSoftBreak})
		case !lastLine && len(l.words) > 0:
			lw := l.words[len(l.words)-1]
			items = append(items, item{kind: itemSpace, font: lw[len(lw)-1].font})
		}
	}
	return items
}
