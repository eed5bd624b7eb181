package layout

import (
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Core font family used for every element of the template.
const fontFamily = "Times"

// Font selects a core font face and size in points.
type Font struct {
	Family string
	Style  string // "", "B", "I" or "BI"
	Size   float64
}

// Measurer reports the rendered width of text. It is the only capability the
// measurement pass needs, which keeps element heights independent of where
// (or whether) they are drawn.
type Measurer interface {
	StringWidth(f Font, s string) float64
}

// Painter draws text with its baseline at y.
type Painter interface {
	Measurer
	DrawText(f Font, x, y float64, s string)
}

// encodeText converts UTF-8 to the Windows-1252 bytes expected by the core
// fonts. Text is NFC-normalized first so combining sequences collapse into
// encodable runes; anything left outside the code page becomes '?'.
func encodeText(s string) string {
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}

// canvas adapts an fpdf document to Painter.
type canvas struct {
	pdf *fpdf.Fpdf
	cur Font
}

func newCanvas(pdf *fpdf.Fpdf) *canvas {
	return &canvas{pdf: pdf}
}

// newDocument returns an A4 document measured in points with automatic page
// breaks disabled; pagination is driven by Flow.
func newDocument() *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(MarginLeft, MarginTop, MarginRight)
	pdf.SetAutoPageBreak(false, MarginBottom)
	return pdf
}

func (c *canvas) setFont(f Font) {
	if f == c.cur {
		return
	}
	c.pdf.SetFont(f.Family, f.Style, f.Size)
	c.cur = f
}

// StringWidth implements Measurer.
func (c *canvas) StringWidth(f Font, s string) float64 {
	c.setFont(f)
	return c.pdf.GetStringWidth(encodeText(s))
}

// DrawText implements Painter.
func (c *canvas) DrawText(f Font, x, y float64, s string) {
	c.setFont(f)
	c.pdf.Text(x, y, encodeText(s))
}

// Compile-time interface check.
var _ Painter = (*canvas)(nil)
