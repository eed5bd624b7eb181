// Package markup renders a paper as IEEEtran LaTeX source for an external
// typesetting engine.
package markup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/alnah/go-paper2pdf/internal/assets"
	"github.com/alnah/go-paper2pdf/internal/document"
	"github.com/alnah/go-paper2pdf/internal/numbering"
)

// Template delimiters. LaTeX uses braces everywhere, so the usual {{ }} would
// collide with document text.
const (
	leftDelim  = "<<"
	rightDelim = ">>"
)

// ErrTemplate is returned when the document template cannot be parsed or executed.
var ErrTemplate = errors.New("LaTeX template error")

// latexReplacer escapes characters reserved by LaTeX. Replacement happens in a
// single pass, so braces introduced by one replacement are never re-escaped.
var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`#`, `\#`,
	`%`, `\%`,
	`_`, `\_`,
	`^`, `\textasciicircum{}`,
	`~`, `\textasciitilde{}`,
	`<`, `\textless{}`,
	`>`, `\textgreater{}`,
	`|`, `\textbar{}`,
)

// citeKeyPattern lists the characters a caller-supplied \bibitem key may use.
// Keys are emitted verbatim, so anything else is replaced by a generated key.
var citeKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_:.+/-]+$`)

// Escape makes s safe to embed as LaTeX text.
func Escape(s string) string {
	return latexReplacer.Replace(s)
}

// Renderer produces LaTeX source from a paper.
type Renderer struct {
	tmpl *template.Template
}

// New parses the named template from loader.
func New(loader assets.TemplateLoader, name string) (*Renderer, error) {
	content, err := loader.LoadTemplate(name)
	if err != nil {
		return nil, fmt.Errorf("loading template %q: %w", name, err)
	}

	tmpl, err := template.New(name).Delims(leftDelim, rightDelim).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %v", ErrTemplate, name, err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// NewDefault returns a Renderer using the embedded IEEE template.
// Panics if the embedded template is broken (build-time defect).
func NewDefault() *Renderer {
	r, err := New(assets.NewEmbeddedLoader(), assets.DefaultTemplateName)
	if err != nil {
		panic(fmt.Sprintf("markup: embedded template: %v", err))
	}
	return r
}

// Render returns the complete LaTeX document for p.
func (r *Renderer) Render(ctx context.Context, p *document.Paper) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, buildView(p)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return buf.Bytes(), nil
}

// Compile-time interface check.
var _ document.Renderer = (*Renderer)(nil)

// view is the template data. Every string is already LaTeX-escaped or is
// markup assembled from escaped parts.
type view struct {
	Title        string
	SubtitleNote string
	Notice       string
	Funding      string
	Authors      []authorView
	Abstract     string
	Keywords     string
	Sections     []sectionView
	References   []referenceView
}

type authorView struct {
	Name         string
	Membership   string
	Department   string
	Organization string
	CityCountry  string
	Email        string
}

type sectionView struct {
	Title string
	Body  string
}

type referenceView struct {
	Key  string
	Text string
}

func buildView(p *document.Paper) view {
	v := view{
		Title:        Escape(p.DisplayTitle()),
		SubtitleNote: Escape(document.SubtitleNote),
		Notice:       Escape(strings.TrimSpace(p.Notice)),
		Funding:      Escape(strings.TrimSpace(p.Funding)),
		Abstract:     Escape(strings.TrimSpace(p.Abstract)),
		Keywords:     Escape(strings.TrimSpace(p.Keywords)),
	}

	for i, a := range p.Authors {
		v.Authors = append(v.Authors, authorView{
			Name:         authorName(i+1, a),
			Membership:   Escape(strings.TrimSpace(a.Membership)),
			Department:   Escape(a.Department),
			Organization: Escape(a.Organization),
			CityCountry:  Escape(a.CityCountry),
			Email:        Escape(a.Email),
		})
	}

	for i, s := range p.Sections {
		body := Escape(s.Content)
		if p.DropCapEligible(i) {
			body = dropCap(s.Content)
		}
		v.Sections = append(v.Sections, sectionView{Title: Escape(s.Title), Body: body})
	}

	for i, ref := range p.ReferenceEntries() {
		key := ref.Key
		if !citeKeyPattern.MatchString(key) {
			key = fmt.Sprintf("b%d", i+1)
		}
		v.References = append(v.References, referenceView{Key: key, Text: Escape(ref.Text)})
	}

	return v
}

// authorName renders "1\textsuperscript{st} First Last".
func authorName(ordinal int, a document.Author) string {
	name := fmt.Sprintf(`%d\textsuperscript{%s}`, ordinal, numbering.OrdinalSuffix(ordinal))
	if full := a.FullName(); full != "" {
		name += " " + Escape(full)
	}
	return name
}

// dropCap renders content with IEEEtran's oversized initial. The first letter
// is enlarged, the rest of the first word follows at normal size.
func dropCap(content string) string {
	firstWord, rest := document.SplitFirstWord(content)
	if firstWord == "" {
		return Escape(content)
	}
	initial, restOfWord := document.SplitInitial(firstWord)
	return `\IEEEPARstart{` + Escape(initial) + `}{` + Escape(restOfWord) + `}` + Escape(rest)
}
