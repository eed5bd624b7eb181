package markup

// Notes:
// - Render is tested through the embedded template; assertions look for the
//   LaTeX fragments each feature must produce rather than whole documents.
// - Escaping is tested per field because every user-supplied string is
//   embedded into the source.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/alnah/go-paper2pdf/internal/assets"
	"github.com/alnah/go-paper2pdf/internal/document"
)

func render(t *testing.T, p *document.Paper) string {
	t.Helper()

	out, err := NewDefault().Render(context.Background(), p)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return string(out)
}

func samplePaper() *document.Paper {
	return &document.Paper{
		Title:   "My Awesome Paper",
		Funding: "National Science Foundation",
		Notice:  "Invited Paper",
		DropCap: true,
		Authors: []document.Author{
			{
				FirstName: "John", LastName: "Doe", Membership: "Member, IEEE",
				Department: "Dept of CS", Organization: "Univ A",
				CityCountry: "City, Country", Email: "john@example.com",
			},
			{
				FirstName: "Jane", LastName: "Smith",
				Department: "Dept of EE", Organization: "Univ B",
				CityCountry: "City, Country", Email: "jane@example.com",
			},
		},
		Abstract: "This is the abstract.",
		Keywords: "AI, ML, Testing",
		Sections: []document.Section{
			{Title: "Introduction", Content: "Hello World this is a drop cap test."},
			{Title: "Methodology", Content: "We did stuff."},
		},
		References: `\bibitem{b1} Ref 1`,
	}
}

// ---------------------------------------------------------------------------
// TestEscape - LaTeX reserved characters
// ---------------------------------------------------------------------------

func TestEscape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"50% off", `50\% off`},
		{"R&D", `R\&D`},
		{"$x$", `\$x\$`},
		{"#1", `\#1`},
		{"snake_case", `snake\_case`},
		{"{braces}", `\{braces\}`},
		{`back\slash`, `back\textbackslash{}slash`},
		{"a^b", `a\textasciicircum{}b`},
		{"a~b", `a\textasciitilde{}b`},
		{"<tag>", `\textless{}tag\textgreater{}`},
		{"a|b", `a\textbar{}b`},
		{`\section{x}`, `\textbackslash{}section\{x\}`},
	}

	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRender_EscapesEveryField(t *testing.T) {
	t.Parallel()

	const hostile = `50%_$#&{}\~^`
	const escaped = `50\%\_\$\#\&\{\}\textbackslash{}\textasciitilde{}\textasciicircum{}`

	p := &document.Paper{
		Title:    "T" + hostile,
		Funding:  "F" + hostile,
		Notice:   "N" + hostile,
		Abstract: "A" + hostile,
		Keywords: "K" + hostile,
		Authors: []document.Author{{
			FirstName: "First" + hostile, LastName: "Last",
			Membership: "M" + hostile, Department: "D" + hostile,
			Organization: "O" + hostile, CityCountry: "C" + hostile,
			Email: "E" + hostile,
		}},
		Sections: []document.Section{
			{Title: "S" + hostile, Content: "Body" + hostile},
		},
		References: "R" + hostile,
	}

	out := render(t, p)

	for _, prefix := range []string{"T", "F", "N", "A", "K", "First", "M", "D", "O", "C", "E", "S", "Body", "R"} {
		if !strings.Contains(out, prefix+escaped) {
			t.Errorf("output missing escaped field %q", prefix+escaped)
		}
	}
	if strings.Contains(out, hostile) {
		t.Error("output contains unescaped hostile text")
	}
}

// ---------------------------------------------------------------------------
// TestRender_TitleBlock - subtitle note, funding, notice
// ---------------------------------------------------------------------------

func TestRender_TitleBlock(t *testing.T) {
	t.Parallel()

	t.Run("with funding and notice", func(t *testing.T) {
		t.Parallel()

		out := render(t, samplePaper())

		for _, want := range []string{
			`\title{My Awesome Paper*\\`,
			`\textsuperscript{*}Note: Sub-titles are not captured for https://ieeexplore.ieee.org and should not be used`,
			`\thanks{National Science Foundation}`,
			`\IEEEspecialpapernotice{Invited Paper}`,
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("without funding or notice", func(t *testing.T) {
		t.Parallel()

		p := samplePaper()
		p.Funding = ""
		p.Notice = "  "
		out := render(t, p)

		if strings.Contains(out, `\thanks`) {
			t.Error("funding clause emitted without funding")
		}
		if strings.Contains(out, `\IEEEspecialpapernotice`) {
			t.Error("notice emitted without notice")
		}
	})

	t.Run("blank title uses default", func(t *testing.T) {
		t.Parallel()

		out := render(t, &document.Paper{})
		if !strings.Contains(out, `\title{`+document.DefaultTitle+`*`) {
			t.Errorf("expected default title in output")
		}
	})
}

// ---------------------------------------------------------------------------
// TestRender_Authors - ordinals, membership, separators
// ---------------------------------------------------------------------------

func TestRender_Authors(t *testing.T) {
	t.Parallel()

	out := render(t, samplePaper())

	for _, want := range []string{
		`\IEEEauthorblockN{1\textsuperscript{st} John Doe,~\IEEEmembership{Member, IEEE}}`,
		`\IEEEauthorblockN{2\textsuperscript{nd} Jane Smith}`,
		`\textit{Dept of CS}`,
		`\textit{Univ B}`,
		"jane@example.com}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if n := strings.Count(out, `\and`); n != 1 {
		t.Errorf("got %d author separators, want 1", n)
	}
	if strings.Count(out, `\IEEEmembership`) != 1 {
		t.Error("membership should only be emitted for the author who has one")
	}
}

func TestRender_AuthorLinesStartingWithBrackets(t *testing.T) {
	t.Parallel()

	// A line break followed by [ or * would be read as \\[len] or \\*.
	tests := []struct {
		name   string
		author document.Author
		want   string
	}{
		{"bracket city", document.Author{FirstName: "Ada", CityCountry: "[Remote]", Email: "ada@x"}, "\\{}\n[Remote] \\{}\nada@x}"},
		{"star email", document.Author{FirstName: "Ada", CityCountry: "London", Email: "*ada@x"}, "\\{}\nLondon \\{}\n*ada@x}"},
		{"both", document.Author{FirstName: "Ada", CityCountry: "[Remote]", Email: "*ada@x"}, "\\{}\n[Remote] \\{}\n*ada@x}"},
	}

	breakThenSpecial := regexp.MustCompile(`\\\\\s*[\[*]`)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := render(t, &document.Paper{Authors: []document.Author{tt.author}})
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
			if loc := breakThenSpecial.FindStringIndex(out); loc != nil {
				t.Errorf("line break directly followed by %q", out[loc[0]:loc[1]])
			}
		})
	}
}

func TestRender_AuthorOrdinalsBeyondTen(t *testing.T) {
	t.Parallel()

	p := &document.Paper{Authors: make([]document.Author, 13)}
	out := render(t, p)

	for _, want := range []string{
		`{11\textsuperscript{th}`,
		`{12\textsuperscript{th}`,
		`{13\textsuperscript{th}`,
		`{3\textsuperscript{rd}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRender_DropCap - oversized initial on section 1 only
// ---------------------------------------------------------------------------

func TestRender_DropCap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dropCap bool
		content string
		want    string
		notWant string
	}{
		{
			name:    "multi-letter first word",
			dropCap: true,
			content: "Hello World",
			want:    `\IEEEPARstart{H}{ello} World`,
		},
		{
			name:    "single-letter first word",
			dropCap: true,
			content: "A test",
			want:    `\IEEEPARstart{A}{} test`,
		},
		{
			name:    "single word",
			dropCap: true,
			content: "Hello",
			want:    `\IEEEPARstart{H}{ello}`,
		},
		{
			name:    "escaped initial",
			dropCap: true,
			content: "%special case",
			want:    `\IEEEPARstart{\%}{special} case`,
		},
		{
			name:    "disabled leaves content untouched",
			dropCap: false,
			content: "Hello World",
			want:    "\\section{Intro}\nHello World\n",
			notWant: `\IEEEPARstart`,
		},
		{
			name:    "leading whitespace is not a word",
			dropCap: true,
			content: " Hello",
			want:    "\\section{Intro}\n Hello\n",
			notWant: `\IEEEPARstart`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &document.Paper{
				DropCap:  tt.dropCap,
				Sections: []document.Section{{Title: "Intro", Content: tt.content}},
			}
			out := render(t, p)

			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q\n%s", tt.want, out)
			}
			if tt.notWant != "" && strings.Contains(out, tt.notWant) {
				t.Errorf("output should not contain %q", tt.notWant)
			}
		})
	}
}

func TestRender_DropCapOnlyFirstSection(t *testing.T) {
	t.Parallel()

	out := render(t, samplePaper())

	if n := strings.Count(out, `\IEEEPARstart`); n != 1 {
		t.Errorf("got %d drop caps, want 1", n)
	}
	if !strings.Contains(out, "\\section{Methodology}\nWe did stuff.") {
		t.Error("second section should be emitted verbatim")
	}
}

// ---------------------------------------------------------------------------
// TestRender_Sections - order and delegated numbering
// ---------------------------------------------------------------------------

func TestRender_Sections(t *testing.T) {
	t.Parallel()

	out := render(t, samplePaper())

	intro := strings.Index(out, `\section{Introduction}`)
	method := strings.Index(out, `\section{Methodology}`)
	if intro < 0 || method < 0 || intro > method {
		t.Errorf("sections out of order: intro=%d method=%d", intro, method)
	}
	if strings.Contains(out, `\section{I.`) {
		t.Error("markup must not add manual roman numerals")
	}
}

// ---------------------------------------------------------------------------
// TestRender_References - bibitems
// ---------------------------------------------------------------------------

func TestRender_References(t *testing.T) {
	t.Parallel()

	t.Run("blank lines discarded and keys assigned", func(t *testing.T) {
		t.Parallel()

		out := render(t, &document.Paper{References: "a\n\nb"})

		if n := strings.Count(out, `\bibitem{`); n != 2 {
			t.Errorf("got %d bibitems, want 2", n)
		}
		if !strings.Contains(out, `\bibitem{b1} a`) || !strings.Contains(out, `\bibitem{b2} b`) {
			t.Errorf("unexpected bibliography:\n%s", out)
		}
	})

	t.Run("cite keys kept verbatim or replaced", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			refs string
			want string
		}{
			{`\bibitem{smith_2020} X`, `\bibitem{smith_2020} X`},
			{`\bibitem{doe:2021-a} X`, `\bibitem{doe:2021-a} X`},
			{`\bibitem{a$b} X`, `\bibitem{b1} X`},
			{`\bibitem{a b} X`, `\bibitem{b1} X`},
		}
		for _, tt := range tests {
			out := render(t, &document.Paper{References: tt.refs})
			if !strings.Contains(out, tt.want) {
				t.Errorf("references %q: output missing %q", tt.refs, tt.want)
			}
		}
	})

	t.Run("caller-supplied key preserved", func(t *testing.T) {
		t.Parallel()

		out := render(t, samplePaper())
		if !strings.Contains(out, `\bibitem{b1} Ref 1`) {
			t.Errorf("expected supplied bibitem preserved:\n%s", out)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRender_EmptyShell - zero authors, sections, abstract, keywords
// ---------------------------------------------------------------------------

func TestRender_EmptyShell(t *testing.T) {
	t.Parallel()

	out := render(t, &document.Paper{Title: "Shell"})

	for _, absent := range []string{
		`\author{`,
		`\begin{abstract}`,
		`\begin{IEEEkeywords}`,
		`\section{`,
		`\begin{thebibliography}`,
	} {
		if strings.Contains(out, absent) {
			t.Errorf("empty shell should not contain %q", absent)
		}
	}
	for _, present := range []string{`\begin{document}`, `\maketitle`, `\end{document}`} {
		if !strings.Contains(out, present) {
			t.Errorf("empty shell missing %q", present)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	a := render(t, samplePaper())
	b := render(t, samplePaper())
	if a != b {
		t.Error("Render() is not deterministic")
	}
}

func TestRender_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDefault().Render(ctx, samplePaper())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestNew - custom templates
// ---------------------------------------------------------------------------

func TestNew_CustomTemplate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tmplDir := filepath.Join(dir, "templates")
	if err := os.MkdirAll(tmplDir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmplDir, "minimal.tex.tmpl"), []byte(`T=<<.Title>>`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loader, err := assets.NewTemplateResolver(dir)
	if err != nil {
		t.Fatalf("NewTemplateResolver() error = %v", err)
	}
	r, err := New(loader, "minimal")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := r.Render(context.Background(), &document.Paper{Title: "A_B"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(out) != `T=A\_B` {
		t.Errorf("Render() = %q", out)
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tmplDir := filepath.Join(dir, "templates")
	if err := os.MkdirAll(tmplDir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmplDir, "broken.tex.tmpl"), []byte(`<<if>>`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	loader, err := assets.NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	if _, err := New(loader, "broken"); !errors.Is(err, ErrTemplate) {
		t.Errorf("New(broken) error = %v, want ErrTemplate", err)
	}
	if _, err := New(loader, "missing"); !errors.Is(err, assets.ErrTemplateNotFound) {
		t.Errorf("New(missing) error = %v, want ErrTemplateNotFound", err)
	}
}
