// Package paper2pdf generates two-column IEEE conference papers as PDF from a
// structured submission.
//
// # Quick Start
//
//	conv, err := paper2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, paper2pdf.Submission{
//	    Title:    "A Study of Things",
//	    Authors:  []paper2pdf.Author{{FirstName: "Ada", LastName: "Lovelace"}},
//	    Abstract: "We study things.",
//	    Sections: []paper2pdf.Section{{Title: "Introduction", Content: "Hello World"}},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("paper.pdf", result.PDF, 0o644)
//
// # Rendering Paths
//
// Convert tries two renderers in order:
//
//  1. Engine: the paper is rendered as IEEEtran LaTeX and compiled with
//     pdflatex in a private scratch directory, under a timeout.
//  2. Layout: if the engine is missing, fails, times out or produces no
//     PDF, the same paper is laid out in-process with the PDF core fonts.
//
// Result.Renderer reports which path produced the document. Engine errors are
// never returned; layout errors are wrapped in ErrLayoutFailure.
//
// # Configuration
//
//	conv, err := paper2pdf.NewConverter(
//	    paper2pdf.WithTimeout(10 * time.Second),
//	    paper2pdf.WithEngineBinary("/usr/local/texlive/bin/pdflatex"),
//	    paper2pdf.WithAssetPath("/path/to/assets"),
//	    paper2pdf.WithLogger(logger),
//	)
//
// Use WithoutEngine to always use the layout renderer, and Converter.Markup
// to obtain the LaTeX source alone.
//
// # Custom Templates
//
// WithAssetPath points at a directory containing templates/<name>.tex.tmpl.
// Templates use << and >> as action delimiters; every field they receive is
// already LaTeX-escaped.
package paper2pdf
