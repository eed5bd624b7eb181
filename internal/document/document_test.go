package document

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAuthorRows(t *testing.T) {
	t.Parallel()

	authors := make([]Author, 7)
	for i := range authors {
		authors[i] = Author{FirstName: string(rune('A' + i))}
	}

	rows := AuthorRows(authors)

	if len(rows) != 3 {
		t.Fatalf("AuthorRows(7) returned %d rows, want 3", len(rows))
	}

	filled := make([]int, len(rows))
	empty := make([]int, len(rows))
	for i, row := range rows {
		if len(row) != AuthorsPerRow {
			t.Errorf("row %d has %d cells, want %d", i, len(row), AuthorsPerRow)
		}
		for _, c := range row {
			if c.Empty {
				empty[i]++
			} else {
				filled[i]++
			}
		}
	}

	if diff := cmp.Diff([]int{3, 3, 1}, filled); diff != "" {
		t.Errorf("filled cells per row mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 0, 2}, empty); diff != "" {
		t.Errorf("empty cells per row mismatch (-want +got):\n%s", diff)
	}

	if rows[2][0].Ordinal != 7 || rows[2][0].Author.FirstName != "G" {
		t.Errorf("last author cell = %+v, want ordinal 7 author G", rows[2][0])
	}
}

func TestAuthorRows_Edges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		count    int
		wantRows int
	}{
		{"no authors", 0, 0},
		{"one author", 1, 1},
		{"exact row", 3, 1},
		{"row plus one", 4, 2},
		{"two full rows", 6, 2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rows := AuthorRows(make([]Author, tt.count))
			if len(rows) != tt.wantRows {
				t.Errorf("AuthorRows(%d) = %d rows, want %d", tt.count, len(rows), tt.wantRows)
			}
		})
	}
}

func TestAuthorRows_OrdinalsFollowInputOrder(t *testing.T) {
	t.Parallel()

	rows := AuthorRows(make([]Author, 5))

	var got []int
	for _, row := range rows {
		for _, c := range row {
			if !c.Empty {
				got = append(got, c.Ordinal)
			}
		}
	}

	if diff := cmp.Diff([]int{1, 2, 3, 4, 5}, got); diff != "" {
		t.Errorf("ordinals mismatch (-want +got):\n%s", diff)
	}
}

func TestParseReferences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []Reference
	}{
		{
			name: "blank line discarded",
			text: "a\n\nb",
			want: []Reference{{Text: "a"}, {Text: "b"}},
		},
		{
			name: "whitespace-only lines and CRLF",
			text: "first\r\n   \r\nsecond\r\n",
			want: []Reference{{Text: "first"}, {Text: "second"}},
		},
		{
			name: "bibitem key lifted",
			text: `\bibitem{b1} Ref 1`,
			want: []Reference{{Key: "b1", Text: "Ref 1"}},
		},
		{
			name: "unterminated bibitem kept as text",
			text: `\bibitem{broken Ref`,
			want: []Reference{{Text: `\bibitem{broken Ref`}},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseReferences(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseReferences(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestSplitFirstWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		content   string
		wantFirst string
		wantRest  string
	}{
		{"Hello World", "Hello", " World"},
		{"A quick test", "A", " quick test"},
		{"Single", "Single", ""},
		{"Line\nbreak", "Line", "\nbreak"},
		{"", "", ""},
	}

	for _, tt := range tests {
		first, rest := SplitFirstWord(tt.content)
		if first != tt.wantFirst || rest != tt.wantRest {
			t.Errorf("SplitFirstWord(%q) = (%q, %q), want (%q, %q)", tt.content, first, rest, tt.wantFirst, tt.wantRest)
		}
	}
}

func TestSplitInitial(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in          string
		wantInitial string
		wantRest    string
	}{
		{"Hello World", "H", "ello World"},
		{"Émile", "É", "mile"},
		{"x", "x", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		initial, rest := SplitInitial(tt.in)
		if initial != tt.wantInitial || rest != tt.wantRest {
			t.Errorf("SplitInitial(%q) = (%q, %q), want (%q, %q)", tt.in, initial, rest, tt.wantInitial, tt.wantRest)
		}
	}
}

func TestPaper_DropCapEligible(t *testing.T) {
	t.Parallel()

	withContent := []Section{{Title: "Intro", Content: "Hello"}, {Title: "Next", Content: "More"}}

	tests := []struct {
		name  string
		paper Paper
		index int
		want  bool
	}{
		{"enabled first section", Paper{DropCap: true, Sections: withContent}, 0, true},
		{"second section never", Paper{DropCap: true, Sections: withContent}, 1, false},
		{"disabled", Paper{DropCap: false, Sections: withContent}, 0, false},
		{"empty content", Paper{DropCap: true, Sections: []Section{{Title: "Intro"}}}, 0, false},
		{"no sections", Paper{DropCap: true}, 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.paper.DropCapEligible(tt.index); got != tt.want {
				t.Errorf("DropCapEligible(%d) = %v, want %v", tt.index, got, tt.want)
			}
		})
	}
}

func TestPaper_DisplayTitle(t *testing.T) {
	t.Parallel()

	if got := (&Paper{Title: "  "}).DisplayTitle(); got != DefaultTitle {
		t.Errorf("DisplayTitle() for blank = %q, want %q", got, DefaultTitle)
	}
	if got := (&Paper{Title: "Graphs"}).DisplayTitle(); got != "Graphs" {
		t.Errorf("DisplayTitle() = %q, want %q", got, "Graphs")
	}
}

func TestAuthor_FullName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		author Author
		want   string
	}{
		{Author{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{Author{FirstName: "Plato"}, "Plato"},
		{Author{LastName: " Curie "}, "Curie"},
		{Author{}, ""},
	}

	for _, tt := range tests {
		if got := tt.author.FullName(); got != tt.want {
			t.Errorf("FullName(%+v) = %q, want %q", tt.author, got, tt.want)
		}
	}
}
