package paper2pdf

import (
	"fmt"

	"github.com/alnah/go-paper2pdf/internal/document"
)

// Field length limits (bytes).
const (
	MaxTitleLength          = 300
	MaxFundingLength        = 500
	MaxNoticeLength         = 200
	MaxNameLength           = 100 // First or last name
	MaxMembershipLength     = 100 // "Member, IEEE"
	MaxAffiliationLength    = 200 // Department, organization, city/country
	MaxEmailLength          = 254 // RFC 5321
	MaxAbstractLength       = 10000
	MaxKeywordsLength       = 1000
	MaxSectionTitleLength   = 300
	MaxSectionContentLength = 200000
	MaxReferencesLength     = 100000
)

// Collection limits.
const (
	MaxAuthors  = 60
	MaxSections = 50
)

// Renderer path names reported in Result.
const (
	RendererEngine = "engine"
	RendererLayout = "layout"
)

// Submission is a structured conference paper. JSON field names match the
// HTTP API.
type Submission struct {
	Title      string    `json:"title" yaml:"title"`
	Funding    string    `json:"funding,omitempty" yaml:"funding,omitempty"`
	Notice     string    `json:"paperNotice,omitempty" yaml:"paperNotice,omitempty"`
	DropCap    *bool     `json:"dropCap,omitempty" yaml:"dropCap,omitempty"` // nil means enabled
	Authors    []Author  `json:"authors" yaml:"authors"`
	Abstract   string    `json:"abstract" yaml:"abstract"`
	Keywords   string    `json:"keywords" yaml:"keywords"`
	Sections   []Section `json:"sections" yaml:"sections"`
	References string    `json:"references" yaml:"references"` // one entry per line
}

// Author is one entry of the author block.
type Author struct {
	FirstName    string `json:"firstName" yaml:"firstName"`
	LastName     string `json:"lastName" yaml:"lastName"`
	Membership   string `json:"membership,omitempty" yaml:"membership,omitempty"`
	Department   string `json:"department" yaml:"department"`
	Organization string `json:"organization" yaml:"organization"`
	CityCountry  string `json:"cityCountry" yaml:"cityCountry"`
	Email        string `json:"email" yaml:"email"`
}

// Section is a titled body of free text. Line breaks in Content are kept.
type Section struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// Result is the outcome of a conversion.
type Result struct {
	PDF      []byte
	Renderer string // RendererEngine or RendererLayout
}

// DropCapEnabled reports whether the first section gets a drop cap.
// Absent means enabled.
func (s *Submission) DropCapEnabled() bool {
	return s.DropCap == nil || *s.DropCap
}

// Bool returns a pointer to b, for setting Submission.DropCap.
func Bool(b bool) *bool {
	return &b
}

// Validate checks field lengths and collection sizes.
// Every returned error matches ErrInvalidSubmission.
func (s *Submission) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: submission is nil", ErrInvalidSubmission)
	}

	if len(s.Authors) > MaxAuthors {
		return fmt.Errorf("%w: %w: %d (max %d)", ErrInvalidSubmission, ErrTooManyAuthors, len(s.Authors), MaxAuthors)
	}
	if len(s.Sections) > MaxSections {
		return fmt.Errorf("%w: %w: %d (max %d)", ErrInvalidSubmission, ErrTooManySections, len(s.Sections), MaxSections)
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"title", s.Title, MaxTitleLength},
		{"funding", s.Funding, MaxFundingLength},
		{"paperNotice", s.Notice, MaxNoticeLength},
		{"abstract", s.Abstract, MaxAbstractLength},
		{"keywords", s.Keywords, MaxKeywordsLength},
		{"references", s.References, MaxReferencesLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	for i, a := range s.Authors {
		if err := a.validate(i); err != nil {
			return err
		}
	}

	for i, sec := range s.Sections {
		if err := validateFieldLength(fmt.Sprintf("sections[%d].title", i), sec.Title, MaxSectionTitleLength); err != nil {
			return err
		}
		if err := validateFieldLength(fmt.Sprintf("sections[%d].content", i), sec.Content, MaxSectionContentLength); err != nil {
			return err
		}
	}

	return nil
}

func (a Author) validate(i int) error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"firstName", a.FirstName, MaxNameLength},
		{"lastName", a.LastName, MaxNameLength},
		{"membership", a.Membership, MaxMembershipLength},
		{"department", a.Department, MaxAffiliationLength},
		{"organization", a.Organization, MaxAffiliationLength},
		{"cityCountry", a.CityCountry, MaxAffiliationLength},
		{"email", a.Email, MaxEmailLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(fmt.Sprintf("authors[%d].%s", i, f.name), f.value, f.max); err != nil {
			return err
		}
	}
	return nil
}

// validateFieldLength returns an error if value exceeds maxLength.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %w: %s (%d chars, max %d)", ErrInvalidSubmission, ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// toPaper converts the public Submission to the renderer model.
func toPaper(s *Submission) *document.Paper {
	p := &document.Paper{
		Title:      s.Title,
		Funding:    s.Funding,
		Notice:     s.Notice,
		DropCap:    s.DropCapEnabled(),
		Abstract:   s.Abstract,
		Keywords:   s.Keywords,
		References: s.References,
	}

	if len(s.Authors) > 0 {
		p.Authors = make([]document.Author, len(s.Authors))
		for i, a := range s.Authors {
			p.Authors[i] = document.Author(a)
		}
	}

	if len(s.Sections) > 0 {
		p.Sections = make([]document.Section, len(s.Sections))
		for i, sec := range s.Sections {
			p.Sections[i] = document.Section(sec)
		}
	}

	return p
}
