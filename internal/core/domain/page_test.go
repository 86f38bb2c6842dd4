package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentFileName(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Home", "Home.md"},
		{"Design/Architecture", "Design_Architecture.md"},
		{"a/b/c", "a_b_c.md"},
		{"Q&A: what's new?", "Q&A: what's new?.md"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, DocumentFileName(tt.title))
		})
	}
}

func TestDocumentFileName_CollidingTitles(t *testing.T) {
	// Titles differing only by a slash map to the same file.
	assert.Equal(t, DocumentFileName("a/b"), DocumentFileName("a_b"))
}

func TestVersionHeader(t *testing.T) {
	v := PageVersion{
		AuthorID:   "5b10ac8d82e05b22cc7d4ef5",
		AuthorName: "Ada Lovelace",
		When:       "2024-03-01T10:15:30.000Z",
	}

	assert.Equal(t,
		"{'Account ID': '5b10ac8d82e05b22cc7d4ef5', 'Author Name': 'Ada Lovelace', 'Last Updated': '2024-03-01T10:15:30.000Z'}",
		VersionHeader(v))
}

func TestVersionHeader_Defaults(t *testing.T) {
	assert.Equal(t,
		"{'Account ID': 'unknown', 'Author Name': 'Unknown User', 'Last Updated': 'unknown time'}",
		VersionHeader(PageVersion{}))
}

func TestVersionHeader_Quoting(t *testing.T) {
	tests := []struct {
		name     string
		author   string
		expected string
	}{
		{"apostrophe switches quotes", "Miles O'Brien", `"Miles O'Brien"`},
		{"both quote kinds escape", `O'Brien "Chief"`, `'O\'Brien "Chief"'`},
		{"backslash escaped", `DOMAIN\user`, `'DOMAIN\\user'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := VersionHeader(PageVersion{AuthorID: "id", AuthorName: tt.author, When: "now"})
			assert.Contains(t, header, "'Author Name': "+tt.expected+",")
		})
	}
}

func TestNewRenderedDocument(t *testing.T) {
	v := PageVersion{AuthorID: "id", AuthorName: "name", When: "when"}

	doc := NewRenderedDocument("/out/SPACE/Home.md", v, "# Body\n")

	assert.Equal(t, "/out/SPACE/Home.md", doc.Path)
	assert.Equal(t, "{'Account ID': 'id', 'Author Name': 'name', 'Last Updated': 'when'}\n# Body\n", doc.Content)
}

func TestNewRenderedDocument_HeaderChangeChangesContent(t *testing.T) {
	a := NewRenderedDocument("p", PageVersion{AuthorID: "id", AuthorName: "name", When: "t1"}, "body")
	b := NewRenderedDocument("p", PageVersion{AuthorID: "id", AuthorName: "name", When: "t2"}, "body")

	assert.NotEqual(t, a.Content, b.Content)
}
