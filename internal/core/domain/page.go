package domain

import (
	"fmt"
	"strings"
)

// PageSummary is one entry of a paginated page listing.
type PageSummary struct {
	// ID is the opaque remote identifier.
	ID string

	// Title is the display title, unique within a space.
	Title string
}

// PageVersion describes the latest edit of a page.
type PageVersion struct {
	// Number is the remote version counter.
	Number int

	// AuthorID is the editor's account identifier.
	AuthorID string

	// AuthorName is the editor's display name.
	AuthorName string

	// When is the last-modified timestamp as reported by the remote.
	// It is kept verbatim so rendering never depends on local time zones.
	When string
}

// RemotePage is an immutable snapshot of one page, fetched once per run.
type RemotePage struct {
	ID       string
	Title    string
	SpaceKey string

	// Body is the page's storage-format markup.
	Body string

	Version PageVersion
}

// Placeholders used when the remote omits version fields.
const (
	UnknownAuthorID   = "unknown"
	UnknownAuthorName = "Unknown User"
	UnknownTime       = "unknown time"
)

// DocumentExtension is the file extension of every mirrored page.
const DocumentExtension = ".md"

// DocumentFileName derives the file name for a page title.
// Path separators are replaced with underscores; no other deduplication
// happens, so two titles that differ only by a slash share one file.
func DocumentFileName(title string) string {
	return strings.ReplaceAll(title, "/", "_") + DocumentExtension
}

// VersionHeader serialises version metadata into the first line of a
// rendered document. The layout matches mirrors written by earlier
// releases so existing files are not rewritten on upgrade.
func VersionHeader(v PageVersion) string {
	id := v.AuthorID
	if id == "" {
		id = UnknownAuthorID
	}
	name := v.AuthorName
	if name == "" {
		name = UnknownAuthorName
	}
	when := v.When
	if when == "" {
		when = UnknownTime
	}
	return fmt.Sprintf("{'Account ID': %s, 'Author Name': %s, 'Last Updated': %s}",
		quoteLiteral(id), quoteLiteral(name), quoteLiteral(when))
}

// quoteLiteral single-quotes s, switching to double quotes when s contains
// a single quote but no double quote, and escaping otherwise.
func quoteLiteral(s string) string {
	quote := "'"
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		quote = `"`
	}
	var b strings.Builder
	b.WriteString(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case string(r) == quote:
			b.WriteString(`\` + quote)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString(quote)
	return b.String()
}

// RenderedDocument is the text written for one page. It has no identity
// of its own and is recomputed on every run.
type RenderedDocument struct {
	// Path is the absolute or output-relative file path.
	Path string

	// Content is the version header line followed by the converted body.
	Content string
}

// NewRenderedDocument joins the version header and converted body.
func NewRenderedDocument(path string, v PageVersion, body string) RenderedDocument {
	return RenderedDocument{
		Path:    path,
		Content: VersionHeader(v) + "\n" + body,
	}
}
