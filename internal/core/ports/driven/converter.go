package driven

// Converter transforms a page's storage-format body into Markdown.
// Implementations must be pure and deterministic.
type Converter interface {
	Convert(body string) (string, error)
}
