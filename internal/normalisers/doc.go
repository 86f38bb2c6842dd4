// Package normalisers turns remote page markup into Markdown.
//
// markdown wraps the html-to-markdown converter and lets callers register
// renderers for extra tags. confluence registers renderers for the storage
// format's ac: and ri: elements.
package normalisers
