// Package confluence converts Confluence storage-format page bodies to
// Markdown.
//
// Storage format is XHTML with namespaced ac: and ri: elements. The
// converter reuses the generic markdown renderer and registers renderers
// for structured macros, macro parameters and plain-text macro bodies.
package confluence
