// Package markdown converts HTML-like markup to Markdown.
//
// Conversion is delegated to html-to-markdown with the CommonMark, table and
// strikethrough plugins. Elements the plugins do not know are rendered by
// per-tag renderers registered through WithRenderer; anything else passes
// its children through.
package markdown

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"

	"github.com/dinjou/inconfluential/internal/core/domain"
)

// verbatimAttr holds the captured text of a verbatim element.
const verbatimAttr = "data-verbatim"

// Option configures a Renderer.
type Option func(*converter.Converter)

// WithRenderer renders tag with fn ahead of the built-in renderers. The tag
// is treated as a block element. fn may return converter.RenderTryNext to
// fall back to the default behaviour.
func WithRenderer(tag string, fn converter.HandleRenderFunc) Option {
	return func(c *converter.Converter) {
		c.Register.RendererFor(tag, converter.TagTypeBlock, fn, converter.PriorityEarly)
	}
}

// WithBlocks marks additional tags as block level so whitespace around them
// is collapsed like around a paragraph.
func WithBlocks(tags ...string) Option {
	return func(c *converter.Converter) {
		for _, t := range tags {
			c.Register.TagType(t, converter.TagTypeBlock, converter.PriorityStandard)
		}
	}
}

// WithVerbatim captures the text of tags before whitespace is collapsed.
// The element's children are replaced by the captured text, which a
// registered renderer reads back with Verbatim.
func WithVerbatim(tags ...string) Option {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return func(c *converter.Converter) {
		c.Register.PreRenderer(func(_ converter.Context, doc *html.Node) {
			captureVerbatim(doc, set)
		}, converter.PriorityEarly)
	}
}

func captureVerbatim(doc *html.Node, tags map[string]bool) {
	for _, n := range dom.FindAllNodes(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && tags[n.Data]
	}) {
		if _, done := dom.GetAttribute(n, verbatimAttr); done {
			continue
		}
		text := dom.CollectText(n)
		for n.FirstChild != nil {
			n.RemoveChild(n.FirstChild)
		}
		n.Attr = append(n.Attr, html.Attribute{Key: verbatimAttr, Val: text})
	}
}

// Verbatim returns the uncollapsed text captured for an element named in
// WithVerbatim.
func Verbatim(n *html.Node) string {
	return dom.GetAttributeOr(n, verbatimAttr, "")
}

// Renderer converts markup to Markdown. It is safe for concurrent use once
// constructed.
type Renderer struct {
	conv *converter.Converter
}

// New creates a Renderer with the default plugins, then applies opts.
func New(opts ...Option) *Renderer {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			strikethrough.NewStrikethroughPlugin(),
			table.NewTablePlugin(),
		),
	)
	for _, opt := range opts {
		opt(conv)
	}
	return &Renderer{conv: conv}
}

// Convert renders src. Non-empty output ends with a single newline.
func (r *Renderer) Convert(src string) (string, error) {
	out, err := r.conv.ConvertString(src)
	if err != nil {
		return "", fmt.Errorf("%w: convert markup: %v", domain.ErrInvalidInput, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", nil
	}
	return out + "\n", nil
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
	`|`, `\|`,
)

// Escape backslash-escapes every Markdown control character in s. It is
// meant for raw text a renderer writes directly, which bypasses the
// converter's own escaping.
func Escape(s string) string {
	return escaper.Replace(s)
}

// InsideInline reports whether n sits in a heading or table cell, where
// block separators would break the surrounding construct.
func InsideInline(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		name := dom.NodeName(p)
		if name == "td" || name == "th" || dom.NameIsHeading(name) {
			return true
		}
	}
	return false
}
