package confluence

import (
	"html"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dinjou/inconfluential/internal/core/ports/driven"
	"github.com/dinjou/inconfluential/internal/normalisers/markdown"
)

// Ensure Converter implements the interface.
var _ driven.Converter = (*Converter)(nil)

// Storage-format element names.
const (
	tagMacro         = "ac:structured-macro"
	tagParameter     = "ac:parameter"
	tagPlainTextBody = "ac:plain-text-body"
	tagRichTextBody  = "ac:rich-text-body"

	attrName = "ac:name"
)

// Converter renders storage-format bodies as Markdown. It is stateless and
// safe for concurrent use.
type Converter struct {
	renderer *markdown.Renderer
}

// New creates a Converter.
func New() *Converter {
	return &Converter{
		renderer: markdown.New(
			markdown.WithRenderer(tagMacro, structuredMacro),
			markdown.WithRenderer(tagParameter, parameter),
			markdown.WithRenderer(tagPlainTextBody, plainTextBody),
			markdown.WithVerbatim(tagPlainTextBody),
			markdown.WithBlocks(tagRichTextBody,
				"ac:layout", "ac:layout-section", "ac:layout-cell", "ac:task-list", "ac:task"),
		),
	}
}

// Convert renders body as Markdown.
func (c *Converter) Convert(body string) (string, error) {
	return c.renderer.Convert(prepare(body))
}

var (
	cdataSection = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	selfClosing  = regexp.MustCompile(`<((?:ac|ri):[A-Za-z0-9-]+)((?:\s[^<>]*?)?)\s*/>`)
)

// prepare rewrites XML constructs the HTML tokenizer does not understand.
// CDATA sections become escaped text and self-closing namespaced elements
// get an explicit end tag, otherwise they would swallow their siblings.
func prepare(body string) string {
	body = cdataSection.ReplaceAllStringFunc(body, func(m string) string {
		inner := cdataSection.FindStringSubmatch(m)[1]
		return html.EscapeString(inner)
	})
	return selfClosing.ReplaceAllString(body, "<$1$2></$1>")
}

// block writes a block separator unless n is rendered inline.
func block(w converter.Writer, n *xhtml.Node) {
	if !markdown.InsideInline(n) {
		w.WriteString("\n\n")
	}
}

func structuredMacro(ctx converter.Context, w converter.Writer, n *xhtml.Node) converter.RenderStatus {
	block(w, n)
	ctx.RenderChildNodes(ctx, w, n)
	block(w, n)
	return converter.RenderSuccess
}

func parameter(ctx converter.Context, w converter.Writer, n *xhtml.Node) converter.RenderStatus {
	if dom.GetAttributeOr(n, attrName, "") != "title" {
		return converter.RenderSuccess
	}
	title := strings.TrimSpace(dom.CollectText(n))
	if markdown.InsideInline(n) {
		w.WriteString(markdown.Escape(title))
		return converter.RenderSuccess
	}
	ctx.RenderNodes(ctx, w, element(atom.H4, "", title))
	return converter.RenderSuccess
}

// plainTextBody renders the body of a code macro as fenced code. Bodies of
// other macros become an escaped paragraph.
func plainTextBody(ctx converter.Context, w converter.Writer, n *xhtml.Node) converter.RenderStatus {
	text := markdown.Verbatim(n)
	macro := n.Parent
	if macro == nil || dom.GetAttributeOr(macro, attrName, "") != "code" {
		block(w, n)
		w.WriteString(markdown.Escape(strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))))
		block(w, n)
		return converter.RenderSuccess
	}

	if markdown.InsideInline(n) {
		ctx.RenderNodes(ctx, w, element(atom.Code, "", strings.TrimSpace(text)))
		return converter.RenderSuccess
	}
	class := ""
	if lang := macroParameter(macro, "language"); lang != "" {
		class = "language-" + lang
	}
	pre := element(atom.Pre, "", "")
	pre.AppendChild(element(atom.Code, class, text))
	ctx.RenderNodes(ctx, w, pre)
	return converter.RenderSuccess
}

var whitespaceRun = regexp.MustCompile(`[\t\r\n ]+`)

// element builds a detached element holding text, for handing to the
// built-in renderers.
func element(a atom.Atom, class, text string) *xhtml.Node {
	n := &xhtml.Node{Type: xhtml.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = []xhtml.Attribute{{Key: "class", Val: class}}
	}
	if text != "" {
		n.AppendChild(&xhtml.Node{Type: xhtml.TextNode, Data: text})
	}
	return n
}

// macroParameter returns the text of the macro's parameter called name.
func macroParameter(macro *xhtml.Node, name string) string {
	for _, c := range dom.AllChildElements(macro) {
		if c.Data == tagParameter && dom.GetAttributeOr(c, attrName, "") == name {
			return strings.TrimSpace(dom.CollectText(c))
		}
	}
	return ""
}
