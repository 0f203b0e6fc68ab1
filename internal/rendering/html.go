package rendering

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed styles/*.css
var styles embed.FS

// Stylesheet returns the CSS for a template: the shared base rules followed
// by the variant's own rules.
func Stylesheet(variant types.TemplateVariant) (string, error) {
	base, err := styles.ReadFile("styles/base.css")
	if err != nil {
		return "", &RenderError{Message: "failed to read base stylesheet", Cause: err}
	}
	name := types.TemplateModern
	if variant.Valid() {
		name = variant
	}
	own, err := styles.ReadFile("styles/" + string(name) + ".css")
	if err != nil {
		return "", &RenderError{Message: fmt.Sprintf("failed to read %s stylesheet", name), Cause: err}
	}
	return string(base) + "\n" + string(own), nil
}

// WriteHTML serializes t as a standalone HTML document. The résumé root
// carries id "resume" and an explicit width so the capture step can measure
// it. Text is written literally; escaping is left to the HTML serializer.
func WriteHTML(w io.Writer, t *VisualTree) error {
	if t == nil || t.Root == nil {
		return &RenderError{Message: "empty visual tree"}
	}
	css, err := Stylesheet(t.Variant)
	if err != nil {
		return err
	}

	title := t.Title
	if title == "" {
		title = "Résumé"
	}

	head := element("head", nil,
		element("meta", []html.Attribute{{Key: "charset", Val: "utf-8"}}),
		element("title", nil, &html.Node{Type: html.TextNode, Data: title}),
		element("style", nil, &html.Node{Type: html.TextNode, Data: css}),
	)

	root := toHTML(t.Root)
	root.Attr = append([]html.Attribute{
		{Key: "id", Val: RootID},
		{Key: "style", Val: fmt.Sprintf("width: %dpx", t.Width)},
	}, root.Attr...)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(element("html", []html.Attribute{{Key: "lang", Val: "en"}},
		head,
		element("body", nil, root),
	))

	if err := html.Render(w, doc); err != nil {
		return &RenderError{Message: "failed to write HTML", Cause: err}
	}
	return nil
}

// HTML is WriteHTML into a string.
func HTML(t *VisualTree) (string, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, t); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toHTML(n *Node) *html.Node {
	var attrs []html.Attribute
	class := n.Class
	if n.Align != AlignNone {
		class = strings.TrimSpace(class + " align-" + string(n.Align))
	}
	if class != "" {
		attrs = append(attrs, html.Attribute{Key: "class", Val: class})
	}
	if n.Role != "" {
		attrs = append(attrs, html.Attribute{Key: "data-role", Val: n.Role})
	}
	if n.Key != "" {
		attrs = append(attrs, html.Attribute{Key: "data-id", Val: n.Key})
	}

	out := element(n.Tag, attrs)
	if n.Text != "" {
		out.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
	}
	for _, c := range n.Children {
		out.AppendChild(toHTML(c))
	}
	return out
}

func element(tag string, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}
