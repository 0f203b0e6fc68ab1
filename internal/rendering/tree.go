// Package rendering maps a résumé document onto a visual tree for one of the
// layout templates and serializes that tree to HTML for preview and capture.
package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultWidth is the layout width in CSS pixels: A4 at 96 dpi.
const DefaultWidth = 794

// RootID is the element id of the résumé root in serialized HTML. The export
// capture step measures this element.
const RootID = "resume"

// Align is the horizontal alignment of a node's content.
type Align string

// Alignments.
const (
	AlignNone   Align = ""
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Roles tag nodes with their meaning in the résumé so callers can find them
// without depending on the layout.
const (
	RoleRoot            = "resume"
	RoleHeader          = "header"
	RoleName            = "name"
	RoleTitle           = "title"
	RoleContact         = "contact"
	RoleSummary         = "summary"
	RoleExperience      = "experience"
	RoleExperienceEntry = "experience-entry"
	RoleEducation       = "education"
	RoleEducationEntry  = "education-entry"
	RoleSkills          = "skills"
	RoleSkill           = "skill"
	RoleDates           = "dates"
	RoleDescription     = "description"
)

// Node is one element of the visual tree.
type Node struct {
	Tag      string
	Class    string
	Role     string
	Key      string // entry id for entry nodes
	Align    Align
	Text     string
	Children []*Node
}

// VisualTree is the rendered layout of one document in one template.
type VisualTree struct {
	Variant types.TemplateVariant
	Title   string
	Width   int
	Root    *Node
}

// Walk visits n and its descendants depth-first in document order. Returning
// false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Texts returns the non-empty text of every node in document order.
func (t *VisualTree) Texts() []string {
	var out []string
	Walk(t.Root, func(n *Node) bool {
		if n.Text != "" {
			out = append(out, n.Text)
		}
		return true
	})
	return out
}

// FindAll returns every node with the given role in document order.
func (t *VisualTree) FindAll(role string) []*Node {
	var out []*Node
	Walk(t.Root, func(n *Node) bool {
		if n.Role == role {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Keys returns the entry ids of every node with the given role in document order.
func (t *VisualTree) Keys(role string) []string {
	nodes := t.FindAll(role)
	keys := make([]string, 0, len(nodes))
	for _, n := range nodes {
		keys = append(keys, n.Key)
	}
	return keys
}

func el(tag, class string, children ...*Node) *Node {
	return &Node{Tag: tag, Class: class, Children: children}
}

func text(tag, class, s string) *Node {
	return &Node{Tag: tag, Class: class, Text: s}
}

func (n *Node) role(r string) *Node {
	n.Role = r
	return n
}

func (n *Node) align(a Align) *Node {
	n.Align = a
	return n
}

func (n *Node) key(k string) *Node {
	n.Key = k
	return n
}

// Option adjusts rendering.
type Option func(*VisualTree)

// WithWidth sets the layout width in CSS pixels. Non-positive values are ignored.
func WithWidth(px int) Option {
	return func(t *VisualTree) {
		if px > 0 {
			t.Width = px
		}
	}
}

// Render lays out doc with the given template. It never modifies doc. An
// unknown variant falls back to the modern layout.
func Render(doc types.ResumeDocument, variant types.TemplateVariant, opts ...Option) *VisualTree {
	if !variant.Valid() {
		variant = types.TemplateModern
	}
	t := &VisualTree{
		Variant: variant,
		Title:   doc.FullName(),
		Width:   DefaultWidth,
	}
	for _, opt := range opts {
		opt(t)
	}

	var body []*Node
	switch variant {
	case types.TemplateClassic:
		body = classicLayout(doc)
	default:
		body = modernLayout(doc)
	}
	t.Root = el("div", "resume "+string(variant), body...).role(RoleRoot)
	return t
}

// RenderCurrent lays out doc with its own selected template.
func RenderCurrent(doc types.ResumeDocument, opts ...Option) *VisualTree {
	return Render(doc, doc.Template, opts...)
}

// Lookup resolves a template name such as a query parameter.
func Lookup(name string) (types.TemplateVariant, error) {
	v, ok := types.ParseTemplateVariant(name)
	if !ok {
		names := make([]string, len(types.TemplateVariants))
		for i, tv := range types.TemplateVariants {
			names[i] = string(tv)
		}
		return "", &TemplateError{Message: fmt.Sprintf("unknown template %q (available: %s)", name, strings.Join(names, ", "))}
	}
	return v, nil
}

func dateRange(start, end string) string {
	return types.JoinNonEmpty(" – ", start, end)
}
