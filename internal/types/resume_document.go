// Package types provides type definitions for the résumé document model shared by every component.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// TemplateVariant selects the layout used to render a document.
type TemplateVariant string

const (
	// TemplateModern is the two-column layout.
	TemplateModern TemplateVariant = "modern"
	// TemplateClassic is the single-column, centered layout.
	TemplateClassic TemplateVariant = "classic"
)

// TemplateVariants lists every supported variant in display order.
var TemplateVariants = []TemplateVariant{TemplateModern, TemplateClassic}

// Valid reports whether v is one of the supported variants.
func (v TemplateVariant) Valid() bool {
	return v == TemplateModern || v == TemplateClassic
}

// ParseTemplateVariant converts user input into a variant. Matching ignores
// case and surrounding whitespace.
func ParseTemplateVariant(s string) (TemplateVariant, bool) {
	v := TemplateVariant(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", false
	}
	return v, true
}

// PersonalInfo holds the contact block of a résumé. Every field is free text.
type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Title     string `json:"title"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin"`
	Website   string `json:"website"`
}

// ExperienceEntry is one position in the experience section.
type ExperienceEntry struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description"`
}

// EducationEntry is one degree in the education section.
type EducationEntry struct {
	ID     string `json:"id" validate:"required"`
	Degree string `json:"degree"`
	School string `json:"school"`
	Year   string `json:"year"`
}

// ResumeDocument is an immutable snapshot of a résumé. Values are copied, never
// edited in place; use Clone before modifying any slice.
type ResumeDocument struct {
	Personal   PersonalInfo      `json:"personal"`
	Summary    string            `json:"summary"`
	Skills     []string          `json:"skills"`
	Experience []ExperienceEntry `json:"experience" validate:"unique=ID,dive"`
	Education  []EducationEntry  `json:"education" validate:"unique=ID,dive"`
	Template   TemplateVariant   `json:"template" validate:"required,oneof=modern classic"`
}

var documentValidator = validator.New()

// Validate checks the structural invariants of a document: entry ids are
// present and unique per collection, and the template is a known variant.
func (d *ResumeDocument) Validate() error {
	return documentValidator.Struct(d)
}

// Clone returns a deep copy of d. Nil collections become empty ones so the
// copy is always fully defined.
func (d ResumeDocument) Clone() ResumeDocument {
	out := d
	out.Skills = append(make([]string, 0, len(d.Skills)), d.Skills...)
	out.Experience = append(make([]ExperienceEntry, 0, len(d.Experience)), d.Experience...)
	out.Education = append(make([]EducationEntry, 0, len(d.Education)), d.Education...)
	return out
}

// FullName joins first and last name with a single space, skipping empty parts.
func (d ResumeDocument) FullName() string {
	return JoinNonEmpty(" ", d.Personal.FirstName, d.Personal.LastName)
}

// ExperienceIndex returns the position of the entry with the given id, or -1.
func (d ResumeDocument) ExperienceIndex(id string) int {
	for i, e := range d.Experience {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// EducationIndex returns the position of the entry with the given id, or -1.
func (d ResumeDocument) EducationIndex(id string) int {
	for i, e := range d.Education {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// JoinNonEmpty joins the non-empty parts with sep.
func JoinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
