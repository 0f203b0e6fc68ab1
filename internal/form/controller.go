// Package form binds individual form edits to document store operations.
//
// Each Edit names one section, one operation and, where relevant, one field.
// Apply maps it to exactly one store call. Edits that name a section, field
// or operation the form does not have are rejected before reaching the
// store; values inside a known field follow the store's no-op policy.
package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/types"
)

var (
	// ErrUnknownField is returned for a section or field the form does not have.
	ErrUnknownField = errors.New("unknown form field")
	// ErrUnsupportedOp is returned for an operation the section does not support.
	ErrUnsupportedOp = errors.New("unsupported operation")
)

// Section names a part of the form.
type Section string

// Sections.
const (
	SectionPersonal   Section = "personal"
	SectionSummary    Section = "summary"
	SectionTemplate   Section = "template"
	SectionSkills     Section = "skills"
	SectionExperience Section = "experience"
	SectionEducation  Section = "education"
	SectionDocument   Section = "document"
)

// Op is what an edit does. The zero value means OpSet.
type Op string

// Operations.
const (
	OpSet    Op = "set"
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
	OpReset  Op = "reset"
)

// Edit is one user action on the form.
type Edit struct {
	Section Section `json:"section"`
	Op      Op      `json:"op,omitempty"`
	ID      string  `json:"id,omitempty"`
	Index   int     `json:"index,omitempty"`
	Field   string  `json:"field,omitempty"`
	Value   string  `json:"value,omitempty"`
}

// Result is the outcome of an applied edit.
type Result struct {
	Document types.ResumeDocument `json:"document"`
	Changed  bool                 `json:"changed"`
	// ID is set when the edit created an entry.
	ID string `json:"id,omitempty"`
}

// Controller applies edits to a store.
type Controller struct {
	store *document.Store
}

// NewController creates a controller for store.
func NewController(store *document.Store) *Controller {
	return &Controller{store: store}
}

// Apply performs e. Invalid values inside a known field are not errors:
// they leave the document unchanged and report Changed=false.
func (c *Controller) Apply(ctx context.Context, e Edit) (Result, error) {
	op := e.Op
	if op == "" {
		op = OpSet
	}

	switch e.Section {
	case SectionPersonal:
		if op != OpSet {
			return c.unsupported(e.Section, op)
		}
		field := types.PersonalField(e.Field)
		if !field.Valid() {
			return c.unknownField(e.Section, e.Field)
		}
		return changed(c.store.SetPersonalField(ctx, field, e.Value))

	case SectionSummary:
		if op != OpSet {
			return c.unsupported(e.Section, op)
		}
		return changed(c.store.SetSummary(ctx, e.Value))

	case SectionTemplate:
		if op != OpSet {
			return c.unsupported(e.Section, op)
		}
		variant, ok := types.ParseTemplateVariant(e.Value)
		if !ok {
			variant = types.TemplateVariant(e.Value)
		}
		return changed(c.store.SetTemplate(ctx, variant))

	case SectionSkills:
		switch op {
		case OpAdd:
			return changed(c.store.AddSkill(ctx, e.Value))
		case OpRemove:
			return changed(c.store.RemoveSkill(ctx, e.Index))
		case OpClear:
			return changed(c.store.ClearSkills(ctx))
		}
		return c.unsupported(e.Section, op)

	case SectionExperience:
		switch op {
		case OpAdd:
			id, doc := c.store.AddExperience(ctx)
			return Result{Document: doc, Changed: true, ID: id}, nil
		case OpSet:
			field := types.ExperienceField(e.Field)
			if !field.Valid() {
				return c.unknownField(e.Section, e.Field)
			}
			return changed(c.store.UpdateExperience(ctx, e.ID, field, e.Value))
		case OpRemove:
			return changed(c.store.RemoveExperience(ctx, e.ID))
		}
		return c.unsupported(e.Section, op)

	case SectionEducation:
		switch op {
		case OpAdd:
			id, doc := c.store.AddEducation(ctx)
			return Result{Document: doc, Changed: true, ID: id}, nil
		case OpSet:
			field := types.EducationField(e.Field)
			if !field.Valid() {
				return c.unknownField(e.Section, e.Field)
			}
			return changed(c.store.UpdateEducation(ctx, e.ID, field, e.Value))
		case OpRemove:
			return changed(c.store.RemoveEducation(ctx, e.ID))
		}
		return c.unsupported(e.Section, op)

	case SectionDocument:
		if op != OpReset {
			return c.unsupported(e.Section, op)
		}
		return Result{Document: c.store.ResetToDefault(ctx), Changed: true}, nil
	}

	return c.unknownField(e.Section, "")
}

func changed(doc types.ResumeDocument, ok bool) (Result, error) {
	return Result{Document: doc, Changed: ok}, nil
}

func (c *Controller) unknownField(section Section, field string) (Result, error) {
	name := string(section)
	if field != "" {
		name += "." + field
	}
	return Result{Document: c.store.Snapshot()}, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

func (c *Controller) unsupported(section Section, op Op) (Result, error) {
	return Result{Document: c.store.Snapshot()}, fmt.Errorf("%w: %s on %s", ErrUnsupportedOp, op, section)
}
