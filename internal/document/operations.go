package document

import (
	"context"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Operation names used for metrics and logs.
const (
	OpSetPersonal      = "set_personal"
	OpSetSummary       = "set_summary"
	OpSetTemplate      = "set_template"
	OpAddSkill         = "add_skill"
	OpRemoveSkill      = "remove_skill"
	OpClearSkills      = "clear_skills"
	OpAddExperience    = "add_experience"
	OpUpdateExperience = "update_experience"
	OpRemoveExperience = "remove_experience"
	OpAddEducation     = "add_education"
	OpUpdateEducation  = "update_education"
	OpRemoveEducation  = "remove_education"
)

// validText replaces invalid UTF-8 so the snapshot survives a JSON round trip
// through the persisted draft unchanged.
func validText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// SetPersonalField replaces one field of the personal block.
func (s *Store) SetPersonalField(ctx context.Context, field types.PersonalField, value string) (types.ResumeDocument, bool) {
	return s.apply(ctx, OpSetPersonal, func(doc types.ResumeDocument) (types.ResumeDocument, bool) {
		if !field.Valid() {
			return doc, false
		}
		doc.Personal = doc.Personal.Set(field, validText(value))
		return doc, true
	})
}

// SetSummary replaces the summary text.
func (s *Store) SetSummary(ctx context.Context, value string) (types.ResumeDocument, bool) {
	return s.apply(ctx, OpSetSummary, func(doc types.ResumeDocument) (types.ResumeDocument, bool) {
		doc.Summary = validText(value)
		return doc, true
	})
}

// SetTemplate selects the active layout. Unknown variants are ignored.
func (s *Store) SetTemplate(ctx context.Context, variant types.TemplateVariant) (types.ResumeDocument, bool) {
	return s.apply(ctx, OpSetTemplate, func(doc types.ResumeDocument) (types.ResumeDocument, bool) {
		if !variant.Valid() {
			return doc, false
		}
		doc.Template = variant
		return doc, true
	})
}

// AddSkill appends text to the skill list unless it is blank.
func (s *Store) AddSkill(ctx context.Context, text string) (types.ResumeDocument, bool) {
	return s.apply(ctx, OpAddSkill, func(doc types.ResumeDocument) (types.ResumeDocument, bool) {
		if strings.TrimSpace(text) == "" {
			return doc, false
		}
		doc.Skills = append(doc.Skills, validText(text))
		return doc, true
	})
}

// RemoveSkill removes the skill at index. Out-of-range indexes are ignored.
func (s *Store) RemoveSkill(ctx context.Context, index int) (types.ResumeDocument, bool) {
	return s.apply(ctx, OpRemoveSkill, func(doc types.ResumeDocument) (types.ResumeDocument, bool) {
		if index < 0 || index >= len(doc.Skills) {
			return doc, false
		}
		doc.Skills = append(doc.Skills[:index:index], doc.Skills[index+1:]...)
		return doc, true
	})
}

// ClearSkills empties the skill list.
func (s *Store) ClearSkills(ctx context.Context) (types.ResumeDocument, bool) {
	return s.apply(ctx, OpClearSkills, func(doc types.ResumeDocument) (types.ResumeDocument, bool) {
		doc.Skills = []string{}
		return doc, true
	})
}

// AddExperience appends an empty experience entry and returns its id.
func (s *Store) AddExperience(ctx context.Context) (string, types.ResumeDocument) {
	var id string
	doc, _ := s.apply(ctx, OpAddExperience, func(doc types.ResumeDocument) (types.ResumeDocument, bool) {
		id = uniqueID(s.newID, func(c string) bool { return doc.ExperienceIndex(c) >= 0 })
		doc.Experience = append(doc.Experience, types.ExperienceEntry{ID: id})
		return doc, true
	})
	return id, doc
}

// UpdateExperience replaces one field of the entry with the given id.
func (s *Store) UpdateExperience(ctx context.Context, id string, field types.ExperienceField, value string) (types.ResumeDocument, bool) {
	return s.apply(ctx, OpUpdateExperience, func(doc types.ResumeDocument) (types.ResumeDocument, bool) {
		i := doc.ExperienceIndex(id)
		if i < 0 || !field.Valid() {
			return doc, false
		}
		doc.Experience[i] = doc.Experience[i].Set(field, validText(value))
		return doc, true
	})
}

// RemoveExperience removes the entry with the given id.
func (s *Store) RemoveExperience(ctx context.Context, id string) (types.ResumeDocument, bool) {
	return s.apply(ctx, OpRemoveExperience, func(doc types.ResumeDocument) (types.ResumeDocument, bool) {
		i := doc.ExperienceIndex(id)
		if i < 0 {
			return doc, false
		}
		doc.Experience = append(doc.Experience[:i:i], doc.Experience[i+1:]...)
		return doc, true
	})
}

// AddEducation appends an empty education entry and returns its id.
func (s *Store) AddEducation(ctx context.Context) (string, types.ResumeDocument) {
	var id string
	doc, _ := s.apply(ctx, OpAddEducation, func(doc types.ResumeDocument) (types.ResumeDocument, bool) {
		id = uniqueID(s.newID, func(c string) bool { return doc.EducationIndex(c) >= 0 })
		doc.Education = append(doc.Education, types.EducationEntry{ID: id})
		return doc, true
	})
	return id, doc
}

// UpdateEducation replaces one field of the entry with the given id.
func (s *Store) UpdateEducation(ctx context.Context, id string, field types.EducationField, value string) (types.ResumeDocument, bool) {
	return s.apply(ctx, OpUpdateEducation, func(doc types.ResumeDocument) (types.ResumeDocument, bool) {
		i := doc.EducationIndex(id)
		if i < 0 || !field.Valid() {
			return doc, false
		}
		doc.Education[i] = doc.Education[i].Set(field, validText(value))
		return doc, true
	})
}

// RemoveEducation removes the entry with the given id.
func (s *Store) RemoveEducation(ctx context.Context, id string) (types.ResumeDocument, bool) {
	return s.apply(ctx, OpRemoveEducation, func(doc types.ResumeDocument) (types.ResumeDocument, bool) {
		i := doc.EducationIndex(id)
		if i < 0 {
			return doc, false
		}
		doc.Education = append(doc.Education[:i:i], doc.Education[i+1:]...)
		return doc, true
	})
}
