package rendering

import (
	"github.com/jonathan/resume-builder/internal/types"
)

const classicSeparator = " • "

// classicLayout is a single centered column: header, summary, experience,
// education, skills, always in that order.
func classicLayout(doc types.ResumeDocument) []*Node {
	p := doc.Personal

	header := el("header", "header",
		text("h1", "name", doc.FullName()).role(RoleName),
		text("p", "title", types.JoinNonEmpty(classicSeparator, p.Title, p.Location)).role(RoleTitle),
		text("p", "contact-line", types.JoinNonEmpty(classicSeparator, p.Email, p.Phone, p.LinkedIn)).role(RoleContact),
	).role(RoleHeader).align(AlignCenter)

	summary := el("section", "section summary",
		text("h2", "section-title", "Summary"),
		text("p", "summary-text", doc.Summary),
	).role(RoleSummary)

	experience := el("section", "section experience", text("h2", "section-title", "Experience")).role(RoleExperience)
	for _, e := range doc.Experience {
		experience.Children = append(experience.Children, el("div", "entry",
			el("div", "entry-head row",
				el("div", "inline",
					text("span", "entry-title", e.Title),
					text("span", "entry-org", e.Company),
				),
				text("span", "dates", dateRange(e.Start, e.End)).role(RoleDates).align(AlignRight),
			),
			text("p", "description", e.Description).role(RoleDescription),
		).role(RoleExperienceEntry).key(e.ID))
	}

	education := el("section", "section education", text("h2", "section-title", "Education")).role(RoleEducation)
	for _, e := range doc.Education {
		education.Children = append(education.Children, el("div", "entry",
			el("div", "entry-head row",
				el("div", "inline",
					text("span", "entry-title", e.Degree),
					text("span", "entry-org", e.School),
				),
				text("span", "dates", e.Year).role(RoleDates).align(AlignRight),
			),
		).role(RoleEducationEntry).key(e.ID))
	}

	list := el("ul", "inline-list")
	for _, s := range doc.Skills {
		list.Children = append(list.Children, text("li", "skill", s).role(RoleSkill))
	}
	skills := el("section", "section skills", text("h2", "section-title", "Skills"), list).role(RoleSkills)

	return []*Node{header, summary, experience, education, skills}
}
