package rendering

import (
	"github.com/jonathan/resume-builder/internal/types"
)

// modernLayout: name and title on the left of the header, contact block on
// the right, summary full width, then a wide column with experience and
// education beside a narrow column with skill tags.
func modernLayout(doc types.ResumeDocument) []*Node {
	p := doc.Personal

	identity := el("div", "identity",
		text("h1", "name", doc.FullName()).role(RoleName),
		text("p", "title", p.Title).role(RoleTitle),
	).align(AlignLeft)

	contact := el("div", "contact").role(RoleContact).align(AlignRight)
	for _, line := range []string{p.Email, p.Phone, p.Location, p.LinkedIn, p.Website} {
		if line != "" {
			contact.Children = append(contact.Children, text("p", "contact-line", line))
		}
	}

	header := el("header", "header row", identity, contact).role(RoleHeader)

	summary := el("section", "section summary",
		text("h2", "section-title", "Summary"),
		text("p", "summary-text", doc.Summary),
	).role(RoleSummary)

	experience := el("section", "section experience", text("h2", "section-title", "Experience")).role(RoleExperience)
	for _, e := range doc.Experience {
		experience.Children = append(experience.Children, modernExperience(e))
	}

	education := el("section", "section education", text("h2", "section-title", "Education")).role(RoleEducation)
	for _, e := range doc.Education {
		education.Children = append(education.Children, modernEducation(e))
	}

	tags := el("ul", "tags")
	for _, s := range doc.Skills {
		tags.Children = append(tags.Children, text("li", "tag", s).role(RoleSkill))
	}
	skills := el("section", "section skills", text("h2", "section-title", "Skills"), tags).role(RoleSkills)

	body := el("div", "columns",
		el("div", "col-main", experience, education),
		el("aside", "col-side", skills),
	)

	return []*Node{header, summary, body}
}

func modernExperience(e types.ExperienceEntry) *Node {
	return el("div", "entry",
		el("div", "entry-head row",
			text("h3", "entry-title", e.Title),
			text("span", "dates", dateRange(e.Start, e.End)).role(RoleDates).align(AlignRight),
		),
		text("p", "entry-org", e.Company),
		text("p", "description", e.Description).role(RoleDescription),
	).role(RoleExperienceEntry).key(e.ID)
}

func modernEducation(e types.EducationEntry) *Node {
	return el("div", "entry",
		el("div", "entry-head row",
			text("h3", "entry-title", e.Degree),
			text("span", "dates", e.Year).role(RoleDates).align(AlignRight),
		),
		text("p", "entry-org", e.School),
	).role(RoleEducationEntry).key(e.ID)
}
