package types

// Ids of the entries in the built-in default document.
const (
	DefaultExperienceID = "exp-default"
	DefaultEducationID  = "edu-default"
)

// DefaultDocument returns a fresh copy of the built-in starter résumé. Callers
// may modify the result without affecting later calls.
func DefaultDocument() ResumeDocument {
	return ResumeDocument{
		Personal: PersonalInfo{
			FirstName: "John",
			LastName:  "Doe",
			Title:     "Software Engineer",
			Email:     "john.doe@example.com",
			Phone:     "+1 (555) 123-4567",
			Location:  "San Francisco, CA",
			LinkedIn:  "linkedin.com/in/johndoe",
			Website:   "johndoe.dev",
		},
		Summary: "Software engineer with 5+ years of experience building reliable web services and the tooling around them.",
		Skills:  []string{"Go", "PostgreSQL", "Docker", "Kubernetes", "TypeScript"},
		Experience: []ExperienceEntry{
			{
				ID:          DefaultExperienceID,
				Title:       "Senior Software Engineer",
				Company:     "Tech Corp",
				Start:       "2021",
				End:         "Present",
				Description: "Led the migration of the billing platform to an event-driven architecture and mentored a team of four engineers.",
			},
		},
		Education: []EducationEntry{
			{
				ID:     DefaultEducationID,
				Degree: "B.S. Computer Science",
				School: "State University",
				Year:   "2018",
			},
		},
		Template: TemplateModern,
	}
}
