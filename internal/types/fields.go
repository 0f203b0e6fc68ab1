package types

// PersonalField names one field of PersonalInfo.
type PersonalField string

// Personal fields, named as they appear in the persisted document.
const (
	FieldFirstName PersonalField = "firstName"
	FieldLastName  PersonalField = "lastName"
	FieldTitle     PersonalField = "title"
	FieldEmail     PersonalField = "email"
	FieldPhone     PersonalField = "phone"
	FieldLocation  PersonalField = "location"
	FieldLinkedIn  PersonalField = "linkedin"
	FieldWebsite   PersonalField = "website"
)

// Valid reports whether f names a PersonalInfo field.
func (f PersonalField) Valid() bool {
	switch f {
	case FieldFirstName, FieldLastName, FieldTitle, FieldEmail,
		FieldPhone, FieldLocation, FieldLinkedIn, FieldWebsite:
		return true
	}
	return false
}

// Set returns a copy of p with field f replaced by value. An invalid field
// leaves p unchanged.
func (p PersonalInfo) Set(f PersonalField, value string) PersonalInfo {
	switch f {
	case FieldFirstName:
		p.FirstName = value
	case FieldLastName:
		p.LastName = value
	case FieldTitle:
		p.Title = value
	case FieldEmail:
		p.Email = value
	case FieldPhone:
		p.Phone = value
	case FieldLocation:
		p.Location = value
	case FieldLinkedIn:
		p.LinkedIn = value
	case FieldWebsite:
		p.Website = value
	}
	return p
}

// Get returns the value of field f, or "" for an invalid field.
func (p PersonalInfo) Get(f PersonalField) string {
	switch f {
	case FieldFirstName:
		return p.FirstName
	case FieldLastName:
		return p.LastName
	case FieldTitle:
		return p.Title
	case FieldEmail:
		return p.Email
	case FieldPhone:
		return p.Phone
	case FieldLocation:
		return p.Location
	case FieldLinkedIn:
		return p.LinkedIn
	case FieldWebsite:
		return p.Website
	}
	return ""
}

// ExperienceField names one editable field of ExperienceEntry. The id is not
// editable.
type ExperienceField string

// Experience fields.
const (
	ExperienceTitle       ExperienceField = "title"
	ExperienceCompany     ExperienceField = "company"
	ExperienceStart       ExperienceField = "start"
	ExperienceEnd         ExperienceField = "end"
	ExperienceDescription ExperienceField = "description"
)

// Valid reports whether f names an editable ExperienceEntry field.
func (f ExperienceField) Valid() bool {
	switch f {
	case ExperienceTitle, ExperienceCompany, ExperienceStart, ExperienceEnd, ExperienceDescription:
		return true
	}
	return false
}

// Set returns a copy of e with field f replaced by value.
func (e ExperienceEntry) Set(f ExperienceField, value string) ExperienceEntry {
	switch f {
	case ExperienceTitle:
		e.Title = value
	case ExperienceCompany:
		e.Company = value
	case ExperienceStart:
		e.Start = value
	case ExperienceEnd:
		e.End = value
	case ExperienceDescription:
		e.Description = value
	}
	return e
}

// EducationField names one editable field of EducationEntry.
type EducationField string

// Education fields.
const (
	EducationDegree EducationField = "degree"
	EducationSchool EducationField = "school"
	EducationYear   EducationField = "year"
)

// Valid reports whether f names an editable EducationEntry field.
func (f EducationField) Valid() bool {
	switch f {
	case EducationDegree, EducationSchool, EducationYear:
		return true
	}
	return false
}

// Set returns a copy of e with field f replaced by value.
func (e EducationEntry) Set(f EducationField, value string) EducationEntry {
	switch f {
	case EducationDegree:
		e.Degree = value
	case EducationSchool:
		e.School = value
	case EducationYear:
		e.Year = value
	}
	return e
}
