// Package options holds the predefined choices offered to candidates when
// building a profile.
package options

import (
	"slices"
	"strings"
)

// NoInternship is the internship choice for candidates without one.
const NoInternship = "None"

var courseUniversities = []string{
	"Arts - Information Technology - University of Sri Jayewardenepura",
	"Computer Science - University of Colombo School of Computing (UCSC)",
	"Computer Science - University of Jaffna",
	"Computer Science - University of Ruhuna",
	"Trincomalee Campus - Eastern University, Sri Lanka",
	"Physical Science - ICT - University of Kelaniya",
	"Artificial Intelligence - University of Moratuwa",
	"Electronics and Computer Science - University of Kelaniya",
	"Information Systems - University of Colombo School of Computing (UCSC)",
	"Data Science - Sabaragamuwa University of Sri Lanka",
	"Information Technology (IT) - University of Moratuwa",
	"Management and Information Technology (MIT) - University of Kelaniya",
	"Computer Science & Technology - Uva Wellassa University of Sri Lanka",
	"Information Communication Technology - University of Sri Jayewardenepura",
	"Information Communication Technology - University of Kelaniya",
	"Information Communication Technology - University of Vavuniya, Sri Lanka",
	"Information Communication Technology - University of Ruhuna",
	"Information Communication Technology - South Eastern University of Sri Lanka",
	"Information Communication Technology - Rajarata University of Sri Lanka",
	"Information Communication Technology - University of Colombo",
	"Information Communication Technology - Uva Wellassa University of Sri Lanka",
	"Information Communication Technology - Eastern University, Sri Lanka",
}

var languages = []string{"English", "Sinhala", "Tamil"}

var skills = []string{
	"Python", "Java", "SQL", "JavaScript", "TensorFlow", "Pandas", "Docker",
	"Kubernetes", "HTML/CSS", "Power BI", "Spark", "AWS", "Azure",
	"Linux", "Tableau", "React", "Node.js",
}

var internships = []string{
	"Software Intern", "Data Analyst Intern", "ML Intern", "QA Intern",
	"BI Intern", "Cloud Intern", "Network Intern", "Cybersecurity Intern",
	"UI/UX Intern", NoInternship,
}

// Choices is the full set of form choices.
type Choices struct {
	CourseUniversities []string `json:"course_university"`
	Languages          []string `json:"languages"`
	Skills             []string `json:"skills"`
	Internships        []string `json:"internships"`
}

// All returns a copy of every choice list.
func All() Choices {
	return Choices{
		CourseUniversities: CourseUniversities(),
		Languages:          Languages(),
		Skills:             Skills(),
		Internships:        Internships(),
	}
}

func CourseUniversities() []string { return slices.Clone(courseUniversities) }
func Languages() []string          { return slices.Clone(languages) }
func Skills() []string             { return slices.Clone(skills) }
func Internships() []string        { return slices.Clone(internships) }

// IsKnownSkill reports whether s is one of the predefined skills, ignoring
// case and surrounding space. Candidates may still submit skills outside the
// list.
func IsKnownSkill(s string) bool {
	s = strings.TrimSpace(s)
	return slices.ContainsFunc(skills, func(k string) bool { return strings.EqualFold(k, s) })
}

// UnknownSkills returns the entries of in that are not predefined skills, in
// input order.
func UnknownSkills(in []string) []string {
	var out []string
	for _, s := range in {
		if !IsKnownSkill(s) {
			out = append(out, s)
		}
	}
	return out
}
