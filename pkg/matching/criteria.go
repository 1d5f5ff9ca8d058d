package matching

import (
	"regexp"
	"strconv"
	"strings"
)

// Criteria are the structured constraints read out of a free-text search.
type Criteria struct {
	MinExperience int
	Languages     []string
	RoleTerms     []string
}

var (
	yearsRe = regexp.MustCompile(`(\d+)\+?\s*ans`)
	tokenRe = regexp.MustCompile(`[a-zA-ZÀ-ÿ0-9+#]+`)
)

var languageAliases = []struct {
	alias string
	lang  string
}{
	{"francais", "français"}, {"français", "français"}, {"french", "français"},
	{"anglais", "anglais"}, {"english", "anglais"},
	{"espagnol", "espagnol"}, {"spanish", "espagnol"},
	{"arabe", "arabe"}, {"arabic", "arabe"},
	{"allemand", "allemand"}, {"german", "allemand"},
}

var roleVariants = []string{
	"developpeur", "développeur", "developpeurs", "développeurs", "developer", "dev",
	"software engineer", "software engineers", "software engineering",
	"ingenieur logiciel", "ingénieur logiciel", "engineer", "engineers",
	"ingénieur", "ingenieur", "ingénieurs", "ingenieurs",
	"medecin", "médecin", "docteur", "doctor", "cardiologue",
}

// ExtractCriteria reads the experience floor, requested languages and role
// terms from a job description. "senior" raises the floor to 5 years and
// "expert" to 7; an explicit year count wins when higher.
func ExtractCriteria(description string) Criteria {
	lower := strings.ToLower(description)
	c := Criteria{}

	if m := yearsRe.FindStringSubmatch(lower); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil && years > c.MinExperience {
			c.MinExperience = years
		}
	}
	if strings.Contains(lower, "senior") && c.MinExperience < 5 {
		c.MinExperience = 5
	}
	if strings.Contains(lower, "expert") && c.MinExperience < 7 {
		c.MinExperience = 7
	}

	seen := map[string]bool{}
	for _, la := range languageAliases {
		if strings.Contains(lower, la.alias) && !seen[la.lang] {
			seen[la.lang] = true
			c.Languages = append(c.Languages, la.lang)
		}
	}

	for _, term := range roleVariants {
		if strings.Contains(lower, term) {
			c.RoleTerms = append(c.RoleTerms, term)
		}
	}
	return c
}

// tokens splits a description into lowercase words longer than two runes.
func tokens(description string) []string {
	var out []string
	for _, t := range tokenRe.FindAllString(strings.ToLower(description), -1) {
		if len([]rune(t)) > 2 {
			out = append(out, t)
		}
	}
	return out
}
