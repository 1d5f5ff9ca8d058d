package matching

import (
	"fmt"
	"sort"
	"strings"

	"smart-hire-be/pkg/store"
)

// stopWords are generic recruiting vocabulary excluded from keyword scoring.
var stopWords = map[string]bool{
	"recherche": true, "cherche": true, "besoin": true, "rechercher": true, "trouver": true,
	"développeur": true, "développeurs": true, "developer": true, "dev": true, "engineer": true, "ingénieur": true,
	"candidat": true, "candidats": true, "profil": true, "profils": true, "personne": true,
	"poste": true, "emploi": true, "job": true, "travail": true, "mission": true,
	"pour": true, "avec": true, "dans": true, "sur": true, "une": true, "des": true, "les": true,
	"expérimenté": true, "expérience": true, "senior": true, "junior": true, "confirmé": true, "expert": true,
	"ans": true, "year": true, "years": true, "mois": true, "month": true, "months": true,
}

// keywordVariations expands a technology keyword to its common ecosystem so
// "python" also matches Django or PyTorch profiles.
var keywordVariations = map[string][]string{
	"python":     {"python", "django", "flask", "fastapi", "pydantic", "pytorch", "tensorflow"},
	"javascript": {"javascript", "js", "react", "vue", "angular", "node", "nodejs"},
	"java":       {"java", "spring", "hibernate", "maven", "gradle"},
	"data":       {"data", "scientist", "analyst", "engineer", "machine learning", "ml", "ai"},
	"web":        {"web", "frontend", "backend", "fullstack", "full-stack"},
	"mobile":     {"mobile", "android", "ios", "react native", "flutter"},
	"cloud":      {"cloud", "aws", "azure", "gcp", "devops", "kubernetes", "docker"},
	"blockchain": {"blockchain", "solidity", "web3", "ethereum", "crypto", "smart", "contract"},
	"security":   {"security", "cybersecurity", "cyber", "secure", "encryption", "cryptography"},
	"medecin":    {"médecin", "medecin", "docteur", "doctor", "cardio", "cardiologie", "cardiologue", "cardiovascular", "cardiovasculaire"},
}

var roleKeywords = map[string][]string{
	"developpeur": {"développeur", "developpeur", "developer", "dev", "ingénieur", "ingenieur", "engineer", "engineering"},
	"medecin":     {"médecin", "medecin", "docteur", "doctor", "cardiologue", "cardio"},
}

var coreTechnologies = map[string]bool{
	"python": true, "java": true, "javascript": true, "react": true, "angular": true,
	"django": true, "flask": true, "spring": true, "solidity": true, "blockchain": true,
}

// fallbackMatch is the deterministic keyword scorer. A candidate needs the
// experience floor plus at least one signal among skills, title and
// languages; the threshold relaxes when the query provides few signals.
func fallbackMatch(description string, pool []store.Candidate, count int) []store.Candidate {
	criteria := ExtractCriteria(description)

	keywords := map[string]bool{}
	for _, t := range tokens(description) {
		if !stopWords[t] {
			keywords[t] = true
		}
	}

	extended := map[string]bool{}
	for k := range keywords {
		extended[k] = true
		for _, variant := range keywordVariations[k] {
			extended[variant] = true
		}
	}

	requestedRoles := map[string]bool{}
	for role, variants := range roleKeywords {
		for _, v := range variants {
			if extended[v] || containsTerm(criteria.RoleTerms, v) {
				requestedRoles[role] = true
				break
			}
		}
	}

	providedSignals := 0
	if len(extended) > 0 {
		providedSignals++
	}
	if len(criteria.RoleTerms) > 0 {
		providedSignals++
	}
	if len(criteria.Languages) > 0 {
		providedSignals++
	}
	roleOnlyQuery := len(criteria.RoleTerms) > 0 && len(keywords) == 0 && len(criteria.Languages) == 0

	threshold := MinimumMatchScore
	if providedSignals <= 1 {
		threshold -= 10
	}
	if roleOnlyQuery {
		threshold -= 5
	}

	var scored []store.Candidate
	for _, cand := range pool {
		if cand.Experience < criteria.MinExperience {
			continue
		}

		score := 0
		matchingSkills := 0
		matchingInTitle := 0
		matchingLangs := 0

		skillsText := strings.ToLower(strings.Join(cand.Skills, " "))
		for kw := range extended {
			if strings.Contains(skillsText, kw) {
				matchingSkills++
				if coreTechnologies[kw] {
					score += 30
				} else {
					score += 20
				}
			}
		}

		title := strings.ToLower(cand.Title)
		for kw := range extended {
			if strings.Contains(title, kw) {
				matchingInTitle++
				score += 15
			}
		}
		for role := range requestedRoles {
			for _, v := range roleKeywords[role] {
				if strings.Contains(title, v) {
					matchingInTitle++
					score += 15
					break
				}
			}
		}
		for _, rt := range criteria.RoleTerms {
			if strings.Contains(title, rt) {
				score += 15
				break
			}
		}

		education := strings.ToLower(cand.Education)
		for kw := range extended {
			if strings.Contains(education, kw) {
				score += 5
			}
		}

		for _, lang := range criteria.Languages {
			for _, cl := range cand.Languages {
				if strings.Contains(strings.ToLower(cl), lang) {
					matchingLangs++
					score += 10
					break
				}
			}
		}

		// Experience above the floor is worth up to 15 points.
		bonus := (cand.Experience - criteria.MinExperience) * 2
		if bonus > 15 {
			bonus = 15
		}
		score += bonus

		signals := 0
		if matchingSkills > 0 {
			signals++
		}
		if matchingInTitle > 0 {
			signals++
		}
		if matchingLangs > 0 {
			signals++
		}
		if signals == 0 {
			continue
		}

		// A medical query requires the role in the title, not just in skills.
		if requestedRoles["medecin"] {
			inTitle := false
			for _, v := range roleKeywords["medecin"] {
				if strings.Contains(title, v) {
					inTitle = true
					break
				}
			}
			if !inTitle {
				continue
			}
		}

		if score < threshold {
			continue
		}
		if score > 100 {
			score = 100
		}
		cand.MatchScore = score
		cand.MatchReason = fmt.Sprintf(
			"✓ %d compétences techniques | ✓ %d match(s) titre | ✓ %d ans exp.",
			matchingSkills, matchingInTitle, cand.Experience,
		)
		scored = append(scored, cand)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})
	if len(scored) > count {
		scored = scored[:count]
	}
	return scored
}

func containsTerm(terms []string, term string) bool {
	for _, t := range terms {
		if t == term {
			return true
		}
	}
	return false
}
